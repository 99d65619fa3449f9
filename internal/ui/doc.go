// Package ui implements the interactive terminal interface using bubbletea's Elm architecture.
//
// The root [Model] switches on the session phase decided at bootstrap:
//  1. [onboardingView] : first-run welcome, completes onboarding
//  2. [loginView] : email/password form with remember-me
//  3. [menuView] : entity menu for the authenticated home screen
//  4. [listView] : one entity's records with add/edit/delete
//  5. [formView] : edit-in-place form for a create or update
//
// The model subscribes to the notification bus on Init and renders the
// currently visible toast in a status line across every view; bus deliveries
// arrive through a channel and are re-entered into the program as messages,
// so publishes from any goroutine surface without touching bubbletea state
// directly.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, a/e/d, q)
// with contextual help displayed via charmbracelet/bubbles/help.
package ui

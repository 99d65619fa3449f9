package ui

import (
	"github.com/campuskit/campusctl/internal/notify"
	"github.com/campuskit/campusctl/internal/session"
)

// bootstrapDoneMsg carries the initial phase decided from persisted state.
type bootstrapDoneMsg struct {
	phase session.Phase
}

// toastMsg carries a bus delivery; a nil message means the visible toast
// was dismissed.
type toastMsg struct {
	msg *notify.Message
}

// loginDoneMsg reports the outcome of an authentication attempt.
type loginDoneMsg struct {
	err error
}

// listLoadedMsg reports that the active screen finished a list fetch.
type listLoadedMsg struct{}

// mutationDoneMsg reports the outcome of a submit or delete on the active screen.
type mutationDoneMsg struct {
	ok bool
}

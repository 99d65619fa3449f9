// Package tasks implements long-running client operations, currently the
// snapshot export: a rate-limited sweep over every entity endpoint that
// writes each normalized list to a JSON file for backup or offline
// inspection. Progress flows to the caller over a channel so the CLI can
// report without blocking the sweep.
package tasks

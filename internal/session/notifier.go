package session

import "log"

// Notifier receives the user-visible transient message every terminal
// operation emits. Rendering is someone else's problem.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// LogNotifier is the default sink when no notification transport is
// wired in.
type LogNotifier struct {
	SessionID string
}

func (n LogNotifier) Success(msg string) {
	log.Printf("session %s: %s", n.SessionID, msg)
}

func (n LogNotifier) Error(msg string) {
	log.Printf("session %s: error: %s", n.SessionID, msg)
}

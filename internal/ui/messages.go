package ui

import "tubegrab/internal/session"

// sessionEventMsg carries one controller event into the Update loop.
type sessionEventMsg struct {
	Ev session.Event
}

// sessionClosedMsg signals that the surrounding context was cancelled.
type sessionClosedMsg struct{}

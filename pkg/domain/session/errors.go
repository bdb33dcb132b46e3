package session

import "errors"

var (
	// ErrSessionNotFound is returned when no session exists for an id.
	ErrSessionNotFound = errors.New("session not found")
	// ErrInvalidTransition is returned when a lifecycle event does not apply.
	ErrInvalidTransition = errors.New("invalid session transition")
	// ErrInvalidID is returned for ids that are not UUIDs.
	ErrInvalidID = errors.New("invalid session id")
)

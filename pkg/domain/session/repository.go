package session

// Repository persists sessions keyed by id.
type Repository interface {
	SaveSession(s *Session) error
	// LoadSession returns ErrSessionNotFound when no session exists for id.
	LoadSession(id string) (*Session, error)
	DeleteSession(id string) error
	// ListSessions returns all sessions, most recently updated first.
	ListSessions() ([]*Session, error)
}

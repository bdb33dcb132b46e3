package application_test

import (
	"fmt"
	"sort"
	"sync"

	"github.com/felixgeelhaar/cadence/pkg/domain/session"
)

// MockRepo is an in-memory session.Repository.
type MockRepo struct {
	mu        sync.Mutex
	Sessions  map[string]session.Session
	SaveError error
	Saves     int
}

func NewMockRepo() *MockRepo {
	return &MockRepo{Sessions: make(map[string]session.Session)}
}

func (m *MockRepo) SaveSession(s *session.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveError != nil {
		return m.SaveError
	}
	m.Saves++
	cp := *s
	cp.Messages = append([]session.Message(nil), s.Messages...)
	m.Sessions[s.ID] = cp
	return nil
}

func (m *MockRepo) LoadSession(id string) (*session.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.Sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", session.ErrSessionNotFound, id)
	}
	s.Messages = append([]session.Message(nil), s.Messages...)
	return &s, nil
}

func (m *MockRepo) DeleteSession(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Sessions[id]; !ok {
		return session.ErrSessionNotFound
	}
	delete(m.Sessions, id)
	return nil
}

func (m *MockRepo) ListSessions() ([]*session.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*session.Session, 0, len(m.Sessions))
	for _, s := range m.Sessions {
		s := s
		out = append(out, &s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

const launchPlanJSON = `{
  "project_name": "Mobile App",
  "total_duration": 14,
  "tasks": [
    {"id": 1, "name": "Design mockups", "owner": "Designer", "duration": 4, "start_day": 0, "dependencies": []},
    {"id": 2, "name": "Development", "owner": "Engineer", "duration": 7, "start_day": 4, "dependencies": [1]},
    {"id": 3, "name": "Testing", "owner": "QA", "duration": 3, "start_day": 11, "dependencies": [2]}
  ]
}`

const revisedPlanJSON = "Here is the updated plan:\n```json\n" + `{
  "project_name": "Mobile App",
  "total_duration": 17,
  "tasks": [
    {"id": 1, "name": "Design mockups", "owner": "Designer", "duration": 4, "start_day": 0, "dependencies": []},
    {"id": 2, "name": "Development", "owner": "Engineer", "duration": 10, "start_day": 4, "dependencies": [1]},
    {"id": 3, "name": "Testing", "owner": "QA", "duration": 3, "start_day": 14, "dependencies": [2]}
  ]
}` + "\n```"

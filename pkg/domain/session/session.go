// Package session models a planning conversation and the plan snapshots it
// produced.
package session

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/cadence/pkg/domain/planning"
)

// Session is a caller-owned conversation plus its previous and current plan.
type Session struct {
	ID           string         `json:"id"`
	Messages     []Message      `json:"messages"`
	PreviousPlan *planning.Plan `json:"previous_plan,omitempty"`
	CurrentPlan  *planning.Plan `json:"current_plan,omitempty"`
	Phase        Phase          `json:"phase"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// New creates an empty session with a fresh random id.
func New(now time.Time) *Session {
	return &Session{
		ID:        uuid.NewString(),
		Messages:  make([]Message, 0),
		Phase:     PhaseEmpty,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// ValidateID checks that id is a UUID.
func ValidateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return nil
}

// AddMessage appends a message to the conversation.
func (s *Session) AddMessage(role Role, content string, now time.Time) {
	s.Messages = append(s.Messages, Message{Role: role, Content: content, CreatedAt: now})
	s.UpdatedAt = now
}

// Advance installs next as the current plan and keeps the former current
// plan as the previous snapshot.
func (s *Session) Advance(next planning.Plan, now time.Time) error {
	event := EventRevise
	if s.phase() == PhaseEmpty {
		event = EventPlan
	}
	if err := s.fire(event); err != nil {
		return err
	}

	s.PreviousPlan = s.CurrentPlan
	plan := next.Clone()
	s.CurrentPlan = &plan
	s.UpdatedAt = now
	return nil
}

// Reset clears both plan snapshots and the conversation.
func (s *Session) Reset(now time.Time) error {
	if err := s.fire(EventReset); err != nil {
		return err
	}
	s.PreviousPlan = nil
	s.CurrentPlan = nil
	s.Messages = make([]Message, 0)
	s.UpdatedAt = now
	return nil
}

// LastAssistantMessage returns the most recent assistant reply.
func (s *Session) LastAssistantMessage() (Message, bool) {
	for i := len(s.Messages) - 1; i >= 0; i-- {
		if s.Messages[i].Role == RoleAssistant {
			return s.Messages[i], true
		}
	}
	return Message{}, false
}

func (s *Session) phase() Phase {
	if s.Phase == "" {
		return PhaseEmpty
	}
	return s.Phase
}

func (s *Session) fire(event string) error {
	lc, err := NewLifecycle(s.phase(), s.ID)
	if err != nil {
		return err
	}
	if err := lc.Fire(event); err != nil {
		return err
	}
	s.Phase = lc.Current()
	return nil
}

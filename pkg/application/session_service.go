package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/felixgeelhaar/cadence/pkg/domain/planning"
	"github.com/felixgeelhaar/cadence/pkg/domain/session"
)

// Generator produces a plan from a conversation.
type Generator interface {
	Generate(ctx context.Context, messages []session.Message) (*planning.Plan, error)
}

// Turn is the outcome of one user message or manual plan edit.
type Turn struct {
	Session *session.Session
	// Diff is nil when no new plan was installed.
	Diff *planning.PlanDiff
	// Reply is the assistant message appended to the conversation.
	Reply string
	// NeedsClarification is set when the generator could not produce a plan.
	NeedsClarification bool
}

// SessionService runs planning conversations. At most one generation is in
// flight per session so the previous snapshot is never stale.
type SessionService struct {
	repo      session.Repository
	generator Generator
	differ    *planning.Differ
	notifier  ChangeNotifier
	logger    *slog.Logger
	now       func() time.Time

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewSessionService(repo session.Repository, generator Generator, differ *planning.Differ, logger *slog.Logger) *SessionService {
	if differ == nil {
		differ = planning.NewDiffer(nil)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionService{
		repo:      repo,
		generator: generator,
		differ:    differ,
		logger:    logger,
		now:       time.Now,
		locks:     make(map[string]*sync.Mutex),
	}
}

// SetNotifier publishes an event after every installed plan.
func (s *SessionService) SetNotifier(n ChangeNotifier) {
	s.notifier = n
}

func (s *SessionService) lock(id string) func() {
	s.mu.Lock()
	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	s.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// NewSession creates and persists an empty session.
func (s *SessionService) NewSession() (*session.Session, error) {
	sess := session.New(s.now())
	if err := s.repo.SaveSession(sess); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	s.logger.Info("session created", "session_id", sess.ID)
	return sess, nil
}

func (s *SessionService) GetSession(id string) (*session.Session, error) {
	return s.repo.LoadSession(id)
}

func (s *SessionService) ListSessions() ([]*session.Session, error) {
	return s.repo.ListSessions()
}

// ResetSession clears a session's plans and conversation.
func (s *SessionService) ResetSession(id string) (*session.Session, error) {
	unlock := s.lock(id)
	defer unlock()

	sess, err := s.repo.LoadSession(id)
	if err != nil {
		return nil, err
	}
	if err := sess.Reset(s.now()); err != nil {
		return nil, err
	}
	if err := s.repo.SaveSession(sess); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	s.logger.Info("session reset", "session_id", id)
	return sess, nil
}

func (s *SessionService) DeleteSession(id string) error {
	unlock := s.lock(id)
	defer unlock()

	if err := s.repo.DeleteSession(id); err != nil {
		return err
	}
	s.mu.Lock()
	delete(s.locks, id)
	s.mu.Unlock()
	return nil
}

// Send appends a user message, asks the generator for a new plan and
// installs it. When the generator cannot produce a plan the session keeps its
// plans and the turn carries a clarification request.
func (s *SessionService) Send(ctx context.Context, id, content string) (*Turn, error) {
	unlock := s.lock(id)
	defer unlock()

	sess, err := s.repo.LoadSession(id)
	if err != nil {
		return nil, err
	}

	sess.AddMessage(session.RoleUser, content, s.now())
	window := recentMessages(sess.Messages, session.MaxMessages)
	if err := session.ValidateConversation(window); err != nil {
		return nil, err
	}

	plan, err := s.generator.Generate(ctx, window)
	if err != nil {
		var vErr *planning.ValidationError
		if !errors.As(err, &vErr) {
			return nil, err
		}
		s.logger.Info("plan generation needs clarification", "session_id", id, "problems", len(vErr.Problems))
		sess.AddMessage(session.RoleAssistant, ClarificationReply, s.now())
		if err := s.repo.SaveSession(sess); err != nil {
			return nil, fmt.Errorf("save session: %w", err)
		}
		return &Turn{Session: sess, Reply: ClarificationReply, NeedsClarification: true}, nil
	}

	return s.install(ctx, sess, *plan)
}

// ApplyPlan installs a plan edited outside the conversation, without calling
// the generator.
func (s *SessionService) ApplyPlan(ctx context.Context, id string, plan planning.Plan) (*Turn, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := plan.Validate(); err != nil {
		return nil, err
	}

	unlock := s.lock(id)
	defer unlock()

	sess, err := s.repo.LoadSession(id)
	if err != nil {
		return nil, err
	}
	return s.install(ctx, sess, plan)
}

func (s *SessionService) install(ctx context.Context, sess *session.Session, plan planning.Plan) (*Turn, error) {
	previous := sess.CurrentPlan
	diff := s.differ.Diff(previous, plan)

	if err := sess.Advance(plan, s.now()); err != nil {
		return nil, err
	}

	reply := fitMessage(RenderChangeNarrative(previous, plan, diff))
	sess.AddMessage(session.RoleAssistant, reply, s.now())

	if err := s.repo.SaveSession(sess); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	s.logger.Info("plan installed",
		"session_id", sess.ID,
		"phase", sess.Phase,
		"tasks", len(plan.Tasks),
		"timeline_delta", diff.TimelineDelta,
		"modified", len(diff.Modified),
		"added", len(diff.Added),
		"removed", len(diff.Removed),
	)
	if s.notifier != nil {
		s.notifier.Notify(ctx, NewPlanChangedEvent(sess.ID, previous, plan, diff, reply, s.now()))
	}

	return &Turn{Session: sess, Diff: &diff, Reply: reply}, nil
}

func recentMessages(messages []session.Message, limit int) []session.Message {
	if len(messages) <= limit {
		return messages
	}
	return messages[len(messages)-limit:]
}

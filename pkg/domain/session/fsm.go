package session

import (
	"fmt"

	"github.com/felixgeelhaar/statekit"
)

// State constants for statekit. They mirror the Phase values.
const (
	stateEmpty   = "empty"
	statePlanned = "planned"
	stateRevised = "revised"
)

// LifecycleContext carries the session id for diagnostics.
type LifecycleContext struct {
	SessionID string
}

// Lifecycle drives the phase transitions of a session.
type Lifecycle struct {
	interpreter *statekit.Interpreter[LifecycleContext]
}

// NewLifecycle builds a lifecycle machine positioned at the given phase.
func NewLifecycle(initial Phase, sessionID string) (*Lifecycle, error) {
	if !initial.IsValid() {
		return nil, fmt.Errorf("%w: unknown phase %q", ErrInvalidTransition, initial)
	}

	builder := statekit.NewMachine[LifecycleContext]("session-lifecycle").
		WithInitial(statekit.StateID(initial)).
		WithContext(LifecycleContext{SessionID: sessionID})

	builder.State(stateEmpty).
		On(EventPlan).Target(statePlanned).
		On(EventReset).Target(stateEmpty).
		Done()

	builder.State(statePlanned).
		On(EventRevise).Target(stateRevised).
		On(EventReset).Target(stateEmpty).
		Done()

	builder.State(stateRevised).
		On(EventRevise).Target(stateRevised).
		On(EventReset).Target(stateEmpty).
		Done()

	machine, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build session lifecycle: %w", err)
	}

	interpreter := statekit.NewInterpreter(machine)
	interpreter.Start()
	return &Lifecycle{interpreter: interpreter}, nil
}

// Fire applies an event. Events the current phase does not accept leave the
// phase unchanged and return ErrInvalidTransition.
func (l *Lifecycle) Fire(event string) error {
	current := l.Current()
	if !current.CanTransitionWith(event) {
		return fmt.Errorf("%w: %q is not allowed in phase %q", ErrInvalidTransition, event, current)
	}
	l.interpreter.Send(statekit.Event{Type: statekit.EventType(event)})
	return nil
}

// Current returns the phase the machine is in.
func (l *Lifecycle) Current() Phase {
	return Phase(l.interpreter.State().Value)
}

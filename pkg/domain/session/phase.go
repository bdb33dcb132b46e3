package session

// Phase is the lifecycle state of a session.
type Phase string

const (
	PhaseEmpty   Phase = "empty"
	PhasePlanned Phase = "planned"
	PhaseRevised Phase = "revised"
)

// Lifecycle events.
const (
	EventPlan   = "plan"
	EventRevise = "revise"
	EventReset  = "reset"
)

var phaseEvents = map[Phase][]string{
	PhaseEmpty:   {EventPlan, EventReset},
	PhasePlanned: {EventRevise, EventReset},
	PhaseRevised: {EventRevise, EventReset},
}

// ValidEvents returns the events accepted in this phase.
func (p Phase) ValidEvents() []string {
	return append([]string(nil), phaseEvents[p]...)
}

// CanTransitionWith reports whether the event is accepted in this phase.
func (p Phase) CanTransitionWith(event string) bool {
	for _, e := range phaseEvents[p] {
		if e == event {
			return true
		}
	}
	return false
}

// IsValid reports whether p is a known phase.
func (p Phase) IsValid() bool {
	_, ok := phaseEvents[p]
	return ok
}

// HasPlan reports whether a session in this phase holds a current plan.
func (p Phase) HasPlan() bool {
	return p == PhasePlanned || p == PhaseRevised
}

func (p Phase) String() string {
	return string(p)
}

package application

import (
	"context"
	"time"

	"github.com/felixgeelhaar/cadence/pkg/domain/planning"
)

// Plan change event types.
const (
	EventPlanCreated = "plan.created"
	EventPlanRevised = "plan.revised"
)

// PlanChangedEvent describes a newly installed plan snapshot.
type PlanChangedEvent struct {
	Type          string            `json:"type"`
	SessionID     string            `json:"session_id,omitempty"`
	ProjectName   string            `json:"project_name"`
	TotalDuration int               `json:"total_duration"`
	Diff          planning.PlanDiff `json:"diff"`
	Summary       string            `json:"summary"`
	Timestamp     time.Time         `json:"timestamp"`
}

// ChangeNotifier publishes plan change events. Implementations must not block
// the caller on delivery.
type ChangeNotifier interface {
	Notify(ctx context.Context, event PlanChangedEvent)
}

// NewPlanChangedEvent builds the event for next replacing previous (nil for
// a first plan).
func NewPlanChangedEvent(sessionID string, previous *planning.Plan, next planning.Plan, diff planning.PlanDiff, summary string, at time.Time) PlanChangedEvent {
	eventType := EventPlanRevised
	if previous == nil {
		eventType = EventPlanCreated
	}
	return PlanChangedEvent{
		Type:          eventType,
		SessionID:     sessionID,
		ProjectName:   next.ProjectName,
		TotalDuration: next.TotalDays(),
		Diff:          diff,
		Summary:       summary,
		Timestamp:     at,
	}
}

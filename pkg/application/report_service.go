package application

import (
	"log/slog"
	"time"

	"github.com/felixgeelhaar/cadence/pkg/domain/analytics"
	"github.com/felixgeelhaar/cadence/pkg/domain/dependency"
	"github.com/felixgeelhaar/cadence/pkg/domain/planning"
	"github.com/felixgeelhaar/cadence/pkg/domain/timeline"
)

// Report bundles every derived view of a single plan.
type Report struct {
	Plan           planning.Plan                     `json:"plan"`
	Classification map[int]dependency.Classification `json:"classification"`
	Summary        dependency.Summary                `json:"summary"`
	Schedule       timeline.Schedule                 `json:"schedule"`
	Workload       []analytics.WorkloadEntry         `json:"workload"`
	Utilization    map[string]int                    `json:"utilization"` // owner -> percent of total duration
}

// ReportService derives schedules, classifications and workload from a plan.
type ReportService struct {
	logger *slog.Logger
}

func NewReportService(logger *slog.Logger) *ReportService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportService{logger: logger}
}

// Build lays the plan out on the calendar starting at ref. Plans that fail
// Plan.Validate are rejected with a *planning.ValidationError.
func (s *ReportService) Build(plan planning.Plan, ref time.Time) (Report, error) {
	if err := plan.Validate(); err != nil {
		return Report{}, err
	}

	classes := dependency.Classify(plan)
	workload := analytics.Aggregate(plan)

	utilization := make(map[string]int, len(workload))
	for _, entry := range workload {
		utilization[entry.Owner] = analytics.Utilization(entry, plan)
	}

	report := Report{
		Plan:           plan,
		Classification: classes,
		Summary:        dependency.Summarize(plan, classes),
		Schedule:       timeline.Layout(plan, classes, ref),
		Workload:       workload,
		Utilization:    utilization,
	}

	s.logger.Debug("report built",
		"project", plan.ProjectName,
		"tasks", len(plan.Tasks),
		"milestones", report.Summary.MilestoneCount,
		"degenerate", report.Schedule.Degenerate,
	)
	return report, nil
}

// Package dependency classifies plan tasks by their place in the dependency graph.
package dependency

import "github.com/felixgeelhaar/cadence/pkg/domain/planning"

// Classification holds the dependency-derived flags of a single task.
type Classification struct {
	// IsCritical is set when the task depends on at least one other task.
	IsCritical bool `json:"is_critical"`
	// IsMilestone is set when no other task in the plan depends on this one.
	IsMilestone bool `json:"is_milestone"`
}

// Classify returns a classification for every task of the plan, keyed by
// task id. Dependencies on ids that are not in the plan count towards
// IsCritical but never create dependents. Task ids are assumed unique, as
// Plan.Validate guarantees; ReportService.Build checks this before calling.
func Classify(plan planning.Plan) map[int]Classification {
	dependents := dependentCounts(plan)

	result := make(map[int]Classification, len(plan.Tasks))
	for _, t := range plan.Tasks {
		result[t.ID] = Classification{
			IsCritical:  len(t.Dependencies) > 0,
			IsMilestone: dependents[t.ID] == 0,
		}
	}
	return result
}

// dependentCounts counts, per task id present in the plan, how many other
// tasks list it as a dependency.
func dependentCounts(plan planning.Plan) map[int]int {
	present := make(map[int]bool, len(plan.Tasks))
	for _, t := range plan.Tasks {
		present[t.ID] = true
	}

	counts := make(map[int]int, len(plan.Tasks))
	for _, t := range plan.Tasks {
		seen := make(map[int]bool, len(t.Dependencies))
		for _, dep := range t.Dependencies {
			if !present[dep] || dep == t.ID || seen[dep] {
				continue
			}
			seen[dep] = true
			counts[dep]++
		}
	}
	return counts
}

// Summary lists critical and milestone tasks in plan order.
type Summary struct {
	CriticalCount  int   `json:"critical_count"`
	MilestoneCount int   `json:"milestone_count"`
	Critical       []int `json:"critical"`
	Milestones     []int `json:"milestones"`
}

// Summarize condenses a classification into counts and ordered id lists.
func Summarize(plan planning.Plan, classes map[int]Classification) Summary {
	summary := Summary{
		Critical:   make([]int, 0),
		Milestones: make([]int, 0),
	}
	for _, t := range plan.Tasks {
		c := classes[t.ID]
		if c.IsCritical {
			summary.Critical = append(summary.Critical, t.ID)
		}
		if c.IsMilestone {
			summary.Milestones = append(summary.Milestones, t.ID)
		}
	}
	summary.CriticalCount = len(summary.Critical)
	summary.MilestoneCount = len(summary.Milestones)
	return summary
}

// Dependents returns the ids of tasks that depend on the given task, in
// plan order.
func Dependents(plan planning.Plan, taskID int) []int {
	result := make([]int, 0)
	for _, t := range plan.Tasks {
		if t.ID == taskID {
			continue
		}
		for _, dep := range t.Dependencies {
			if dep == taskID {
				result = append(result, t.ID)
				break
			}
		}
	}
	return result
}

// Package analytics provides workload analytics for project plans.
package analytics

import (
	"math"
	"sort"

	"github.com/felixgeelhaar/cadence/pkg/domain/planning"
)

// WorkloadEntry is the aggregated load of a single owner.
type WorkloadEntry struct {
	Owner         string   `json:"owner" yaml:"owner"`
	TaskCount     int      `json:"task_count" yaml:"task_count"`
	TotalDuration int      `json:"total_duration" yaml:"total_duration"`
	Tasks         []string `json:"tasks,omitempty" yaml:"tasks,omitempty"` // task names in plan order
}

// Aggregate groups the plan's tasks by owner and sums their durations.
// Entries are ordered by total duration, heaviest first; owners with equal
// totals keep the order in which they first appear in the plan. The plan is
// expected to have passed Plan.Validate.
func Aggregate(plan planning.Plan) []WorkloadEntry {
	index := make(map[string]int)
	entries := make([]WorkloadEntry, 0)

	for _, t := range plan.Tasks {
		i, ok := index[t.Owner]
		if !ok {
			i = len(entries)
			index[t.Owner] = i
			entries = append(entries, WorkloadEntry{Owner: t.Owner, Tasks: make([]string, 0, 1)})
		}
		entries[i].TaskCount++
		entries[i].TotalDuration += t.Duration
		entries[i].Tasks = append(entries[i].Tasks, t.Name)
	}

	sort.SliceStable(entries, func(a, b int) bool {
		return entries[a].TotalDuration > entries[b].TotalDuration
	})
	return entries
}

// Utilization returns the share of the plan's total duration assigned to
// the entry's owner, as a whole percentage. Owners working in parallel may
// exceed 100. A plan without a positive total duration yields 0.
func Utilization(entry WorkloadEntry, plan planning.Plan) int {
	total, ok := plan.Duration()
	if !ok || total <= 0 {
		return 0
	}
	return int(math.Round(float64(entry.TotalDuration) / float64(total) * 100))
}

// TotalAssigned sums the durations of all entries.
func TotalAssigned(entries []WorkloadEntry) int {
	sum := 0
	for _, e := range entries {
		sum += e.TotalDuration
	}
	return sum
}

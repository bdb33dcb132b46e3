package planning

// ModifiedTask records a matched task whose duration changed.
type ModifiedTask struct {
	TaskName    string `json:"task_name" yaml:"task_name"`
	OldDuration int    `json:"old_duration" yaml:"old_duration"`
	NewDuration int    `json:"new_duration" yaml:"new_duration"`
	Delta       int    `json:"delta" yaml:"delta"`
}

// PlanDiff is the structural comparison of two plan snapshots.
type PlanDiff struct {
	TimelineDelta int            `json:"timeline_delta" yaml:"timeline_delta"`
	Modified      []ModifiedTask `json:"modified" yaml:"modified"`
	Added         []string       `json:"added" yaml:"added"`
	Removed       []string       `json:"removed" yaml:"removed"`
}

// IsEmpty reports whether no task was added, removed or modified.
func (d PlanDiff) IsEmpty() bool {
	return len(d.Modified) == 0 && len(d.Added) == 0 && len(d.Removed) == 0
}

// HasChanges reports whether anything differs, including the total duration.
func (d PlanDiff) HasChanges() bool {
	return !d.IsEmpty() || d.TimelineDelta != 0
}

// Differ is a domain service that compares a previous plan snapshot with a
// new one.
type Differ struct {
	matcher Matcher
}

// NewDiffer creates a Differ. A nil matcher selects WordOverlapMatcher.
func NewDiffer(m Matcher) *Differ {
	if m == nil {
		m = NewWordOverlapMatcher()
	}
	return &Differ{matcher: m}
}

// Diff compares previous (which may be nil) with next. A nil previous plan
// describes pure creation: every task is added and the timeline delta is
// the new total duration.
func (d *Differ) Diff(previous *Plan, next Plan) PlanDiff {
	diff := PlanDiff{
		Modified: make([]ModifiedTask, 0),
		Added:    make([]string, 0),
		Removed:  make([]string, 0),
	}

	if previous == nil {
		diff.Added = append(diff.Added, next.TaskNames()...)
		diff.TimelineDelta = next.TotalDays()
		return diff
	}

	// Identical snapshots never report changes, even for names the
	// heuristic cannot link.
	if previous.Hash() == next.Hash() {
		return diff
	}

	matching := d.matcher.Match(previous.Tasks, next.Tasks)
	for _, pair := range matching.Pairs {
		if pair.Old.Duration == pair.New.Duration {
			continue
		}
		diff.Modified = append(diff.Modified, ModifiedTask{
			TaskName:    pair.New.Name,
			OldDuration: pair.Old.Duration,
			NewDuration: pair.New.Duration,
			Delta:       pair.New.Duration - pair.Old.Duration,
		})
	}
	for _, t := range matching.Added {
		diff.Added = append(diff.Added, t.Name)
	}
	for _, t := range matching.Removed {
		diff.Removed = append(diff.Removed, t.Name)
	}
	diff.TimelineDelta = next.TotalDays() - previous.TotalDays()

	return diff
}

// Diff compares two snapshots with the default word-overlap matcher.
func Diff(previous *Plan, next Plan) PlanDiff {
	return NewDiffer(nil).Diff(previous, next)
}

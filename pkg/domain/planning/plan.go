package planning

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
)

// Plan is a single snapshot produced by the plan generator. A new snapshot
// replaces the previous one wholesale; plans are never mutated in place.
type Plan struct {
	ProjectName   string `json:"project_name" yaml:"project_name"`
	TotalDuration *int   `json:"total_duration,omitempty" yaml:"total_duration,omitempty"` // nil when the generator omitted it
	Tasks         []Task `json:"tasks" yaml:"tasks"`
}

// Task is a unit of work scheduled as a day offset from the plan start.
type Task struct {
	ID           int    `json:"id" yaml:"id"`
	Name         string `json:"name" yaml:"name"`
	Owner        string `json:"owner" yaml:"owner"`
	Duration     int    `json:"duration" yaml:"duration"`   // days, > 0
	StartDay     int    `json:"start_day" yaml:"start_day"` // offset from plan start, >= 0
	Dependencies []int  `json:"dependencies" yaml:"dependencies"`
}

// MaxDays bounds every day count in a plan (about a century). The plan
// schema carries the same limit.
const MaxDays = 36500

// Days returns a pointer to n, for building plans with a total duration.
func Days(n int) *int {
	return &n
}

// Duration returns the plan's total duration and whether it is usable for
// laying out a calendar. Missing, negative or out of range totals are not.
func (p Plan) Duration() (int, bool) {
	if p.TotalDuration == nil || *p.TotalDuration < 0 || *p.TotalDuration > MaxDays {
		return 0, false
	}
	return *p.TotalDuration, true
}

// TotalDays returns the total duration, treating a missing value as zero.
func (p Plan) TotalDays() int {
	if p.TotalDuration == nil {
		return 0
	}
	return *p.TotalDuration
}

// EndDay is the offset on which the task completes.
func (t Task) EndDay() int {
	return t.StartDay + t.Duration
}

// TaskNames returns the task names in plan order.
func (p Plan) TaskNames() []string {
	names := make([]string, 0, len(p.Tasks))
	for _, t := range p.Tasks {
		names = append(names, t.Name)
	}
	return names
}

// Owners returns distinct owners in order of first appearance.
func (p Plan) Owners() []string {
	seen := make(map[string]bool)
	owners := make([]string, 0)
	for _, t := range p.Tasks {
		if seen[t.Owner] {
			continue
		}
		seen[t.Owner] = true
		owners = append(owners, t.Owner)
	}
	return owners
}

// FindTask returns the task with the given id, or nil.
func (p Plan) FindTask(id int) *Task {
	for i := range p.Tasks {
		if p.Tasks[i].ID == id {
			return &p.Tasks[i]
		}
	}
	return nil
}

// Validate checks the structural rules the engine relies on: positive
// durations, non-negative start offsets, day counts within MaxDays and
// unique task ids. Dangling dependencies, a negative total and an
// inconsistent total duration are tolerated.
func (p Plan) Validate() error {
	var problems []string
	if p.TotalDuration != nil && *p.TotalDuration > MaxDays {
		problems = append(problems, fmt.Sprintf("total_duration must be at most %d, got %d", MaxDays, *p.TotalDuration))
	}
	seen := make(map[int]bool, len(p.Tasks))
	for i, t := range p.Tasks {
		label := fmt.Sprintf("tasks[%d]", i)
		if t.Name == "" {
			problems = append(problems, label+": name is required")
		}
		if t.Owner == "" {
			problems = append(problems, label+": owner is required")
		}
		if t.Duration <= 0 {
			problems = append(problems, fmt.Sprintf("%s: duration must be positive, got %d", label, t.Duration))
		}
		if t.StartDay < 0 {
			problems = append(problems, fmt.Sprintf("%s: start_day must not be negative, got %d", label, t.StartDay))
		}
		if t.Duration > MaxDays || t.StartDay > MaxDays {
			problems = append(problems, fmt.Sprintf("%s: duration and start_day must be at most %d", label, MaxDays))
		}
		if seen[t.ID] {
			problems = append(problems, fmt.Sprintf("%s: duplicate task id %d", label, t.ID))
		}
		seen[t.ID] = true
	}
	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

// Clone returns a deep copy that shares no slices or pointers with p.
func (p Plan) Clone() Plan {
	c := p
	if p.TotalDuration != nil {
		c.TotalDuration = Days(*p.TotalDuration)
	}
	if p.Tasks != nil {
		c.Tasks = make([]Task, len(p.Tasks))
		for i, t := range p.Tasks {
			if t.Dependencies != nil {
				t.Dependencies = append([]int(nil), t.Dependencies...)
				if len(t.Dependencies) == 0 {
					t.Dependencies = []int{}
				}
			}
			c.Tasks[i] = t
		}
	}
	return c
}

// Hash returns a deterministic hash of the plan content.
func (p Plan) Hash() string {
	h := sha256.New()
	field := func(s string) {
		h.Write([]byte(s))
		h.Write([]byte{0})
	}
	field(p.ProjectName)
	if p.TotalDuration == nil {
		field("-")
	} else {
		field(strconv.Itoa(*p.TotalDuration))
	}
	for _, t := range p.Tasks {
		field(strconv.Itoa(t.ID))
		field(t.Name)
		field(t.Owner)
		field(strconv.Itoa(t.Duration))
		field(strconv.Itoa(t.StartDay))
		for _, d := range t.Dependencies {
			field(strconv.Itoa(d))
		}
		field("|")
	}
	return hex.EncodeToString(h.Sum(nil))
}

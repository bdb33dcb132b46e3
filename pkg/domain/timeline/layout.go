// Package timeline maps plan day offsets onto calendar dates.
//
// Dates are derived at display time from a caller-supplied reference date;
// nothing is persisted, so laying out the same plan on another day shifts
// every date.
package timeline

import (
	"time"

	"github.com/felixgeelhaar/cadence/pkg/domain/dependency"
	"github.com/felixgeelhaar/cadence/pkg/domain/planning"
)

// DayMark is one point of the day axis.
type DayMark struct {
	DayOffset int  `json:"day_offset" yaml:"day_offset"`
	Date      Date `json:"date" yaml:"date"`
}

// TimelineEntry is the calendar placement of a single task.
type TimelineEntry struct {
	TaskID      int  `json:"task_id" yaml:"task_id"`
	StartDate   Date `json:"start_date" yaml:"start_date"`
	EndDate     Date `json:"end_date" yaml:"end_date"`
	IsCritical  bool `json:"is_critical" yaml:"is_critical"`
	IsMilestone bool `json:"is_milestone" yaml:"is_milestone"`
}

// Deliverable is a milestone task with its target completion date.
type Deliverable struct {
	TaskID     int    `json:"task_id" yaml:"task_id"`
	Name       string `json:"name" yaml:"name"`
	TargetDay  int    `json:"target_day" yaml:"target_day"`
	TargetDate Date   `json:"target_date" yaml:"target_date"`
}

// Schedule is the calendar-anchored layout of a plan.
type Schedule struct {
	ReferenceDate Date            `json:"reference_date" yaml:"reference_date"`
	ProjectEnd    Date            `json:"project_end" yaml:"project_end"`
	Degenerate    bool            `json:"degenerate" yaml:"degenerate"` // total duration missing, negative or beyond planning.MaxDays
	Axis          []DayMark       `json:"axis" yaml:"axis"`
	Entries       []TimelineEntry `json:"entries" yaml:"entries"`
	Deliverables  []Deliverable   `json:"deliverables" yaml:"deliverables"`
}

// Layout places every task of the plan on the calendar starting at ref.
// classes may be nil, in which case the plan is classified here. A plan
// without a usable total duration gets a single-point axis and every task
// keyed to the reference date.
func Layout(plan planning.Plan, classes map[int]dependency.Classification, ref time.Time) Schedule {
	if classes == nil {
		classes = dependency.Classify(plan)
	}
	start := DateOf(ref)
	total, ok := plan.Duration()

	s := Schedule{
		ReferenceDate: start,
		ProjectEnd:    start,
		Degenerate:    !ok,
		Entries:       make([]TimelineEntry, 0, len(plan.Tasks)),
		Deliverables:  make([]Deliverable, 0),
	}

	if ok {
		s.ProjectEnd = start.AddDays(total)
		s.Axis = make([]DayMark, 0, total+1)
		for day := 0; day <= total; day++ {
			s.Axis = append(s.Axis, DayMark{DayOffset: day, Date: start.AddDays(day)})
		}
	} else {
		s.Axis = []DayMark{{DayOffset: 0, Date: start}}
	}

	for _, t := range plan.Tasks {
		c := classes[t.ID]
		entry := TimelineEntry{
			TaskID:      t.ID,
			StartDate:   start,
			EndDate:     start,
			IsCritical:  c.IsCritical,
			IsMilestone: c.IsMilestone,
		}
		if ok {
			entry.StartDate = start.AddDays(t.StartDay)
			entry.EndDate = start.AddDays(t.EndDay())
		}
		s.Entries = append(s.Entries, entry)

		if c.IsMilestone {
			d := Deliverable{TaskID: t.ID, Name: t.Name, TargetDate: entry.EndDate}
			if ok {
				d.TargetDay = t.EndDay()
			}
			s.Deliverables = append(s.Deliverables, d)
		}
	}

	return s
}

// Entry returns the timeline entry of a task.
func (s Schedule) Entry(taskID int) (TimelineEntry, bool) {
	for _, e := range s.Entries {
		if e.TaskID == taskID {
			return e, true
		}
	}
	return TimelineEntry{}, false
}

// DateAt returns the calendar date of a day offset.
func (s Schedule) DateAt(dayOffset int) Date {
	return s.ReferenceDate.AddDays(dayOffset)
}

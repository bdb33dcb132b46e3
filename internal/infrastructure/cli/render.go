package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/felixgeelhaar/cadence/pkg/application"
	"github.com/felixgeelhaar/cadence/pkg/domain/planning"
	"github.com/felixgeelhaar/cadence/pkg/domain/timeline"
)

const maxBarWidth = 60

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func markers(critical, milestone bool) string {
	var parts []string
	if critical {
		parts = append(parts, criticalStyle.Render("critical"))
	}
	if milestone {
		parts = append(parts, milestoneStyle.Render("milestone"))
	}
	return strings.Join(parts, " ")
}

// ganttBar draws a task as a run of blocks offset by its start day. Long
// plans are scaled down to fit the terminal.
func ganttBar(task planning.Task, total int) string {
	scale := 1
	if total > maxBarWidth {
		scale = (total + maxBarWidth - 1) / maxBarWidth
	}
	offset := max(task.StartDay, 0) / scale
	width := max(task.Duration/scale, 1)
	return strings.Repeat(" ", offset) + strings.Repeat("█", width)
}

func nameWidth(plan planning.Plan) int {
	w := len("Task")
	for _, t := range plan.Tasks {
		w = max(w, len(t.Name))
	}
	return w
}

func ownerWidth(plan planning.Plan) int {
	w := len("Owner")
	for _, t := range plan.Tasks {
		w = max(w, len(t.Owner))
	}
	return w
}

func renderTimeline(w io.Writer, plan planning.Plan, schedule timeline.Schedule, dateFormat string) {
	header := fmt.Sprintf("%s (%s → %s)", plan.ProjectName,
		schedule.ReferenceDate.Format(dateFormat), schedule.ProjectEnd.Format(dateFormat))
	if total, ok := plan.Duration(); ok {
		header += fmt.Sprintf(", %d days", total)
	}
	fmt.Fprintln(w, titleStyle.Render(header))
	if schedule.Degenerate {
		fmt.Fprintln(w, mutedStyle.Render("No usable total duration: every task is keyed to the start date."))
	}

	nw, ow := nameWidth(plan), ownerWidth(plan)
	fmt.Fprintf(w, "%-4s %-*s %-*s %-8s %-8s\n", "ID", nw, "Task", ow, "Owner", "Start", "End")
	for i, t := range plan.Tasks {
		entry := schedule.Entries[i]
		fmt.Fprintf(w, "%-4d %-*s %-*s %-8s %-8s %s",
			t.ID, nw, t.Name, ow, t.Owner,
			entry.StartDate.Format(dateFormat), entry.EndDate.Format(dateFormat),
			ganttBar(t, plan.TotalDays()))
		if m := markers(entry.IsCritical, entry.IsMilestone); m != "" {
			fmt.Fprintf(w, "  %s", m)
		}
		fmt.Fprintln(w)
	}

	if len(schedule.Deliverables) > 0 {
		fmt.Fprintln(w, "\nDeliverables:")
		for _, d := range schedule.Deliverables {
			fmt.Fprintf(w, "  ◆ %s  %s (day %d)\n", d.Name, d.TargetDate.Format(dateFormat), d.TargetDay)
		}
	}
}

func renderWorkload(w io.Writer, report application.Report) {
	fmt.Fprintln(w, titleStyle.Render("Workload by owner"))
	if len(report.Workload) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("No tasks assigned."))
		return
	}
	ow := len("Owner")
	for _, e := range report.Workload {
		ow = max(ow, len(e.Owner))
	}
	fmt.Fprintf(w, "%-*s %6s %6s %6s\n", ow, "Owner", "Tasks", "Days", "Load")
	for _, e := range report.Workload {
		fmt.Fprintf(w, "%-*s %6d %6d %5d%%\n", ow, e.Owner, e.TaskCount, e.TotalDuration, report.Utilization[e.Owner])
	}
}

func renderClassification(w io.Writer, report application.Report) {
	plan := report.Plan
	fmt.Fprintln(w, titleStyle.Render("Dependency classification"))
	nw := nameWidth(plan)
	for _, t := range plan.Tasks {
		c := report.Classification[t.ID]
		fmt.Fprintf(w, "%-4d %-*s %s\n", t.ID, nw, t.Name, markers(c.IsCritical, c.IsMilestone))
	}
	fmt.Fprintf(w, "\n%d critical, %d milestone\n", report.Summary.CriticalCount, report.Summary.MilestoneCount)
}

func renderDiff(w io.Writer, diff planning.PlanDiff, narrative string) {
	fmt.Fprintln(w, titleStyle.Render("Plan changes"))
	for _, name := range diff.Added {
		fmt.Fprintln(w, addedStyle.Render("+ "+name))
	}
	for _, name := range diff.Removed {
		fmt.Fprintln(w, removedStyle.Render("- "+name))
	}
	for _, m := range diff.Modified {
		fmt.Fprintf(w, "~ %s: %dd → %dd\n", m.TaskName, m.OldDuration, m.NewDuration)
	}
	if !diff.HasChanges() {
		fmt.Fprintln(w, mutedStyle.Render("No changes."))
	}
	fmt.Fprintf(w, "\n%s\n", narrative)
}

package application

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/felixgeelhaar/cadence/pkg/domain/planning"
	"github.com/felixgeelhaar/cadence/pkg/domain/session"
)

// maxListedTasks caps each task list in a change narrative.
const maxListedTasks = 10

// ClarificationReply is sent when the generator could not produce a usable plan.
const ClarificationReply = "I need more details to create a plan. Please describe:\n" +
	"- Project goal\n" +
	"- Timeline (e.g. \"2 weeks\")\n" +
	"- Key tasks needed"

// RenderCreationSummary describes a freshly created plan.
func RenderCreationSummary(plan planning.Plan) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Created a plan for %s.\n\n", plan.ProjectName)
	b.WriteString("Summary:\n")
	if total, ok := plan.Duration(); ok {
		fmt.Fprintf(&b, "- Duration: %d days\n", total)
	} else {
		b.WriteString("- Duration: unknown\n")
	}
	fmt.Fprintf(&b, "- Tasks: %d\n", len(plan.Tasks))
	fmt.Fprintf(&b, "- Team: %s", strings.Join(plan.Owners(), ", "))
	return b.String()
}

// RenderChangeNarrative describes how next differs from previous. A nil
// previous plan renders the creation summary instead.
func RenderChangeNarrative(previous *planning.Plan, next planning.Plan, diff planning.PlanDiff) string {
	if previous == nil {
		return RenderCreationSummary(next)
	}

	var b strings.Builder
	b.WriteString("Your requested changes have been applied.\n\n")

	if diff.TimelineDelta != 0 {
		change := fmt.Sprintf("extended by %d days", diff.TimelineDelta)
		if diff.TimelineDelta < 0 {
			change = fmt.Sprintf("compressed by %d days", -diff.TimelineDelta)
		}
		fmt.Fprintf(&b, "Timeline %s: %d → %d days\n\n", change, previous.TotalDays(), next.TotalDays())
	}

	if len(diff.Modified) > 0 {
		b.WriteString("Task duration updates:\n")
		for i, m := range diff.Modified {
			if i == maxListedTasks {
				fmt.Fprintf(&b, "- and %d more\n", len(diff.Modified)-i)
				break
			}
			fmt.Fprintf(&b, "- %s: %dd → %dd (%s)\n", m.TaskName, m.OldDuration, m.NewDuration, signedDays(m.Delta))
		}
		b.WriteString("\n")
	}

	if len(diff.Added) > 0 {
		b.WriteString("Added tasks:\n")
		writeNames(&b, diff.Added)
		b.WriteString("\n")
	}

	if len(diff.Removed) > 0 {
		b.WriteString("Removed tasks:\n")
		writeNames(&b, diff.Removed)
		b.WriteString("\n")
	}

	if len(diff.Modified) == 0 && len(diff.Added) == 0 && len(diff.Removed) == 0 {
		b.WriteString("Plan structure adjusted based on your request.\n")
	}

	return strings.TrimRight(b.String(), "\n")
}

func writeNames(b *strings.Builder, names []string) {
	for i, name := range names {
		if i == maxListedTasks {
			fmt.Fprintf(b, "- and %d more\n", len(names)-i)
			return
		}
		fmt.Fprintf(b, "- %s\n", name)
	}
}

// fitMessage trims a reply so it can be stored in the conversation and sent
// back to the generator without failing the message length check.
func fitMessage(reply string) string {
	if utf8.RuneCountInString(reply) <= session.MaxMessageLength {
		return reply
	}
	const ellipsis = "…"
	runes := []rune(reply)
	return string(runes[:session.MaxMessageLength-1]) + ellipsis
}

func signedDays(delta int) string {
	if delta > 0 {
		return fmt.Sprintf("+%dd", delta)
	}
	return fmt.Sprintf("%dd", delta)
}

package cli

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/felixgeelhaar/cadence/pkg/application"
	"github.com/felixgeelhaar/cadence/pkg/domain/planning"
)

func dashboardReport(t *testing.T) application.Report {
	t.Helper()
	plan, err := planning.DecodePlan([]byte(launchPlan))
	if err != nil {
		t.Fatalf("decode plan: %v", err)
	}
	report, err := application.NewReportService(nil).Build(*plan, time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	return report
}

func TestDashboardModel_View(t *testing.T) {
	m := newDashboardModel(dashboardReport(t), "")
	view := m.View()

	for _, want := range []string{"Mobile App", "Jan 01 → Jan 15 · 14 days", "Design mockups", "Engineer", "50%"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if got := len(m.tasks.Rows()); got != 3 {
		t.Errorf("task rows = %d, want 3", got)
	}
	if got := m.workload.Rows()[0][0]; got != "Engineer" {
		t.Errorf("first workload row = %s, want Engineer", got)
	}
}

func TestDashboardModel_Update(t *testing.T) {
	m := newDashboardModel(dashboardReport(t), "Jan 02")

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	dm := next.(dashboardModel)
	if dm.focus != paneWorkload || !dm.workload.Focused() || dm.tasks.Focused() {
		t.Error("tab should move focus to the workload pane")
	}

	next, _ = dm.Update(tea.KeyMsg{Type: tea.KeyTab})
	if next.(dashboardModel).focus != paneTasks {
		t.Error("second tab should return focus to tasks")
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q should return a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

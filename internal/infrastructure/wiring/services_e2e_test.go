package wiring_test

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/felixgeelhaar/cadence/internal/infrastructure/wiring"
	infraai "github.com/felixgeelhaar/cadence/pkg/ai"
	"github.com/felixgeelhaar/cadence/pkg/domain/session"
	"github.com/felixgeelhaar/cadence/pkg/storage"
)

const firstReply = `{"project_name": "Website Relaunch", "total_duration": 10, "tasks": [
  {"id": 1, "name": "Content audit", "owner": "Writer", "duration": 3, "start_day": 0, "dependencies": []},
  {"id": 2, "name": "Page templates", "owner": "Designer", "duration": 4, "start_day": 3, "dependencies": [1]},
  {"id": 3, "name": "Launch checklist", "owner": "PM", "duration": 3, "start_day": 7, "dependencies": [2]}
]}`

const secondReply = "Sure, here it is:\n```json\n" + `{"project_name": "Website Relaunch", "total_duration": 12, "tasks": [
  {"id": 1, "name": "Content audit", "owner": "Writer", "duration": 3, "start_day": 0, "dependencies": []},
  {"id": 2, "name": "Page templates", "owner": "Designer", "duration": 6, "start_day": 3, "dependencies": [1]},
  {"id": 3, "name": "Launch checklist", "owner": "PM", "duration": 3, "start_day": 9, "dependencies": [2]}
]}` + "\n```"

// TestAppServicesHappyPath drives a session through two revisions with the
// same wiring the CLI and MCP server use, then reloads it from disk.
func TestAppServicesHappyPath(t *testing.T) {
	root := t.TempDir()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	workspace, err := wiring.NewWorkspace(root, io.Discard, "")
	if err != nil {
		t.Fatalf("NewWorkspace: %v", err)
	}
	if err := workspace.Repo.Initialize(); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	provider := &infraai.MockProvider{Model: "e2e", Responses: []string{firstReply, secondReply}}
	services := wiring.NewAppServices(workspace, provider)

	sess, err := services.Sessions.NewSession()
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}

	turn, err := services.Sessions.Send(ctx, sess.ID, "Relaunch our website in two weeks")
	if err != nil {
		t.Fatalf("first Send: %v", err)
	}
	if turn.Session.Phase != session.PhasePlanned || turn.Diff.TimelineDelta != 10 {
		t.Fatalf("unexpected first turn: phase=%s diff=%+v", turn.Session.Phase, turn.Diff)
	}

	turn, err = services.Sessions.Send(ctx, sess.ID, "Templates will take two extra days")
	if err != nil {
		t.Fatalf("second Send: %v", err)
	}
	if turn.Diff.TimelineDelta != 2 || len(turn.Diff.Modified) != 1 || turn.Diff.Modified[0].TaskName != "Page templates" {
		t.Fatalf("unexpected revision diff: %+v", turn.Diff)
	}
	if !strings.Contains(turn.Reply, "Timeline extended by 2 days: 10 → 12 days") {
		t.Errorf("reply = %q", turn.Reply)
	}

	reloaded, err := storage.NewFilesystemRepository(root).LoadSession(sess.ID)
	if err != nil {
		t.Fatalf("LoadSession: %v", err)
	}
	if reloaded.PreviousPlan == nil || reloaded.PreviousPlan.TotalDays() != 10 || reloaded.CurrentPlan.TotalDays() != 12 {
		t.Fatalf("snapshots not persisted: %+v", reloaded)
	}
	if len(reloaded.Messages) != 4 {
		t.Errorf("messages = %d, want 4", len(reloaded.Messages))
	}

	report, err := services.Reports.Build(*reloaded.CurrentPlan, time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if report.Schedule.ProjectEnd.String() != "2025-06-14" {
		t.Errorf("ProjectEnd = %s", report.Schedule.ProjectEnd)
	}
	if report.Summary.MilestoneCount != 1 || report.Workload[0].Owner != "Designer" {
		t.Errorf("unexpected report summary=%+v workload=%+v", report.Summary, report.Workload)
	}
	if got := len(provider.Requests()); got != 2 {
		t.Errorf("provider requests = %d, want 2", got)
	}
}

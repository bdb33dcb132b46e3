package application_test

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/felixgeelhaar/cadence/pkg/application"
	"github.com/felixgeelhaar/cadence/pkg/domain/planning"
)

func TestReportService_BuildRejectsInvalidPlans(t *testing.T) {
	svc := application.NewReportService(nil)
	plan := mustDecode(t, launchPlanJSON)
	plan.Tasks = append([]planning.Task(nil), plan.Tasks...)
	plan.Tasks[2].ID = 2

	_, err := svc.Build(plan, time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC))
	var vErr *planning.ValidationError
	if !errors.As(err, &vErr) || !errors.Is(err, planning.ErrInvalidPlan) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if !strings.Contains(err.Error(), "duplicate task id 2") {
		t.Errorf("error should name the duplicate id: %v", err)
	}
}

func TestReportService_Build(t *testing.T) {
	svc := application.NewReportService(nil)
	plan := mustDecode(t, launchPlanJSON)
	ref := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

	report, err := svc.Build(plan, ref)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if report.Summary.CriticalCount != 2 || report.Summary.MilestoneCount != 1 {
		t.Errorf("unexpected summary %+v", report.Summary)
	}
	if got := report.Schedule.ProjectEnd.String(); got != "2025-01-15" {
		t.Errorf("ProjectEnd = %s", got)
	}
	if len(report.Schedule.Entries) != 3 {
		t.Errorf("expected 3 timeline entries, got %d", len(report.Schedule.Entries))
	}
	if report.Workload[0].Owner != "Engineer" {
		t.Errorf("heaviest owner = %s, want Engineer", report.Workload[0].Owner)
	}
	want := map[string]int{"Engineer": 50, "Designer": 29, "QA": 21}
	if diff := cmp.Diff(want, report.Utilization); diff != "" {
		t.Errorf("utilization mismatch (-want +got):\n%s", diff)
	}
	if !report.Classification[3].IsMilestone {
		t.Error("Testing should be a milestone")
	}
}

func TestReport_JSONFieldNames(t *testing.T) {
	svc := application.NewReportService(nil)
	report, err := svc.Build(mustDecode(t, launchPlanJSON), time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	data, err := json.Marshal(report)
	if err != nil {
		t.Fatal(err)
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"plan", "classification", "summary", "schedule", "workload", "utilization"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("report JSON missing %q", key)
		}
	}

	var schedule struct {
		Entries []map[string]interface{} `json:"entries"`
	}
	if err := json.Unmarshal(raw["schedule"], &schedule); err != nil {
		t.Fatal(err)
	}
	first := schedule.Entries[0]
	for _, key := range []string{"task_id", "start_date", "end_date", "is_critical", "is_milestone"} {
		if _, ok := first[key]; !ok {
			t.Errorf("timeline entry JSON missing %q", key)
		}
	}
	if first["start_date"] != "2025-01-01" {
		t.Errorf("start_date = %v", first["start_date"])
	}
}

package planning_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/felixgeelhaar/cadence/pkg/domain/planning"
)

func basePlan() planning.Plan {
	return planning.Plan{
		ProjectName:   "Website Launch",
		TotalDuration: planning.Days(14),
		Tasks: []planning.Task{
			{ID: 1, Name: "Design mockups", Owner: "Designer", Duration: 4, StartDay: 0, Dependencies: []int{}},
			{ID: 2, Name: "Development", Owner: "Engineer", Duration: 7, StartDay: 4, Dependencies: []int{1}},
			{ID: 3, Name: "Testing", Owner: "QA", Duration: 3, StartDay: 11, Dependencies: []int{2}},
		},
	}
}

func TestDiff_IdenticalPlansAreEmpty(t *testing.T) {
	plans := map[string]planning.Plan{
		"base": basePlan(),
		"short names": {
			ProjectName:   "Tiny",
			TotalDuration: planning.Days(3),
			Tasks: []planning.Task{
				{ID: 1, Name: "UI", Owner: "Dev", Duration: 1},
				{ID: 2, Name: "API", Owner: "Dev", Duration: 2, StartDay: 1},
			},
		},
		"empty": {ProjectName: "Nothing", Tasks: []planning.Task{}},
	}

	for name, p := range plans {
		t.Run(name, func(t *testing.T) {
			prev := p
			got := planning.Diff(&prev, p)
			want := planning.PlanDiff{
				Modified: []planning.ModifiedTask{},
				Added:    []string{},
				Removed:  []string{},
			}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("Diff(P, P) mismatch (-want +got):\n%s", diff)
			}
			if got.HasChanges() {
				t.Error("expected HasChanges() to be false")
			}
		})
	}
}

func TestDiff_NilPreviousIsCreation(t *testing.T) {
	p := basePlan()
	got := planning.Diff(nil, p)

	if diff := cmp.Diff([]string{"Design mockups", "Development", "Testing"}, got.Added); diff != "" {
		t.Errorf("Added mismatch (-want +got):\n%s", diff)
	}
	if len(got.Modified) != 0 || len(got.Removed) != 0 {
		t.Errorf("expected no modified/removed, got %+v", got)
	}
	if got.TimelineDelta != 14 {
		t.Errorf("TimelineDelta = %d, want 14", got.TimelineDelta)
	}
}

func TestDiff_DurationChange(t *testing.T) {
	old := basePlan()
	next := basePlan()
	next.Tasks[1].Duration = 10
	next.TotalDuration = planning.Days(17)

	got := planning.Diff(&old, next)
	want := planning.PlanDiff{
		TimelineDelta: 3,
		Modified: []planning.ModifiedTask{
			{TaskName: "Development", OldDuration: 7, NewDuration: 10, Delta: 3},
		},
		Added:   []string{},
		Removed: []string{},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Diff mismatch (-want +got):\n%s", diff)
	}
}

func TestDiff_AddedTask(t *testing.T) {
	old := basePlan()
	next := basePlan()
	next.TotalDuration = planning.Days(16)
	next.Tasks = append(next.Tasks, planning.Task{
		ID: 4, Name: "Deployment", Owner: "Ops", Duration: 2, StartDay: 14, Dependencies: []int{3},
	})

	got := planning.Diff(&old, next)
	if diff := cmp.Diff([]string{"Deployment"}, got.Added); diff != "" {
		t.Errorf("Added mismatch (-want +got):\n%s", diff)
	}
	if len(got.Removed) != 0 {
		t.Errorf("Removed = %v, want empty", got.Removed)
	}
	if got.TimelineDelta != 2 {
		t.Errorf("TimelineDelta = %d, want 2", got.TimelineDelta)
	}
}

func TestDiff_RemovedTaskAndNegativeDelta(t *testing.T) {
	old := basePlan()
	next := basePlan()
	next.Tasks = next.Tasks[:2]
	next.TotalDuration = planning.Days(11)

	got := planning.Diff(&old, next)
	if diff := cmp.Diff([]string{"Testing"}, got.Removed); diff != "" {
		t.Errorf("Removed mismatch (-want +got):\n%s", diff)
	}
	if got.TimelineDelta != -3 {
		t.Errorf("TimelineDelta = %d, want -3", got.TimelineDelta)
	}
}

func TestDiff_RenamedTaskSharingWordIsModified(t *testing.T) {
	old := basePlan()
	next := basePlan()
	next.Tasks[2] = planning.Task{ID: 3, Name: "Integration testing", Owner: "QA", Duration: 5, StartDay: 11}

	got := planning.Diff(&old, next)
	want := []planning.ModifiedTask{
		{TaskName: "Integration testing", OldDuration: 3, NewDuration: 5, Delta: 2},
	}
	if diff := cmp.Diff(want, got.Modified); diff != "" {
		t.Errorf("Modified mismatch (-want +got):\n%s", diff)
	}
	if len(got.Added) != 0 || len(got.Removed) != 0 {
		t.Errorf("expected rename to be matched, got added=%v removed=%v", got.Added, got.Removed)
	}
}

func TestDiff_MissingTotalCountsAsZero(t *testing.T) {
	old := basePlan()
	next := basePlan()
	next.TotalDuration = nil

	got := planning.Diff(&old, next)
	if got.TimelineDelta != -14 {
		t.Errorf("TimelineDelta = %d, want -14", got.TimelineDelta)
	}
}

func TestDiffer_WithIDMatcher(t *testing.T) {
	old := basePlan()
	next := basePlan()
	next.Tasks[0].Name = "Wireframes"
	next.Tasks[0].Duration = 5

	got := planning.NewDiffer(planning.NewIDMatcher()).Diff(&old, next)
	want := []planning.ModifiedTask{
		{TaskName: "Wireframes", OldDuration: 4, NewDuration: 5, Delta: 1},
	}
	if diff := cmp.Diff(want, got.Modified); diff != "" {
		t.Errorf("Modified mismatch (-want +got):\n%s", diff)
	}

	byWords := planning.Diff(&old, next)
	if diff := cmp.Diff([]string{"Wireframes"}, byWords.Added); diff != "" {
		t.Errorf("word matcher Added mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Design mockups"}, byWords.Removed); diff != "" {
		t.Errorf("word matcher Removed mismatch (-want +got):\n%s", diff)
	}
}

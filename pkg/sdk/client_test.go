package sdk

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/felixgeelhaar/mcp-go/client"
	"github.com/felixgeelhaar/mcp-go/protocol"

	"github.com/felixgeelhaar/cadence/pkg/domain/planning"
)

// mockTransport implements client.Transport and returns canned responses
// based on the method name in the request.
type mockTransport struct {
	mu        sync.Mutex
	closed    bool
	responses map[string]any // method -> result for Response
	sent      []string       // encoded tools/call requests
}

func newMockTransport() *mockTransport {
	return &mockTransport{
		responses: make(map[string]any),
	}
}

// setToolResponse configures a mock response for a tools/call request.
func (m *mockTransport) setToolResponse(text string, isError bool) {
	content := []any{
		map[string]any{"type": "text", "text": text},
	}
	result := map[string]any{"content": content}
	if isError {
		result["isError"] = true
	}
	m.responses["tools/call"] = result
}

// setResourceResponse configures a mock response for resources/read.
func (m *mockTransport) setResourceResponse(text string) {
	m.responses["resources/read"] = map[string]any{
		"contents": []any{
			map[string]any{"uri": "cadence://schema", "text": text},
		},
	}
}

func (m *mockTransport) Send(_ context.Context, req *protocol.Request) (*protocol.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if req.Method == "tools/call" {
		data, _ := json.Marshal(req)
		m.sent = append(m.sent, string(data))
	}

	result, ok := m.responses[req.Method]
	if !ok {
		if req.Method == "initialize" {
			return protocol.NewResponse(req.ID, map[string]any{
				"serverInfo":      map[string]any{"name": "mock", "version": "1.0.0"},
				"protocolVersion": "2024-11-05",
				"capabilities":    map[string]any{"tools": map[string]any{}},
			}), nil
		}
		if req.IsNotification() {
			return nil, nil
		}
		return protocol.NewResponse(req.ID, map[string]any{
			"content": []any{map[string]any{"type": "text", "text": "ok"}},
		}), nil
	}
	return protocol.NewResponse(req.ID, result), nil
}

func (m *mockTransport) Close() error {
	m.closed = true
	return nil
}

func (m *mockTransport) lastCall() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		return ""
	}
	return m.sent[len(m.sent)-1]
}

func newTestClient(t *testing.T, mt *mockTransport) *Client {
	t.Helper()
	c := NewClient(mt, WithoutRetry())
	if _, err := c.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	return c
}

func samplePlan() planning.Plan {
	return planning.Plan{
		ProjectName:   "Mobile App",
		TotalDuration: planning.Days(14),
		Tasks: []planning.Task{
			{ID: 1, Name: "Design mockups", Owner: "Designer", Duration: 4, StartDay: 0, Dependencies: []int{}},
			{ID: 2, Name: "Development", Owner: "Engineer", Duration: 10, StartDay: 4, Dependencies: []int{1}},
		},
	}
}

func TestTextResult(t *testing.T) {
	t.Run("extracts text", func(t *testing.T) {
		r := &client.ToolResult{
			Content: []client.ContentItem{{Type: "text", Text: "hello"}},
		}
		got, err := textResult(r)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != "hello" {
			t.Fatalf("got %q, want %q", got, "hello")
		}
	})

	t.Run("empty content", func(t *testing.T) {
		_, err := textResult(&client.ToolResult{})
		if err != ErrNoContent {
			t.Fatalf("got %v, want ErrNoContent", err)
		}
	})
}

func TestUnmarshalText(t *testing.T) {
	r := &client.ToolResult{
		Content: []client.ContentItem{{Type: "text", Text: `{"diff":{"timeline_delta":3},"narrative":"x"}`}},
	}
	got, err := unmarshalText[DiffResult](r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Diff.TimelineDelta != 3 || got.Narrative != "x" {
		t.Fatalf("unexpected result: %+v", got)
	}

	r.Content[0].Text = "not json"
	if _, err := unmarshalText[DiffResult](r); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

func TestMajorVersion(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1.0.0", "1"},
		{"2.3.4", "2"},
		{"10.0.1", "10"},
		{"7", "7"},
	}
	for _, tt := range tests {
		if got := majorVersion(tt.input); got != tt.want {
			t.Errorf("majorVersion(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestClient_Compatible(t *testing.T) {
	mt := newMockTransport()
	mt.setResourceResponse(`{"schema_version":"1.0.0","server_version":"dev","tools":["cadence_diff"]}`)
	c := newTestClient(t, mt)

	if err := c.Compatible(context.Background()); err != nil {
		t.Fatalf("Compatible: %v", err)
	}

	mt.setResourceResponse(`{"schema_version":"2.0.0"}`)
	if err := c.Compatible(context.Background()); err == nil {
		t.Fatal("expected incompatible schema error")
	}
}

func TestClient_Diff(t *testing.T) {
	mt := newMockTransport()
	mt.setToolResponse(`{"diff":{"timeline_delta":3,"modified":[{"task_name":"Development","old_duration":7,"new_duration":10,"delta":3}],"added":[],"removed":[]},"narrative":"Timeline extended by 3 days"}`, false)
	c := newTestClient(t, mt)

	prev := samplePlan()
	prev.Tasks[1].Duration = 7
	got, err := c.Diff(context.Background(), &prev, samplePlan(), MatchIDs)
	if err != nil {
		t.Fatalf("Diff: %v", err)
	}
	if got.Diff.TimelineDelta != 3 || len(got.Diff.Modified) != 1 {
		t.Errorf("unexpected diff %+v", got.Diff)
	}

	call := mt.lastCall()
	for _, want := range []string{"cadence_diff", `"previous"`, `"current"`, `"ids"`, "Design mockups"} {
		if !strings.Contains(call, want) {
			t.Errorf("request missing %s: %s", want, call)
		}
	}
}

func TestClient_Timeline(t *testing.T) {
	mt := newMockTransport()
	mt.setToolResponse(`{"reference_date":"2025-01-01","project_end":"2025-01-15","degenerate":false,"axis":[],"entries":[{"task_id":1,"start_date":"2025-01-01","end_date":"2025-01-05","is_critical":false,"is_milestone":false}],"deliverables":[]}`, false)
	c := newTestClient(t, mt)

	got, err := c.Timeline(context.Background(), samplePlan(), time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Timeline: %v", err)
	}
	if got.ProjectEnd.String() != "2025-01-15" || len(got.Entries) != 1 {
		t.Errorf("unexpected schedule %+v", got)
	}
	if !strings.Contains(mt.lastCall(), `"2025-01-01"`) {
		t.Errorf("start date not sent: %s", mt.lastCall())
	}
}

func TestClient_WorkloadAndClassify(t *testing.T) {
	mt := newMockTransport()
	c := newTestClient(t, mt)

	mt.setToolResponse(`{"workload":[{"owner":"Engineer","task_count":1,"total_duration":10}],"utilization":{"Engineer":71}}`, false)
	wl, err := c.Workload(context.Background(), samplePlan())
	if err != nil {
		t.Fatalf("Workload: %v", err)
	}
	if len(wl.Workload) != 1 || wl.Utilization["Engineer"] != 71 {
		t.Errorf("unexpected workload %+v", wl)
	}

	mt.setToolResponse(`{"classification":{"1":{"is_critical":false,"is_milestone":false},"2":{"is_critical":true,"is_milestone":true}},"summary":{"critical_count":1,"milestone_count":1,"critical":[2],"milestones":[2]}}`, false)
	cl, err := c.Classify(context.Background(), samplePlan())
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if !cl.Classification[2].IsMilestone || cl.Summary.CriticalCount != 1 {
		t.Errorf("unexpected classification %+v", cl)
	}
}

func TestClient_Chat(t *testing.T) {
	mt := newMockTransport()
	mt.setToolResponse(`{"session_id":"3f2504e0-4f89-41d3-9a0c-0305e82c3301","reply":"Created","needs_clarification":false,"plan":{"project_name":"Mobile App","tasks":[]}}`, false)
	c := newTestClient(t, mt)

	got, err := c.Chat(context.Background(), "", "Plan a mobile app")
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if got.SessionID == "" || got.Plan == nil || got.Plan.ProjectName != "Mobile App" {
		t.Errorf("unexpected chat result %+v", got)
	}
	if strings.Contains(mt.lastCall(), "session_id") {
		t.Error("empty session id should not be sent")
	}
}

func TestClient_ToolError(t *testing.T) {
	mt := newMockTransport()
	mt.setToolResponse("invalid plan: tasks is required", true)
	c := newTestClient(t, mt)

	_, err := c.Workload(context.Background(), samplePlan())
	var toolErr *ToolError
	if !errors.As(err, &toolErr) {
		t.Fatalf("expected ToolError, got %v", err)
	}
	if toolErr.Tool != "cadence_workload" || !strings.Contains(toolErr.Message, "tasks is required") {
		t.Errorf("unexpected tool error %+v", toolErr)
	}
	if !errors.Is(err, ErrInvalidPlan) {
		t.Error("plan rejections should match ErrInvalidPlan")
	}
}

func TestToolError_OnlyPlanRejectionsAreInvalidPlan(t *testing.T) {
	err := error(&ToolError{Tool: "cadence_chat", Message: "chat failed: provider unavailable"})
	if errors.Is(err, ErrInvalidPlan) {
		t.Error("chat failures are not plan rejections")
	}
	if got := err.Error(); got != "cadence: cadence_chat failed: chat failed: provider unavailable" {
		t.Errorf("Error() = %q", got)
	}
}

func TestClient_Close(t *testing.T) {
	mt := newMockTransport()
	c := newTestClient(t, mt)
	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !mt.closed {
		t.Error("transport should be closed")
	}
}

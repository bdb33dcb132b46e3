package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"
)

const launchPlan = `{
  "project_name": "Mobile App",
  "total_duration": 14,
  "tasks": [
    {"id": 1, "name": "Design mockups", "owner": "Designer", "duration": 4, "start_day": 0, "dependencies": []},
    {"id": 2, "name": "Development", "owner": "Engineer", "duration": 7, "start_day": 4, "dependencies": [1]},
    {"id": 3, "name": "Testing", "owner": "QA", "duration": 3, "start_day": 11, "dependencies": [2]}
  ]
}`

const revisedPlanYAML = `project_name: Mobile App
total_duration: 17
tasks:
  - {id: 1, name: Design mockups, owner: Designer, duration: 4, start_day: 0, dependencies: []}
  - {id: 2, name: Development, owner: Engineer, duration: 10, start_day: 4, dependencies: [1]}
  - {id: 3, name: Testing, owner: QA, duration: 3, start_day: 14, dependencies: [2]}
  - {id: 4, name: Deployment, owner: DevOps, duration: 1, start_day: 16, dependencies: [3]}
`

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()

	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	os.Stdout = w

	done := make(chan string)
	go func() {
		var buf bytes.Buffer
		_, _ = buf.ReadFrom(r)
		done <- buf.String()
	}()

	fn()

	_ = w.Close()
	os.Stdout = old
	return <-done
}

func resetFlags() {
	projectPath, logLevel = "", ""
	initProvider, initModel = "", ""
	diffJSON, diffMatch = false, "words"
	timelineStart, timelineJSON = "", false
	workloadJSON, classifyJSON = false, false
	reportStart, reportJSON = "", false
	sessionJSON, chatJSON = false, false
	watchDebounce, watchMatch, watchServe = 300*time.Millisecond, "words", ""
	dashboardStart = ""
	mcpTransport, mcpAddr = "stdio", ":8080"
}

// runCLI executes the root command with args and returns what it printed.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags()
	t.Cleanup(resetFlags)

	RootCmd.SetArgs(args)
	var err error
	out := captureStdout(t, func() {
		err = Execute()
	})
	return out, err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

package sdk

import (
	"github.com/felixgeelhaar/cadence/pkg/domain/analytics"
	"github.com/felixgeelhaar/cadence/pkg/domain/dependency"
	"github.com/felixgeelhaar/cadence/pkg/domain/planning"
)

// SupportedSchemaMajor is the major schema version this SDK supports.
// Compatibility requires the server's schema major version to match.
const SupportedSchemaMajor = "1"

// Task matching strategies accepted by Diff.
const (
	MatchWords = "words"
	MatchIDs   = "ids"
)

// SchemaInfo describes the MCP schema version and the tools it offers.
type SchemaInfo struct {
	SchemaVersion string   `json:"schema_version"`
	ServerVersion string   `json:"server_version"`
	Tools         []string `json:"tools"`
}

// DiffResult is the outcome of cadence_diff.
type DiffResult struct {
	Diff      planning.PlanDiff `json:"diff"`
	Narrative string            `json:"narrative"`
}

// WorkloadResult is the outcome of cadence_workload.
type WorkloadResult struct {
	Workload    []analytics.WorkloadEntry `json:"workload"`
	Utilization map[string]int            `json:"utilization"`
}

// ClassifyResult is the outcome of cadence_classify.
type ClassifyResult struct {
	Classification map[int]dependency.Classification `json:"classification"`
	Summary        dependency.Summary                `json:"summary"`
}

// ChatResult is the outcome of one cadence_chat turn.
type ChatResult struct {
	SessionID          string             `json:"session_id"`
	Reply              string             `json:"reply"`
	NeedsClarification bool               `json:"needs_clarification"`
	Plan               *planning.Plan     `json:"plan,omitempty"`
	Diff               *planning.PlanDiff `json:"diff,omitempty"`
}

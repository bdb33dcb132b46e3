package sdk

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/felixgeelhaar/fortify/retry"
	"github.com/felixgeelhaar/mcp-go/client"

	"github.com/felixgeelhaar/cadence/pkg/application"
	"github.com/felixgeelhaar/cadence/pkg/domain/planning"
	"github.com/felixgeelhaar/cadence/pkg/domain/timeline"
)

// Client is a typed Go client for the Cadence MCP server.
type Client struct {
	mcp      *client.Client
	retryCfg retry.Config
	timeout  time.Duration
}

// NewClient wraps transport. The MCP handshake is left to Initialize.
func NewClient(transport client.Transport, opts ...Option) *Client {
	c := &Client{
		timeout:  30 * time.Second,
		retryCfg: defaultRetry(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.mcp = client.New(transport, client.WithTimeout(c.timeout))
	return c
}

// Initialize performs the MCP initialize handshake.
func (c *Client) Initialize(ctx context.Context) (*client.ServerInfo, error) {
	return c.mcp.Initialize(ctx)
}

// Close closes the underlying transport.
func (c *Client) Close() error {
	return c.mcp.Close()
}

// call invokes a tool with retry.
func (c *Client) call(ctx context.Context, tool string, args map[string]any) (*client.ToolResult, error) {
	r := retry.New[*client.ToolResult](c.retryCfg)
	result, err := r.Do(ctx, func(ctx context.Context) (*client.ToolResult, error) {
		return c.mcp.CallTool(ctx, tool, args)
	})
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", tool, err)
	}
	if result.IsError {
		msg := ""
		if len(result.Content) > 0 {
			msg = result.Content[0].Text
		}
		return nil, &ToolError{Tool: tool, Message: msg}
	}
	return result, nil
}

// unmarshalText extracts Content[0].Text from a tool result and unmarshals it as JSON.
func unmarshalText[T any](result *client.ToolResult) (*T, error) {
	text, err := textResult(result)
	if err != nil {
		return nil, err
	}
	var v T
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}
	return &v, nil
}

// textResult extracts Content[0].Text from a tool result.
func textResult(result *client.ToolResult) (string, error) {
	if len(result.Content) == 0 {
		return "", ErrNoContent
	}
	return result.Content[0].Text, nil
}

// planArg converts a plan into the generic object the tools accept.
func planArg(plan planning.Plan) (map[string]any, error) {
	data, err := json.Marshal(plan)
	if err != nil {
		return nil, fmt.Errorf("encode plan: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("encode plan: %w", err)
	}
	return m, nil
}

// --- Schema ---

// GetSchema reads the cadence://schema resource from the server.
func (c *Client) GetSchema(ctx context.Context) (*SchemaInfo, error) {
	rc, err := c.mcp.ReadResource(ctx, "cadence://schema")
	if err != nil {
		return nil, fmt.Errorf("read schema resource: %w", err)
	}
	var info SchemaInfo
	if err := json.Unmarshal([]byte(rc.Text), &info); err != nil {
		return nil, fmt.Errorf("unmarshal schema: %w", err)
	}
	return &info, nil
}

// Compatible checks if the server schema is compatible with this SDK version.
// Returns nil if compatible, error with details if not.
func (c *Client) Compatible(ctx context.Context) error {
	info, err := c.GetSchema(ctx)
	if err != nil {
		return fmt.Errorf("check compatibility: %w", err)
	}
	serverMajor := majorVersion(info.SchemaVersion)
	if serverMajor != SupportedSchemaMajor {
		return fmt.Errorf("incompatible schema: server=%s (major %s), sdk supports major %s",
			info.SchemaVersion, serverMajor, SupportedSchemaMajor)
	}
	return nil
}

// majorVersion extracts the major version from a semver string.
func majorVersion(v string) string {
	for i, ch := range v {
		if ch == '.' {
			return v[:i]
		}
	}
	return v
}

// --- Plan analysis ---

// Diff compares previous (nil for a first plan) with current.
func (c *Client) Diff(ctx context.Context, previous *planning.Plan, current planning.Plan, match string) (*DiffResult, error) {
	cur, err := planArg(current)
	if err != nil {
		return nil, err
	}
	args := map[string]any{"current": cur}
	if previous != nil {
		prev, err := planArg(*previous)
		if err != nil {
			return nil, err
		}
		args["previous"] = prev
	}
	if match != "" {
		args["match"] = match
	}
	res, err := c.call(ctx, "cadence_diff", args)
	if err != nil {
		return nil, err
	}
	return unmarshalText[DiffResult](res)
}

// Timeline lays the plan out from start. A zero start uses the server's today.
func (c *Client) Timeline(ctx context.Context, plan planning.Plan, start time.Time) (*timeline.Schedule, error) {
	args, err := planToolArgs(plan, start)
	if err != nil {
		return nil, err
	}
	res, err := c.call(ctx, "cadence_timeline", args)
	if err != nil {
		return nil, err
	}
	return unmarshalText[timeline.Schedule](res)
}

// Workload aggregates the plan per owner.
func (c *Client) Workload(ctx context.Context, plan planning.Plan) (*WorkloadResult, error) {
	args, err := planToolArgs(plan, time.Time{})
	if err != nil {
		return nil, err
	}
	res, err := c.call(ctx, "cadence_workload", args)
	if err != nil {
		return nil, err
	}
	return unmarshalText[WorkloadResult](res)
}

// Classify marks critical and milestone tasks.
func (c *Client) Classify(ctx context.Context, plan planning.Plan) (*ClassifyResult, error) {
	args, err := planToolArgs(plan, time.Time{})
	if err != nil {
		return nil, err
	}
	res, err := c.call(ctx, "cadence_classify", args)
	if err != nil {
		return nil, err
	}
	return unmarshalText[ClassifyResult](res)
}

// Report returns every derived view of the plan.
func (c *Client) Report(ctx context.Context, plan planning.Plan, start time.Time) (*application.Report, error) {
	args, err := planToolArgs(plan, start)
	if err != nil {
		return nil, err
	}
	res, err := c.call(ctx, "cadence_report", args)
	if err != nil {
		return nil, err
	}
	return unmarshalText[application.Report](res)
}

func planToolArgs(plan planning.Plan, start time.Time) (map[string]any, error) {
	p, err := planArg(plan)
	if err != nil {
		return nil, err
	}
	args := map[string]any{"plan": p}
	if !start.IsZero() {
		args["start"] = start.Format(timeline.DateLayout)
	}
	return args, nil
}

// --- Sessions ---

// Chat sends a message to a session. An empty sessionID starts a new one;
// the returned result carries its id.
func (c *Client) Chat(ctx context.Context, sessionID, message string) (*ChatResult, error) {
	args := map[string]any{"message": message}
	if sessionID != "" {
		args["session_id"] = sessionID
	}
	res, err := c.call(ctx, "cadence_chat", args)
	if err != nil {
		return nil, err
	}
	return unmarshalText[ChatResult](res)
}

// Package mcp exposes plan diffing, scheduling and planning sessions as MCP tools.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/felixgeelhaar/mcp-go"

	"github.com/felixgeelhaar/cadence/internal/infrastructure/wiring"
	"github.com/felixgeelhaar/cadence/pkg/application"
	"github.com/felixgeelhaar/cadence/pkg/domain/analytics"
	"github.com/felixgeelhaar/cadence/pkg/domain/dependency"
	"github.com/felixgeelhaar/cadence/pkg/domain/planning"
)

type Server struct {
	mcpServer *mcp.Server
	sessions  *application.SessionService
	reports   *application.ReportService
	flush     func()
	logger    *slog.Logger
	now       func() time.Time
}

var (
	Version     = "dev"
	BuildCommit = "unknown"
	BuildDate   = "unknown"
)

// mcpErr returns a user-friendly error for MCP clients.
func mcpErr(friendly string) error {
	return fmt.Errorf("%s", friendly)
}

// NewServer builds the application services for root and registers the
// tools. Logs go to logOut, never to stdout, so the stdio transport stays clean.
func NewServer(root string, logOut io.Writer, logLevel string) (*Server, error) {
	services, err := wiring.BuildAppServices(root, logOut, logLevel)
	if err != nil {
		return nil, fmt.Errorf("build services: %w", err)
	}
	return NewServerWithServices(services), nil
}

// NewServerWithServices registers the tools around already wired services.
func NewServerWithServices(services *wiring.AppServices) *Server {
	info := mcp.ServerInfo{
		Name:    "cadence",
		Version: Version,
	}

	s := &Server{
		mcpServer: mcp.NewServer(info,
			mcp.WithTitle("Cadence MCP Server"),
			mcp.WithDescription("Cadence diffs plan revisions, lays plans out on a calendar and aggregates workload per owner."),
			mcp.WithWebsiteURL("https://github.com/felixgeelhaar/cadence"),
			mcp.WithBuildInfo(BuildCommit, BuildDate),
			mcp.WithInstructions("Pass plan objects to the analysis tools, or use cadence_chat to refine a plan through a session."),
		),
		sessions: services.Sessions,
		reports:  services.Reports,
		flush:    services.Close,
		logger:   services.Workspace.Logger,
		now:      time.Now,
	}

	s.registerTools()
	s.registerSchemaResource()
	return s
}

// PlanArgs carries a plan object in the generator's JSON shape.
type PlanArgs struct {
	Plan map[string]any `json:"plan" jsonschema:"description=Plan object with project_name, total_duration and tasks"`
}

type DiffArgs struct {
	Previous map[string]any `json:"previous,omitempty" jsonschema:"description=Previous plan snapshot; omit for a first plan"`
	Current  map[string]any `json:"current" jsonschema:"description=New plan snapshot"`
	Match    string         `json:"match,omitempty" jsonschema:"description=Task matching strategy: words (default) or ids"`
}

type TimelineArgs struct {
	Plan  map[string]any `json:"plan" jsonschema:"description=Plan object to lay out"`
	Start string         `json:"start,omitempty" jsonschema:"description=Reference date YYYY-MM-DD; defaults to today"`
}

type ChatArgs struct {
	SessionID string `json:"session_id,omitempty" jsonschema:"description=Session to continue; omit to start a new one"`
	Message   string `json:"message" jsonschema:"description=User message describing the project or requested change"`
}

func (s *Server) registerTools() {
	s.mcpServer.Tool("cadence_diff").
		Description("Compare two plan snapshots: timeline delta, modified, added and removed tasks").
		Handler(s.handleDiff)

	s.mcpServer.Tool("cadence_timeline").
		Description("Lay a plan out on the calendar with critical and milestone markers").
		Handler(s.handleTimeline)

	s.mcpServer.Tool("cadence_workload").
		Description("Aggregate task count and total duration per owner").
		Handler(s.handleWorkload)

	s.mcpServer.Tool("cadence_classify").
		Description("Classify plan tasks as critical and/or milestone").
		Handler(s.handleClassify)

	s.mcpServer.Tool("cadence_report").
		Description("Full report: classification, schedule and workload for a plan").
		Handler(s.handleReport)

	s.mcpServer.Tool("cadence_chat").
		Description("Send a message to a planning session and receive the revised plan and change summary").
		Handler(s.handleChat)
}

// decodePlanArg runs a tool argument through the plan boundary.
func decodePlanArg(field string, raw map[string]any) (*planning.Plan, error) {
	if raw == nil {
		return nil, mcpErr(fmt.Sprintf("%s is required", field))
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, mcpErr(fmt.Sprintf("%s could not be encoded", field))
	}
	plan, err := planning.DecodePlan(data)
	if err != nil {
		return nil, mcpErr(fmt.Sprintf("invalid %s: %s", field, err))
	}
	return plan, nil
}

func (s *Server) referenceDate(start string) (time.Time, error) {
	if start == "" {
		return s.now(), nil
	}
	ref, err := time.Parse("2006-01-02", start)
	if err != nil {
		return time.Time{}, mcpErr(fmt.Sprintf("invalid start date %q (expected YYYY-MM-DD)", start))
	}
	return ref, nil
}

func matcherFor(name string) (planning.Matcher, error) {
	switch name {
	case "", "words":
		return planning.NewWordOverlapMatcher(), nil
	case "ids":
		return planning.NewIDMatcher(), nil
	default:
		return nil, mcpErr(fmt.Sprintf("unknown match strategy %q (use words or ids)", name))
	}
}

type diffResult struct {
	Diff      planning.PlanDiff `json:"diff"`
	Narrative string            `json:"narrative"`
}

func (s *Server) handleDiff(ctx context.Context, args DiffArgs) (any, error) {
	matcher, err := matcherFor(args.Match)
	if err != nil {
		return nil, err
	}
	current, err := decodePlanArg("current", args.Current)
	if err != nil {
		return nil, err
	}
	var previous *planning.Plan
	if args.Previous != nil {
		if previous, err = decodePlanArg("previous", args.Previous); err != nil {
			return nil, err
		}
	}

	diff := planning.NewDiffer(matcher).Diff(previous, *current)
	narrative := application.RenderCreationSummary(*current)
	if previous != nil {
		narrative = application.RenderChangeNarrative(previous, *current, diff)
	}
	return diffResult{Diff: diff, Narrative: narrative}, nil
}

func (s *Server) handleTimeline(ctx context.Context, args TimelineArgs) (any, error) {
	plan, err := decodePlanArg("plan", args.Plan)
	if err != nil {
		return nil, err
	}
	ref, err := s.referenceDate(args.Start)
	if err != nil {
		return nil, err
	}
	report, err := s.buildReport(*plan, ref)
	if err != nil {
		return nil, err
	}
	return report.Schedule, nil
}

type workloadResult struct {
	Workload    []analytics.WorkloadEntry `json:"workload"`
	Utilization map[string]int            `json:"utilization"`
}

type classifyResult struct {
	Classification map[int]dependency.Classification `json:"classification"`
	Summary        dependency.Summary                `json:"summary"`
}

func (s *Server) handleWorkload(ctx context.Context, args PlanArgs) (any, error) {
	plan, err := decodePlanArg("plan", args.Plan)
	if err != nil {
		return nil, err
	}
	report, err := s.buildReport(*plan, s.now())
	if err != nil {
		return nil, err
	}
	return workloadResult{Workload: report.Workload, Utilization: report.Utilization}, nil
}

func (s *Server) handleClassify(ctx context.Context, args PlanArgs) (any, error) {
	plan, err := decodePlanArg("plan", args.Plan)
	if err != nil {
		return nil, err
	}
	report, err := s.buildReport(*plan, s.now())
	if err != nil {
		return nil, err
	}
	return classifyResult{Classification: report.Classification, Summary: report.Summary}, nil
}

func (s *Server) handleReport(ctx context.Context, args TimelineArgs) (any, error) {
	plan, err := decodePlanArg("plan", args.Plan)
	if err != nil {
		return nil, err
	}
	ref, err := s.referenceDate(args.Start)
	if err != nil {
		return nil, err
	}
	report, err := s.buildReport(*plan, ref)
	if err != nil {
		return nil, err
	}
	return report, nil
}

func (s *Server) buildReport(plan planning.Plan, ref time.Time) (application.Report, error) {
	report, err := s.reports.Build(plan, ref)
	if err != nil {
		return application.Report{}, mcpErr(err.Error())
	}
	return report, nil
}

type chatResult struct {
	SessionID          string             `json:"session_id"`
	Reply              string             `json:"reply"`
	NeedsClarification bool               `json:"needs_clarification"`
	Plan               *planning.Plan     `json:"plan,omitempty"`
	Diff               *planning.PlanDiff `json:"diff,omitempty"`
}

func (s *Server) handleChat(ctx context.Context, args ChatArgs) (any, error) {
	if args.Message == "" {
		return nil, mcpErr("message is required")
	}

	id := args.SessionID
	created := id == ""
	if created {
		sess, err := s.sessions.NewSession()
		if err != nil {
			s.logger.Error("mcp session create failed", "error", err)
			return nil, mcpErr("failed to create session")
		}
		id = sess.ID
	}

	turn, err := s.sessions.Send(ctx, id, args.Message)
	if err != nil {
		s.logger.Warn("mcp chat failed", "session_id", id, "error", err)
		if created {
			// The caller never saw this id, so nothing could resume it.
			if delErr := s.sessions.DeleteSession(id); delErr != nil {
				s.logger.Error("mcp session cleanup failed", "session_id", id, "error", delErr)
			}
		}
		var vErr *planning.ValidationError
		if errors.As(err, &vErr) {
			return nil, mcpErr(vErr.Error())
		}
		return nil, mcpErr(fmt.Sprintf("chat failed: %s", err))
	}

	return chatResult{
		SessionID:          turn.Session.ID,
		Reply:              turn.Reply,
		NeedsClarification: turn.NeedsClarification,
		Plan:               turn.Session.CurrentPlan,
		Diff:               turn.Diff,
	}, nil
}

// ServeStdio serves until ctx is done, then flushes pending webhook deliveries.
func (s *Server) ServeStdio(ctx context.Context) error {
	defer s.flush()
	return mcp.ServeStdio(ctx, s.mcpServer)
}

func (s *Server) ServeHTTP(ctx context.Context, addr string) error {
	defer s.flush()
	return mcp.ServeHTTP(ctx, s.mcpServer, addr, mcp.WithDefaultCORS())
}

package mcp

import (
	"context"
	"encoding/json"

	mcplib "github.com/felixgeelhaar/mcp-go"

	"github.com/felixgeelhaar/cadence/pkg/domain/planning"
)

// SchemaVersion is the current MCP tool schema version (semver).
const SchemaVersion = "1.0.0"

const (
	schemaURI     = "cadence://schema"
	planSchemaURI = "cadence://plan-schema"
)

type schemaResponse struct {
	SchemaVersion string   `json:"schema_version"`
	ServerVersion string   `json:"server_version"`
	Tools         []string `json:"tools"`
}

func toolNames() []string {
	return []string{
		"cadence_diff",
		"cadence_timeline",
		"cadence_workload",
		"cadence_classify",
		"cadence_report",
		"cadence_chat",
	}
}

func (s *Server) registerSchemaResource() {
	s.mcpServer.Resource(schemaURI).
		Name(schemaURI).
		Description("MCP tool schema version").
		MimeType("application/json").
		Handler(func(_ context.Context, _ string, _ map[string]string) (*mcplib.ResourceContent, error) {
			data, err := json.Marshal(schemaResponse{
				SchemaVersion: SchemaVersion,
				ServerVersion: Version,
				Tools:         toolNames(),
			})
			if err != nil {
				return nil, err
			}
			return &mcplib.ResourceContent{
				URI:      schemaURI,
				MimeType: "application/json",
				Text:     string(data),
			}, nil
		})

	s.mcpServer.Resource(planSchemaURI).
		Name(planSchemaURI).
		Description("JSON Schema accepted for plan arguments").
		MimeType("application/schema+json").
		Handler(func(_ context.Context, _ string, _ map[string]string) (*mcplib.ResourceContent, error) {
			return &mcplib.ResourceContent{
				URI:      planSchemaURI,
				MimeType: "application/schema+json",
				Text:     planning.PlanSchema(),
			}, nil
		})
}

package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/cadence/pkg/domain/planning"
)

// LoadPlanFile reads a plan from a JSON or YAML file and runs it through the
// plan boundary. Files ending in .yaml or .yml are treated as YAML, anything
// else that does not start with '{' as well.
func LoadPlanFile(path string) (*planning.Plan, error) {
	// #nosec G304 -- plan files are explicitly named by the user
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read plan file: %w", err)
	}

	if isYAML(path, data) {
		data, err = yamlToJSON(data)
		if err != nil {
			return nil, planning.NewValidationError(fmt.Sprintf("plan file is not valid YAML: %v", err))
		}
	}

	plan, err := planning.DecodePlan(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return plan, nil
}

// SavePlanFile writes a plan as indented JSON, or YAML when the path says so.
func SavePlanFile(path string, plan *planning.Plan) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(plan)
	default:
		data, err = json.MarshalIndent(plan, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to marshal plan: %w", err)
	}
	return os.WriteFile(path, data, 0600)
}

func isYAML(path string, data []byte) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	case ".json":
		return false
	}
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) > 0 && trimmed[0] != '{'
}

func yamlToJSON(data []byte) ([]byte, error) {
	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return json.Marshal(doc)
}

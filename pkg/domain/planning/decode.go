package planning

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

const planSchemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["project_name", "tasks"],
  "properties": {
    "project_name": { "type": "string" },
    "total_duration": { "type": "integer", "maximum": 36500 },
    "tasks": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "name", "owner", "duration", "start_day"],
        "properties": {
          "id": { "type": "integer" },
          "name": { "type": "string", "minLength": 1 },
          "owner": { "type": "string", "minLength": 1 },
          "duration": { "type": "integer", "maximum": 36500 },
          "start_day": { "type": "integer", "maximum": 36500 },
          "dependencies": {
            "type": "array",
            "items": { "type": "integer" }
          }
        }
      }
    }
  }
}`

var planSchemaLoader = gojsonschema.NewStringLoader(planSchemaJSON)

// PlanSchema returns the JSON Schema that plan payloads must satisfy.
func PlanSchema() string {
	return planSchemaJSON
}

// DecodePlan is the boundary for plan payloads. The document is checked
// against the plan schema, decoded, and validated; any failure is returned
// as a *ValidationError.
func DecodePlan(data []byte) (*Plan, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, NewValidationError("plan payload is empty")
	}

	result, err := gojsonschema.Validate(planSchemaLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, NewValidationError(fmt.Sprintf("plan payload is not valid JSON: %v", err))
	}
	if !result.Valid() {
		problems := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			problems = append(problems, desc.String())
		}
		return nil, &ValidationError{Problems: problems}
	}

	var plan Plan
	if err := json.Unmarshal(data, &plan); err != nil {
		return nil, NewValidationError(fmt.Sprintf("decode plan: %v", err))
	}
	if plan.Tasks == nil {
		plan.Tasks = []Task{}
	}
	for i := range plan.Tasks {
		if plan.Tasks[i].Dependencies == nil {
			plan.Tasks[i].Dependencies = []int{}
		}
	}

	if err := plan.Validate(); err != nil {
		return nil, err
	}
	return &plan, nil
}

package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/felixgeelhaar/cadence/pkg/domain/ai"
	"github.com/felixgeelhaar/cadence/pkg/domain/planning"
	"github.com/felixgeelhaar/cadence/pkg/domain/session"
)

const (
	generatorTemperature = 0.7
	generatorMaxTokens   = 2000
)

const planningSystemPrompt = `You are an expert project planning AI. Analyze the conversation and create a comprehensive, realistic project plan.

REASONING PROCESS (think step-by-step):
1. Identify the project type and domain (software, marketing, research, etc.)
2. Extract user-specified tasks OR infer logical tasks based on the project description
3. Determine task dependencies based on natural workflow
4. Assign realistic durations considering task complexity
5. Assign appropriate owners based on project type and task nature

IMPORTANT:
- If the user specifies custom tasks or phases, use those exactly as described
- If the user requests changes to an existing plan, adjust accordingly
- If no specific tasks are mentioned, infer logical tasks from the project description

Generate a JSON response with this exact structure:
{
  "project_name": "string (clear, professional name)",
  "total_duration": number (in days),
  "tasks": [
    {
      "id": number (sequential, starting from 1),
      "name": "string (use the user's task names if provided)",
      "owner": "string (a role suited to the project type)",
      "start_day": number (0-indexed, accounting for dependencies),
      "duration": number (realistic days for this task, at least 1),
      "dependencies": [array of task ids that must complete first]
    }
  ]
}

RULES:
1. Prioritize user-specified tasks over default assumptions
2. Break the project into 5-8 logical tasks unless the user asks for a different number
3. Parallel tasks can have the same start_day if they don't depend on each other
4. All dependency ids must reference task ids in the list and no task may depend on itself
5. start_day + duration of every task must fit within total_duration
6. Task names must be clear, unique and under 60 characters
7. At least one task has no dependencies

Return ONLY valid JSON, no markdown, no explanation, no code blocks.`

// PlanGenerator turns a conversation into a validated plan through an AI provider.
type PlanGenerator struct {
	provider ai.Provider
	logger   *slog.Logger
}

func NewPlanGenerator(provider ai.Provider, logger *slog.Logger) *PlanGenerator {
	if logger == nil {
		logger = slog.Default()
	}
	return &PlanGenerator{provider: provider, logger: logger}
}

// Generate asks the provider for a plan covering the conversation so far.
// A response that does not survive the plan boundary yields a
// *planning.ValidationError.
func (g *PlanGenerator) Generate(ctx context.Context, messages []session.Message) (*planning.Plan, error) {
	if err := session.ValidateConversation(messages); err != nil {
		return nil, err
	}

	resp, err := g.provider.Complete(ctx, ai.CompletionRequest{
		System:      planningSystemPrompt,
		Prompt:      buildGeneratorPrompt(messages),
		Temperature: generatorTemperature,
		MaxTokens:   generatorMaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("plan generation failed: %w", err)
	}

	g.logger.Debug("plan generated",
		"provider", g.provider.ID(),
		"model", resp.Model,
		"input_tokens", resp.Usage.InputTokens,
		"output_tokens", resp.Usage.OutputTokens,
	)

	plan, err := planning.DecodePlan([]byte(extractJSONPayload(resp.Text)))
	if err != nil {
		g.logger.Info("generator returned unusable plan", "error", err)
		return nil, err
	}
	return plan, nil
}

func buildGeneratorPrompt(messages []session.Message) string {
	var b strings.Builder
	b.WriteString("Conversation:\n")
	for i, m := range messages {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%s: %s", m.Role, m.Content)
	}
	b.WriteString("\n\nGenerate the project plan JSON:")
	return b.String()
}

// extractJSONPayload strips code fences and surrounding prose from a model
// response, keeping the outermost JSON object or array.
func extractJSONPayload(text string) string {
	clean := strings.TrimSpace(text)
	clean = strings.TrimPrefix(clean, "```json")
	clean = strings.TrimPrefix(clean, "```")
	clean = strings.TrimSuffix(clean, "```")
	clean = strings.TrimSpace(clean)

	if clean == "" {
		return clean
	}

	startArray := strings.Index(clean, "[")
	startObject := strings.Index(clean, "{")
	start := -1
	if startArray == -1 {
		start = startObject
	} else if startObject == -1 || startArray < startObject {
		start = startArray
	} else {
		start = startObject
	}
	if start == -1 {
		return clean
	}

	endArray := strings.LastIndex(clean, "]")
	endObject := strings.LastIndex(clean, "}")
	end := -1
	if endArray == -1 {
		end = endObject
	} else if endObject == -1 || endArray > endObject {
		end = endArray
	} else {
		end = endObject
	}
	if end == -1 || end <= start {
		return clean
	}

	return strings.TrimSpace(clean[start : end+1])
}

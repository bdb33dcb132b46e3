package webhook

import (
	"encoding/json"
	"fmt"

	"github.com/felixgeelhaar/cadence/pkg/application"
)

// Endpoint body formats.
const (
	FormatJSON  = "json"
	FormatSlack = "slack"
)

// slackBody renders event as a Slack incoming webhook message.
func slackBody(event application.PlanChangedEvent) ([]byte, error) {
	text := formatSlackMessage(event)
	payload := map[string]any{
		"text": text,
		"blocks": []map[string]any{
			{
				"type": "section",
				"text": map[string]string{
					"type": "mrkdwn",
					"text": text,
				},
			},
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal slack payload: %w", err)
	}
	return body, nil
}

func formatSlackMessage(event application.PlanChangedEvent) string {
	switch event.Type {
	case application.EventPlanCreated:
		return fmt.Sprintf(":clipboard: New plan created: *%s* (%d days)\n%s", event.ProjectName, event.TotalDuration, event.Summary)
	case application.EventPlanRevised:
		return fmt.Sprintf(":calendar: Plan revised: *%s* (%d days)\n%s", event.ProjectName, event.TotalDuration, event.Summary)
	default:
		return fmt.Sprintf("Cadence event: %s", event.Type)
	}
}

package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/linnemanlabs/findtogether/internal/casework"
)

// PostAlerts broadcasts the formatted alert for a case to every
// configured public channel and the community messenger group.
type PostAlerts struct {
	alerts *casework.Alerts
}

// NewPostAlerts wraps the alert broadcast workflow as a tool.
func NewPostAlerts(alerts *casework.Alerts) *PostAlerts {
	return &PostAlerts{alerts: alerts}
}

func (t *PostAlerts) Name() string { return "post_alerts" }

func (t *PostAlerts) Description() string {
	return `Posts a formatted missing-person alert for a case to all configured public channels
and the community alerts group. Reports the per-channel outcome; one channel failing does not
stop the others.`
}

func (t *PostAlerts) Parameters() json.RawMessage {
	return json.RawMessage(`{
        "type": "object",
        "properties": {
            "case_id": {"type": "integer", "description": "ID of the case to broadcast"}
        },
        "required": ["case_id"]
    }`)
}

func (t *PostAlerts) Execute(ctx context.Context, params json.RawMessage) (json.RawMessage, error) {
	var input struct {
		CaseID int64 `json:"case_id"`
	}
	if err := json.Unmarshal(params, &input); err != nil {
		return nil, fmt.Errorf("invalid params: %w", err)
	}

	res, err := t.alerts.PostAlerts(ctx, input.CaseID)
	if err != nil {
		return nil, err
	}
	return json.Marshal(res)
}

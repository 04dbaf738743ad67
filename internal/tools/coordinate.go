package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/linnemanlabs/findtogether/internal/casework"
)

// CoordinateVolunteers matches volunteers to a search location and
// dispatches their notifications.
type CoordinateVolunteers struct {
	coordinator *casework.Coordinator
}

// NewCoordinateVolunteers wraps the coordination workflow as a tool.
func NewCoordinateVolunteers(coordinator *casework.Coordinator) *CoordinateVolunteers {
	return &CoordinateVolunteers{coordinator: coordinator}
}

func (t *CoordinateVolunteers) Name() string { return "coordinate_volunteers" }

func (t *CoordinateVolunteers) Description() string {
	return `Matches registered volunteers to a search location for a case, messages the
ones with phones, and records a notification for every matched volunteer. Returns a
summary of who was contacted.`
}

func (t *CoordinateVolunteers) Parameters() json.RawMessage {
	return json.RawMessage(`{
        "type": "object",
        "properties": {
            "case_id": {"type": "integer", "description": "ID of the case being searched"},
            "location": {"type": "string", "description": "Search location to match volunteers against"}
        },
        "required": ["case_id", "location"]
    }`)
}

func (t *CoordinateVolunteers) Execute(ctx context.Context, params json.RawMessage) (json.RawMessage, error) {
	var input struct {
		CaseID   int64  `json:"case_id"`
		Location string `json:"location"`
	}
	if err := json.Unmarshal(params, &input); err != nil {
		return nil, fmt.Errorf("invalid params: %w", err)
	}

	res, err := t.coordinator.CoordinateVolunteers(ctx, input.CaseID, input.Location)
	if err != nil {
		return nil, err
	}
	return json.Marshal(res)
}

package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/linnemanlabs/findtogether/internal/casework"
)

// ReportMissingPerson is the intake operation: collects victim and
// reporter details and creates a case.
type ReportMissingPerson struct {
	intake *casework.Intake
}

// NewReportMissingPerson wraps the intake workflow as a tool.
func NewReportMissingPerson(intake *casework.Intake) *ReportMissingPerson {
	return &ReportMissingPerson{intake: intake}
}

func (t *ReportMissingPerson) Name() string { return "report_missing_person" }

func (t *ReportMissingPerson) Description() string {
	return `Collects victim details and creates a missing-person case. Records the person,
an optional photo, and the case with the reporter's contact information. Returns the new case ID.`
}

func (t *ReportMissingPerson) Parameters() json.RawMessage {
	return json.RawMessage(`{
        "type": "object",
        "properties": {
            "name": {"type": "string", "description": "Full name of the missing person"},
            "age": {"type": "integer", "description": "Age in years, must not be negative"},
            "description": {"type": "string", "description": "Appearance, clothing, distinguishing marks"},
            "last_seen_location": {"type": "string", "description": "Where the person was last seen"},
            "last_seen_date": {"type": "string", "description": "Calendar date last seen (YYYY-MM-DD)"},
            "reporter_name": {"type": "string", "description": "Name of the person filing the report"},
            "reporter_contact": {"type": "string", "description": "Phone or email of the reporter"},
            "image_url": {"type": "string", "description": "URL of a recent photo. Optional."}
        },
        "required": ["name", "age", "last_seen_location", "last_seen_date", "reporter_name", "reporter_contact"]
    }`)
}

func (t *ReportMissingPerson) Execute(ctx context.Context, params json.RawMessage) (json.RawMessage, error) {
	var req casework.ReportRequest
	if err := json.Unmarshal(params, &req); err != nil {
		return nil, fmt.Errorf("invalid params: %w", err)
	}

	caseID, err := t.intake.ReportMissingPerson(ctx, &req)
	if err != nil {
		return nil, err
	}

	return json.Marshal(map[string]any{
		"case_id": caseID,
		"status":  fmt.Sprintf("Case created successfully. Case ID: %d", caseID),
	})
}

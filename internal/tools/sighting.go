package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/linnemanlabs/findtogether/internal/casework"
)

// ReportSighting records a public sighting and compares its photo
// against open cases.
type ReportSighting struct {
	sightings *casework.Sightings
}

// NewReportSighting wraps the sighting workflow as a tool.
func NewReportSighting(sightings *casework.Sightings) *ReportSighting {
	return &ReportSighting{sightings: sightings}
}

func (t *ReportSighting) Name() string { return "report_sighting" }

func (t *ReportSighting) Description() string {
	return `Logs a sighting report with its photo and compares it against photos from open
cases. Comparisons that clear the confidence threshold are recorded as potential matches
for manual verification.`
}

func (t *ReportSighting) Parameters() json.RawMessage {
	return json.RawMessage(`{
        "type": "object",
        "properties": {
            "image_url": {"type": "string", "description": "URL of the sighting photo"},
            "location": {"type": "string", "description": "Where the sighting occurred. Optional."},
            "notes": {"type": "string", "description": "Anything else the witness reported. Optional."}
        },
        "required": ["image_url"]
    }`)
}

func (t *ReportSighting) Execute(ctx context.Context, params json.RawMessage) (json.RawMessage, error) {
	var report casework.SightingReport
	if err := json.Unmarshal(params, &report); err != nil {
		return nil, fmt.Errorf("invalid params: %w", err)
	}

	res, err := t.sightings.ReportSighting(ctx, &report)
	if err != nil {
		return nil, err
	}
	return json.Marshal(res)
}

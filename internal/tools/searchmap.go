package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/linnemanlabs/findtogether/internal/casework"
)

// CreateSearchMap resolves a location and lays out the standard search
// zones with a static map URL.
type CreateSearchMap struct {
	searchMap *casework.SearchMap
}

// NewCreateSearchMap wraps the search-map helper as a tool.
func NewCreateSearchMap(searchMap *casework.SearchMap) *CreateSearchMap {
	return &CreateSearchMap{searchMap: searchMap}
}

func (t *CreateSearchMap) Name() string { return "create_search_map" }

func (t *CreateSearchMap) Description() string {
	return `Generates a search plan for a location: geocoded coordinates, prioritized
search zones, and a static map URL with the last-seen position pinned.`
}

func (t *CreateSearchMap) Parameters() json.RawMessage {
	return json.RawMessage(`{
        "type": "object",
        "properties": {
            "location": {"type": "string", "description": "Free-text location to center the search on"}
        },
        "required": ["location"]
    }`)
}

func (t *CreateSearchMap) Execute(ctx context.Context, params json.RawMessage) (json.RawMessage, error) {
	var input struct {
		Location string `json:"location"`
	}
	if err := json.Unmarshal(params, &input); err != nil {
		return nil, fmt.Errorf("invalid params: %w", err)
	}
	if input.Location == "" {
		return nil, fmt.Errorf("location is required")
	}

	res, err := t.searchMap.CreateSearchMap(ctx, input.Location)
	if err != nil {
		return nil, err
	}
	return json.Marshal(res)
}

package geo

import (
	"context"
	"strings"

	"github.com/linnemanlabs/findtogether/internal/casework"
)

// Fixed is a best-effort geocoder for deployments without an API key.
// It returns pinned coordinates for the pilot area and never fails.
type Fixed struct{}

// NewFixed creates the fixed-coordinate geocoder.
func NewFixed() *Fixed { return &Fixed{} }

// Resolve returns the pilot-area coordinates; locations mentioning Delhi
// resolve to the city center.
func (f *Fixed) Resolve(_ context.Context, location string) (casework.Coordinates, error) {
	if strings.Contains(strings.ToLower(location), "delhi") {
		return casework.Coordinates{Lat: 28.6139, Lng: 77.2090}, nil
	}
	return casework.Coordinates{Lat: 28.6304, Lng: 77.2177}, nil
}

// StaticMapURL renders the keyless static map URL for the coordinates.
func (f *Fixed) StaticMapURL(c casework.Coordinates) string {
	return staticMapURL(c, "")
}

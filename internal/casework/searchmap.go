package casework

import (
	"context"

	"github.com/linnemanlabs/findtogether/internal/casefile"
)

// SearchZone describes one ring of the search plan around the target.
type SearchZone struct {
	Radius      string `json:"radius"`
	Priority    string `json:"priority"`
	Description string `json:"description"`
}

// SearchMapResult is the search plan for a location: its coordinates,
// the fixed zone descriptors, and a static map URL.
type SearchMapResult struct {
	Location    string       `json:"location"`
	Coordinates Coordinates  `json:"coordinates"`
	SearchZones []SearchZone `json:"search_zones"`
	MapURL      string       `json:"map_url"`
}

// SearchMap resolves a location and lays out the standard search zones.
// Purely a read/format operation; nothing is persisted.
type SearchMap struct {
	geocoder Geocoder
}

// NewSearchMap creates the search-map helper.
func NewSearchMap(geocoder Geocoder) *SearchMap {
	return &SearchMap{geocoder: geocoder}
}

// CreateSearchMap geocodes the location and emits the two standard zones.
func (s *SearchMap) CreateSearchMap(ctx context.Context, location string) (*SearchMapResult, error) {
	coords, err := s.geocoder.Resolve(ctx, location)
	if err != nil {
		return nil, casefile.Wrap(casefile.KindExternal, err, "geocode location")
	}

	return &SearchMapResult{
		Location:    location,
		Coordinates: coords,
		SearchZones: []SearchZone{
			{Radius: "1km", Priority: "High", Description: "Immediate vicinity"},
			{Radius: "5km", Priority: "Medium", Description: "Surrounding transport hubs"},
		},
		MapURL: s.geocoder.StaticMapURL(coords),
	}, nil
}

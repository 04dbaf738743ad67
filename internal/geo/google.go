// Package geo provides Geocoder implementations: a Google Maps client
// and a fixed-coordinate fallback for deployments without an API key.
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/linnemanlabs/findtogether/internal/casework"
)

const (
	geocodeEndpoint   = "https://maps.googleapis.com/maps/api/geocode/json"
	staticMapEndpoint = "https://maps.googleapis.com/maps/api/staticmap"
	httpTimeout       = 10 * time.Second
)

// Google resolves locations through the Google Maps geocoding API.
type Google struct {
	apiKey   string
	endpoint string
	client   *http.Client
}

// NewGoogle creates a Google geocoder with the given API key.
func NewGoogle(apiKey string) *Google {
	return &Google{
		apiKey:   apiKey,
		endpoint: geocodeEndpoint,
		client:   &http.Client{Timeout: httpTimeout},
	}
}

// Resolve geocodes the location, returning the first result's position.
func (g *Google) Resolve(ctx context.Context, location string) (casework.Coordinates, error) {
	q := url.Values{}
	q.Set("address", location)
	q.Set("key", g.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return casework.Coordinates{}, fmt.Errorf("geocode: create request: %w", err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return casework.Coordinates{}, fmt.Errorf("geocode: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return casework.Coordinates{}, fmt.Errorf("geocode: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return casework.Coordinates{}, fmt.Errorf("geocode: returned %d: %s", resp.StatusCode, string(body))
	}

	var parsed struct {
		Status  string `json:"status"`
		Results []struct {
			Geometry struct {
				Location struct {
					Lat float64 `json:"lat"`
					Lng float64 `json:"lng"`
				} `json:"location"`
			} `json:"geometry"`
		} `json:"results"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return casework.Coordinates{}, fmt.Errorf("geocode: decode response: %w", err)
	}
	if parsed.Status != "OK" || len(parsed.Results) == 0 {
		return casework.Coordinates{}, fmt.Errorf("geocode: no result for %q (status %s)", location, parsed.Status)
	}

	loc := parsed.Results[0].Geometry.Location
	return casework.Coordinates{Lat: loc.Lat, Lng: loc.Lng}, nil
}

// StaticMapURL renders a static map URL centered on the coordinates with
// a red marker.
func (g *Google) StaticMapURL(c casework.Coordinates) string {
	return staticMapURL(c, g.apiKey)
}

func staticMapURL(c casework.Coordinates, apiKey string) string {
	q := url.Values{}
	q.Set("center", fmt.Sprintf("%f,%f", c.Lat, c.Lng))
	q.Set("zoom", "14")
	q.Set("size", "600x300")
	q.Set("markers", fmt.Sprintf("color:red|%f,%f", c.Lat, c.Lng))
	if apiKey != "" {
		q.Set("key", apiKey)
	}
	return staticMapEndpoint + "?" + q.Encode()
}

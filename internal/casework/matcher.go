package casework

import (
	"context"
	"math"
	"strings"

	"github.com/linnemanlabs/go-core/log"

	"github.com/linnemanlabs/findtogether/internal/casefile"
)

// Reference terms the substring filter always matches against, standing
// in for a true geospatial query in the pilot deployment area.
var referenceTerms = []string{"delhi", "connaught"}

// Matcher selects volunteers relevant to a search location.
//
// Two modes: the default substring mode retains a volunteer when its
// address contains one of the reference terms or the target location
// (case-insensitive). When a radius is configured, volunteers carrying
// stored coordinates are instead retained by haversine distance to the
// geocoded target. A volunteer with an empty address never matches in
// either mode.
type Matcher struct {
	store    casefile.Store
	geocoder Geocoder
	radiusKm float64
	logger   log.Logger
}

// NewMatcher creates a volunteer matcher. radiusKm <= 0 selects
// substring mode.
func NewMatcher(store casefile.Store, geocoder Geocoder, radiusKm float64, logger log.Logger) *Matcher {
	if logger == nil {
		logger = log.Nop()
	}
	return &Matcher{store: store, geocoder: geocoder, radiusKm: radiusKm, logger: logger}
}

// Match loads the full volunteer set and returns the relevant ones in
// store order.
func (m *Matcher) Match(ctx context.Context, location string) ([]casefile.Volunteer, error) {
	volunteers, err := m.store.ListVolunteers(ctx)
	if err != nil {
		return nil, casefile.Wrap(casefile.KindPersistence, err, "list volunteers")
	}

	var target Coordinates
	useRadius := false
	if m.radiusKm > 0 && m.geocoder != nil {
		if c, err := m.geocoder.Resolve(ctx, location); err != nil {
			// Geocoding failure degrades to substring mode for this call.
			m.logger.Error(ctx, err, "geocode failed, falling back to substring match", "location", location)
		} else {
			target = c
			useRadius = true
		}
	}

	var matched []casefile.Volunteer
	for _, v := range volunteers {
		if v.LocationAddress == "" {
			continue
		}
		if useRadius && v.HasCoordinates() {
			if haversineKm(target, Coordinates{Lat: *v.LocationLat, Lng: *v.LocationLng}) <= m.radiusKm {
				matched = append(matched, v)
			}
			continue
		}
		if addressMatches(v.LocationAddress, location) {
			matched = append(matched, v)
		}
	}

	m.logger.Info(ctx, "volunteers matched",
		"location", location,
		"total", len(volunteers),
		"matched", len(matched),
		"radius_mode", useRadius,
	)
	return matched, nil
}

func addressMatches(address, location string) bool {
	addr := strings.ToLower(address)
	for _, term := range referenceTerms {
		if strings.Contains(addr, term) {
			return true
		}
	}
	loc := strings.ToLower(strings.TrimSpace(location))
	return loc != "" && strings.Contains(addr, loc)
}

const earthRadiusKm = 6371.0

// haversineKm returns the great-circle distance between two positions.
func haversineKm(a, b Coordinates) float64 {
	latA := a.Lat * math.Pi / 180
	latB := b.Lat * math.Pi / 180
	dLat := latB - latA
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(latA)*math.Cos(latB)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
}

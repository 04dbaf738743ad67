package casework

import (
	"context"
	"errors"
	"testing"

	"github.com/linnemanlabs/findtogether/internal/casefile"
)

func TestCreateSearchMap(t *testing.T) {
	t.Parallel()

	geo := &fakeGeocoder{coords: Coordinates{Lat: 28.6304, Lng: 77.2177}}
	s := NewSearchMap(geo)

	res, err := s.CreateSearchMap(context.Background(), "Connaught Place")
	if err != nil {
		t.Fatalf("CreateSearchMap: %v", err)
	}

	if res.Location != "Connaught Place" {
		t.Errorf("Location = %q, want echo of input", res.Location)
	}
	if res.Coordinates.Lat != 28.6304 || res.Coordinates.Lng != 77.2177 {
		t.Errorf("Coordinates = %+v, want geocoder result", res.Coordinates)
	}
	if res.MapURL == "" {
		t.Error("MapURL empty")
	}

	if len(res.SearchZones) != 2 {
		t.Fatalf("len(SearchZones) = %d, want 2", len(res.SearchZones))
	}
	inner, outer := res.SearchZones[0], res.SearchZones[1]
	if inner.Radius != "1km" || inner.Priority != "High" || inner.Description != "Immediate vicinity" {
		t.Errorf("inner zone = %+v", inner)
	}
	if outer.Radius != "5km" || outer.Priority != "Medium" || outer.Description != "Surrounding transport hubs" {
		t.Errorf("outer zone = %+v", outer)
	}
}

func TestCreateSearchMap_GeocodeFailure(t *testing.T) {
	t.Parallel()

	geo := &fakeGeocoder{err: errors.New("quota exceeded")}
	s := NewSearchMap(geo)

	_, err := s.CreateSearchMap(context.Background(), "Connaught Place")
	if !casefile.IsKind(err, casefile.KindExternal) {
		t.Fatalf("kind = %q (err=%v), want external", casefile.KindOf(err), err)
	}
}

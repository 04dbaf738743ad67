package casework

import (
	"context"
	"strings"

	"github.com/linnemanlabs/go-core/log"

	"github.com/linnemanlabs/findtogether/internal/casefile"
)

// LocationUpdate carries a volunteer location upsert.
type LocationUpdate struct {
	UserID  string   `json:"user_id"`
	Name    string   `json:"name,omitempty"`
	Phone   string   `json:"phone,omitempty"`
	Address string   `json:"address"`
	Lat     *float64 `json:"lat,omitempty"`
	Lng     *float64 `json:"lng,omitempty"`
}

// Volunteers maintains volunteer profiles.
type Volunteers struct {
	store    casefile.Store
	geocoder Geocoder
	logger   log.Logger
}

// NewVolunteers creates the volunteer profile workflow.
func NewVolunteers(store casefile.Store, geocoder Geocoder, logger log.Logger) *Volunteers {
	if logger == nil {
		logger = log.Nop()
	}
	return &Volunteers{store: store, geocoder: geocoder, logger: logger}
}

// UpdateLocation upserts the volunteer profile keyed by user ID. When no
// coordinates are supplied the address is geocoded; a geocoding failure
// stores the address without coordinates rather than failing the update.
func (vs *Volunteers) UpdateLocation(ctx context.Context, upd *LocationUpdate) (*casefile.Volunteer, error) {
	if strings.TrimSpace(upd.UserID) == "" {
		return nil, casefile.Errorf(casefile.KindValidation, "user id is required")
	}

	lat, lng := upd.Lat, upd.Lng
	if (lat == nil || lng == nil) && upd.Address != "" && vs.geocoder != nil {
		if c, err := vs.geocoder.Resolve(ctx, upd.Address); err != nil {
			vs.logger.Error(ctx, err, "geocode volunteer address failed", "user_id", upd.UserID)
			lat, lng = nil, nil
		} else {
			lat, lng = &c.Lat, &c.Lng
		}
	}

	v := &casefile.Volunteer{
		UserID:          upd.UserID,
		Name:            upd.Name,
		Phone:           upd.Phone,
		LocationAddress: upd.Address,
		LocationLat:     lat,
		LocationLng:     lng,
	}
	if err := vs.store.UpsertVolunteerLocation(ctx, v); err != nil {
		return nil, casefile.Wrap(casefile.KindPersistence, err, "upsert volunteer")
	}

	vs.logger.Info(ctx, "volunteer location updated",
		"user_id", upd.UserID,
		"has_coordinates", v.HasCoordinates(),
	)
	return v, nil
}

// Notifications returns the user's dispatch notifications newest first,
// each joined with its case and person.
func (vs *Volunteers) Notifications(ctx context.Context, userID string) ([]casefile.NotificationDetail, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, casefile.Errorf(casefile.KindValidation, "user id is required")
	}

	feed, err := vs.store.ListNotificationsByUser(ctx, userID)
	if err != nil {
		return nil, casefile.Wrap(casefile.KindPersistence, err, "list notifications")
	}
	return feed, nil
}

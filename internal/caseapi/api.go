// Package caseapi is the HTTP surface over the case workflows and the
// tool registry.
package caseapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/linnemanlabs/go-core/log"
	"github.com/linnemanlabs/go-core/xerrors"

	"github.com/linnemanlabs/findtogether/internal/casefile"
	"github.com/linnemanlabs/findtogether/internal/casework"
	"github.com/linnemanlabs/findtogether/internal/tools"
)

// IntakeService is the case intake operation caseapi needs.
type IntakeService interface {
	ReportMissingPerson(ctx context.Context, req *casework.ReportRequest) (int64, error)
}

// AlertService is the alert broadcast operation caseapi needs.
type AlertService interface {
	PostAlerts(ctx context.Context, caseID int64) (*casework.BroadcastResult, error)
}

// CoordinationService is the volunteer coordination operation caseapi needs.
type CoordinationService interface {
	CoordinateVolunteers(ctx context.Context, caseID int64, location string) (*casework.CoordinationResult, error)
}

// SearchMapService is the search-map operation caseapi needs.
type SearchMapService interface {
	CreateSearchMap(ctx context.Context, location string) (*casework.SearchMapResult, error)
}

// SightingService is the sighting intake operation caseapi needs.
type SightingService interface {
	ReportSighting(ctx context.Context, report *casework.SightingReport) (*casework.SightingResult, error)
}

// VolunteerService is the volunteer profile surface caseapi needs.
type VolunteerService interface {
	UpdateLocation(ctx context.Context, upd *casework.LocationUpdate) (*casefile.Volunteer, error)
	Notifications(ctx context.Context, userID string) ([]casefile.NotificationDetail, error)
}

// Services bundles the workflow dependencies for the API.
type Services struct {
	Store       casefile.Store
	Intake      IntakeService
	Alerts      AlertService
	Coordinator CoordinationService
	SearchMap   SearchMapService
	Sightings   SightingService
	Volunteers  VolunteerService
	Tools       *tools.Registry
}

// API holds dependencies for HTTP handlers.
type API struct {
	logger log.Logger
	svc    Services
}

// New creates a new API handler.
func New(logger log.Logger, svc Services) *API {
	if logger == nil {
		logger = log.Nop()
	}
	if svc.Store == nil {
		panic(xerrors.New("case store is required"))
	}
	return &API{logger: logger, svc: svc}
}

// RegisterRoutes attaches API endpoints to the router.
func (a *API) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/cases", a.handleReportCase)
		r.Get("/cases/{id}", a.handleGetCase)
		r.Post("/cases/{id}/alerts", a.handlePostAlerts)
		r.Post("/cases/{id}/coordinate", a.handleCoordinate)
		r.Get("/search-map", a.handleSearchMap)
		r.Post("/sightings", a.handleReportSighting)
		r.Put("/volunteers/location", a.handleVolunteerLocation)
		r.Get("/volunteers/notifications", a.handleVolunteerNotifications)
		r.Get("/tools", a.handleListTools)
		r.Post("/tools/{name}", a.handleInvokeTool)
	})
}

func (a *API) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError maps the domain error taxonomy onto HTTP statuses and emits
// a {"error", "kind"} body.
func (a *API) writeError(w http.ResponseWriter, r *http.Request, err error) {
	kind := casefile.KindOf(err)

	status := http.StatusInternalServerError
	switch kind {
	case casefile.KindValidation:
		status = http.StatusBadRequest
	case casefile.KindNotFound:
		status = http.StatusNotFound
	case casefile.KindExternal:
		status = http.StatusBadGateway
	}

	if status >= 500 {
		a.logger.Error(r.Context(), err, "request failed", "path", r.URL.Path)
	}

	a.writeJSON(w, status, map[string]string{
		"error": err.Error(),
		"kind":  string(kind),
	})
}

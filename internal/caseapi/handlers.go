package caseapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/go-chi/chi/v5"

	"github.com/linnemanlabs/findtogether/internal/casework"
)

func (a *API) handleReportCase(w http.ResponseWriter, r *http.Request) {
	var req casework.ReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid payload"}`, http.StatusBadRequest)
		return
	}

	caseID, err := a.svc.Intake.ReportMissingPerson(r.Context(), &req)
	if err != nil {
		a.writeError(w, r, err)
		return
	}

	span := trace.SpanFromContext(r.Context())
	span.SetAttributes(attribute.Int64("findtogether.case.id", caseID))

	a.writeJSON(w, http.StatusCreated, map[string]any{"case_id": caseID})
}

func (a *API) handleGetCase(w http.ResponseWriter, r *http.Request) {
	caseID, ok := a.caseIDParam(w, r)
	if !ok {
		return
	}

	detail, found, err := a.svc.Store.GetCaseDetail(r.Context(), caseID)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	if !found {
		http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
		return
	}

	a.writeJSON(w, http.StatusOK, detail)
}

func (a *API) handlePostAlerts(w http.ResponseWriter, r *http.Request) {
	caseID, ok := a.caseIDParam(w, r)
	if !ok {
		return
	}

	res, err := a.svc.Alerts.PostAlerts(r.Context(), caseID)
	if err != nil {
		a.writeError(w, r, err)
		return
	}

	a.writeJSON(w, http.StatusOK, res)
}

func (a *API) handleCoordinate(w http.ResponseWriter, r *http.Request) {
	caseID, ok := a.caseIDParam(w, r)
	if !ok {
		return
	}

	var body struct {
		Location string `json:"location"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, `{"error":"invalid payload"}`, http.StatusBadRequest)
		return
	}

	res, err := a.svc.Coordinator.CoordinateVolunteers(r.Context(), caseID, body.Location)
	if err != nil {
		a.writeError(w, r, err)
		return
	}

	a.writeJSON(w, http.StatusOK, res)
}

func (a *API) handleSearchMap(w http.ResponseWriter, r *http.Request) {
	location := r.URL.Query().Get("location")
	if location == "" {
		http.Error(w, `{"error":"location query parameter is required"}`, http.StatusBadRequest)
		return
	}

	res, err := a.svc.SearchMap.CreateSearchMap(r.Context(), location)
	if err != nil {
		a.writeError(w, r, err)
		return
	}

	a.writeJSON(w, http.StatusOK, res)
}

func (a *API) handleReportSighting(w http.ResponseWriter, r *http.Request) {
	var report casework.SightingReport
	if err := json.NewDecoder(r.Body).Decode(&report); err != nil {
		http.Error(w, `{"error":"invalid payload"}`, http.StatusBadRequest)
		return
	}

	res, err := a.svc.Sightings.ReportSighting(r.Context(), &report)
	if err != nil {
		a.writeError(w, r, err)
		return
	}

	a.writeJSON(w, http.StatusCreated, res)
}

func (a *API) handleVolunteerLocation(w http.ResponseWriter, r *http.Request) {
	var upd casework.LocationUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		http.Error(w, `{"error":"invalid payload"}`, http.StatusBadRequest)
		return
	}

	v, err := a.svc.Volunteers.UpdateLocation(r.Context(), &upd)
	if err != nil {
		a.writeError(w, r, err)
		return
	}

	a.writeJSON(w, http.StatusOK, v)
}

func (a *API) handleVolunteerNotifications(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		http.Error(w, `{"error":"user_id query parameter is required"}`, http.StatusBadRequest)
		return
	}

	feed, err := a.svc.Volunteers.Notifications(r.Context(), userID)
	if err != nil {
		a.writeError(w, r, err)
		return
	}

	a.writeJSON(w, http.StatusOK, map[string]any{"notifications": feed})
}

func (a *API) handleListTools(w http.ResponseWriter, r *http.Request) {
	a.writeJSON(w, http.StatusOK, map[string]any{"tools": a.svc.Tools.ToToolDefs()})
}

func (a *API) handleInvokeTool(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	tool, ok := a.svc.Tools.Get(name)
	if !ok {
		http.Error(w, `{"error":"unknown tool"}`, http.StatusNotFound)
		return
	}

	span := trace.SpanFromContext(r.Context())
	span.SetAttributes(attribute.String("findtogether.tool.name", name))

	var params json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		http.Error(w, `{"error":"invalid payload"}`, http.StatusBadRequest)
		return
	}

	out, err := tool.Execute(r.Context(), params)
	if err != nil {
		a.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}

// caseIDParam parses the {id} route parameter, writing a 400 on failure.
func (a *API) caseIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, `{"error":"invalid case id"}`, http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"slgps/internal/db"
	"slgps/internal/models"
)

// AlertHandler handles alert list and status-transition requests
type AlertHandler struct {
	DB *sql.DB
}

// NewAlertHandler creates a new alert handler
func NewAlertHandler(database *sql.DB) *AlertHandler {
	return &AlertHandler{DB: database}
}

// List handles GET /api/alerts
// Query params: bus_id, status, severity, since, limit
func (h *AlertHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := db.AlertFilter{
		Status:   r.URL.Query().Get("status"),
		Severity: r.URL.Query().Get("severity"),
		Limit:    100,
	}

	if busID := r.URL.Query().Get("bus_id"); busID != "" {
		if id, err := strconv.ParseInt(busID, 10, 64); err == nil {
			filter.BusID = id
		}
	}
	if since := r.URL.Query().Get("since"); since != "" {
		if t, err := time.Parse(time.RFC3339, since); err == nil {
			filter.Since = t
		}
	}
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 500 {
			filter.Limit = l
		}
	}

	alerts, err := db.ListAlerts(h.DB, filter)
	if err != nil {
		JSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	JSONData(w, alerts)
}

// UpdateStatus handles PUT /api/alerts/{id}. The only accepted mutation
// is the Active -> Resolved transition.
func (h *AlertHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := PathID(w, r)
	if !ok {
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		JSONError(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if req.Status != models.AlertResolved {
		errs := FieldErrors{}
		errs.Add("status", "The selected status is invalid.")
		errs.Respond(w)
		return
	}

	alert, err := db.GetAlert(h.DB, id)
	if err != nil {
		JSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if alert == nil {
		JSONError(w, "alert not found", http.StatusNotFound)
		return
	}

	resolved, err := db.ResolveAlert(h.DB, id)
	if err != nil {
		JSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if !resolved {
		JSONError(w, "alert already resolved", http.StatusConflict)
		return
	}

	alert.Status = models.AlertResolved
	JSONData(w, alert)
}

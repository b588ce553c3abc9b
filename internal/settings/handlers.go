package settings

import (
	"database/sql"
	"encoding/json"
	"net/http"

	"slgps/internal/handlers"
)

// Handler handles settings API requests
type Handler struct {
	DB *sql.DB
}

// NewHandler creates a new settings handler
func NewHandler(database *sql.DB) *Handler {
	return &Handler{DB: database}
}

type dashboardRequest struct {
	DarkMode      *bool `json:"dark_mode"`
	Notifications *bool `json:"notifications"`
	RefreshRate   *int  `json:"refresh_rate"`
}

// Get handles GET /api/settings
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	handlers.JSONData(w, GetDashboard(h.DB))
}

// Update handles PUT /api/settings
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req dashboardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.JSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	fe := handlers.FieldErrors{}
	if req.RefreshRate != nil && (*req.RefreshRate < 5 || *req.RefreshRate > 3600) {
		fe.Add("refresh_rate", "must be between 5 and 3600 seconds")
	}
	if len(fe) > 0 {
		fe.Respond(w)
		return
	}

	// Absent fields keep their stored values.
	current := GetDashboard(h.DB)
	if req.DarkMode != nil {
		current.DarkMode = *req.DarkMode
	}
	if req.Notifications != nil {
		current.Notifications = *req.Notifications
	}
	if req.RefreshRate != nil {
		current.RefreshRate = *req.RefreshRate
	}

	if err := SaveDashboard(h.DB, current); err != nil {
		handlers.JSONError(w, "failed to save settings", http.StatusInternalServerError)
		return
	}

	handlers.JSONData(w, GetDashboard(h.DB))
}

// ResetAll handles POST /api/settings/reset
func (h *Handler) ResetAll(w http.ResponseWriter, r *http.Request) {
	if err := ResetAllToDefaults(h.DB); err != nil {
		handlers.JSONError(w, "failed to reset settings", http.StatusInternalServerError)
		return
	}
	handlers.JSONData(w, GetDashboard(h.DB))
}

package handlers

import (
	"database/sql"
	"net/http"

	"slgps/internal/db"
)

// LocationHandler serves the latest GPS fix per bus
type LocationHandler struct {
	DB *sql.DB
}

// NewLocationHandler creates a new location handler
func NewLocationHandler(database *sql.DB) *LocationHandler {
	return &LocationHandler{DB: database}
}

// Latest handles GET /api/location/latest
func (h *LocationHandler) Latest(w http.ResponseWriter, r *http.Request) {
	locations, err := db.LatestLocations(h.DB)
	if err != nil {
		JSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	JSONData(w, locations)
}

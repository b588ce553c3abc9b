package handlers

import (
	"database/sql"
	"net/http"

	"slgps/internal/db"
)

// DashboardHandler serves the stat-card summary
type DashboardHandler struct {
	DB *sql.DB
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(database *sql.DB) *DashboardHandler {
	return &DashboardHandler{DB: database}
}

// Summary handles GET /api/dashboard
func (h *DashboardHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := db.DashboardSummary(h.DB)
	if err != nil {
		JSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	JSONData(w, summary)
}

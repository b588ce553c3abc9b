package handlers

import (
	"database/sql"
	"net/http"

	"slgps/internal/db"
)

// ReportHandler serves read-only performance reports
type ReportHandler struct {
	DB *sql.DB
}

// NewReportHandler creates a new report handler
func NewReportHandler(database *sql.DB) *ReportHandler {
	return &ReportHandler{DB: database}
}

// List handles GET /api/performance-reports
func (h *ReportHandler) List(w http.ResponseWriter, r *http.Request) {
	reports, err := db.ListPerformanceReports(h.DB)
	if err != nil {
		JSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	JSONData(w, reports)
}

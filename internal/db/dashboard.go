package db

import (
	"database/sql"

	"slgps/internal/models"
)

// DashboardSummary computes the stat-card counts in one round trip each.
func DashboardSummary(db *sql.DB) (models.DashboardSummary, error) {
	var s models.DashboardSummary

	if err := db.QueryRow("SELECT COUNT(*) FROM buses").Scan(&s.TotalBuses); err != nil {
		return s, err
	}
	if err := db.QueryRow("SELECT COUNT(*) FROM buses WHERE gps_status = ?", models.GPSOnline).Scan(&s.OnlineBuses); err != nil {
		return s, err
	}
	var err error
	if s.ActiveAlerts, err = CountActiveAlerts(db); err != nil {
		return s, err
	}
	if err := db.QueryRow("SELECT COUNT(*) FROM drivers").Scan(&s.TotalDrivers); err != nil {
		return s, err
	}
	return s, nil
}

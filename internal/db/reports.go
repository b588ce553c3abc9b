package db

import (
	"database/sql"

	"slgps/internal/models"
)

// ListPerformanceReports returns reports newest date first.
func ListPerformanceReports(db *sql.DB) ([]models.PerformanceReport, error) {
	rows, err := db.Query(`
		SELECT r.id, r.report_date, r.average_speed, r.stops_missed, r.alerts_raised, r.uptime_percent,
		       b.id, b.plate_number
		FROM performance_reports r
		JOIN buses b ON r.bus_id = b.id
		ORDER BY r.report_date DESC, b.plate_number`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reports := make([]models.PerformanceReport, 0)
	for rows.Next() {
		var r models.PerformanceReport
		if err := rows.Scan(&r.ID, &r.ReportDate, &r.AverageSpeed, &r.StopsMissed,
			&r.AlertsRaised, &r.UptimePercent, &r.Bus.ID, &r.Bus.PlateNumber); err != nil {
			return nil, err
		}
		reports = append(reports, r)
	}
	return reports, rows.Err()
}

// UpsertPerformanceReport writes one bus/date report, replacing any
// previous row for the same pair.
func UpsertPerformanceReport(db *sql.DB, busID int64, r models.PerformanceReport) error {
	_, err := db.Exec(`
		INSERT INTO performance_reports (bus_id, report_date, average_speed, stops_missed, alerts_raised, uptime_percent)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(bus_id, report_date) DO UPDATE SET
			average_speed = excluded.average_speed,
			stops_missed = excluded.stops_missed,
			alerts_raised = excluded.alerts_raised,
			uptime_percent = excluded.uptime_percent`,
		busID, r.ReportDate, r.AverageSpeed, r.StopsMissed, r.AlertsRaised, r.UptimePercent,
	)
	return err
}

package db

import (
	"database/sql"
	"time"

	"slgps/internal/models"
)

// AlertFilter narrows ListAlerts results.
type AlertFilter struct {
	BusID    int64
	Status   string
	Severity string
	Since    time.Time
	Limit    int
}

// ListAlerts returns alerts newest first with their bus summary embedded.
func ListAlerts(db *sql.DB, filter AlertFilter) ([]models.Alert, error) {
	query := `
		SELECT a.id, a.type, a.severity, a.status, a.created_at, b.id, b.plate_number
		FROM alerts a
		JOIN buses b ON a.bus_id = b.id
		WHERE 1=1`
	args := []interface{}{}

	if filter.BusID != 0 {
		query += " AND a.bus_id = ?"
		args = append(args, filter.BusID)
	}
	if filter.Status != "" {
		query += " AND a.status = ?"
		args = append(args, filter.Status)
	}
	if filter.Severity != "" {
		query += " AND a.severity = ?"
		args = append(args, filter.Severity)
	}
	if !filter.Since.IsZero() {
		query += " AND a.created_at >= ?"
		args = append(args, TimeString(filter.Since))
	}

	query += " ORDER BY a.created_at DESC, a.id DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	alerts := make([]models.Alert, 0)
	for rows.Next() {
		var a models.Alert
		var createdAt sql.NullString
		if err := rows.Scan(&a.ID, &a.Type, &a.Severity, &a.Status, &createdAt, &a.Bus.ID, &a.Bus.PlateNumber); err != nil {
			return nil, err
		}
		a.Timestamp = ParseNullTime(createdAt)
		alerts = append(alerts, a)
	}
	return alerts, rows.Err()
}

// GetAlert returns one alert, or nil when it does not exist.
func GetAlert(db *sql.DB, id int64) (*models.Alert, error) {
	var a models.Alert
	var createdAt sql.NullString
	err := db.QueryRow(`
		SELECT a.id, a.type, a.severity, a.status, a.created_at, b.id, b.plate_number
		FROM alerts a
		JOIN buses b ON a.bus_id = b.id
		WHERE a.id = ?`, id,
	).Scan(&a.ID, &a.Type, &a.Severity, &a.Status, &createdAt, &a.Bus.ID, &a.Bus.PlateNumber)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	a.Timestamp = ParseNullTime(createdAt)
	return &a, nil
}

// CreateAlert inserts an alert and returns its assigned ID.
func CreateAlert(db *sql.DB, busID int64, alertType, severity string) (int64, error) {
	res, err := db.Exec(
		"INSERT INTO alerts (type, severity, status, bus_id, created_at) VALUES (?, ?, ?, ?, ?)",
		alertType, severity, models.AlertActive, busID, NowString(),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// HasActiveAlert reports whether the bus already has an unresolved alert
// of the given type. Used by ingest rules to avoid duplicates.
func HasActiveAlert(db *sql.DB, busID int64, alertType string) (bool, error) {
	return Exists(db, "SELECT 1 FROM alerts WHERE bus_id = ? AND type = ? AND status = ?",
		busID, alertType, models.AlertActive)
}

// ResolveAlert flips an Active alert to Resolved. Returns false when the
// alert is missing or already resolved.
func ResolveAlert(db *sql.DB, id int64) (bool, error) {
	res, err := db.Exec(
		"UPDATE alerts SET status = ? WHERE id = ? AND status = ?",
		models.AlertResolved, id, models.AlertActive,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// CountActiveAlerts returns the number of unresolved alerts.
func CountActiveAlerts(db *sql.DB) (int, error) {
	var n int
	err := db.QueryRow("SELECT COUNT(*) FROM alerts WHERE status = ?", models.AlertActive).Scan(&n)
	return n, err
}

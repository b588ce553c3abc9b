package db

import (
	"database/sql"
	"time"

	"slgps/internal/models"
)

// UpsertLocation stores the latest fix for a bus, replacing the previous
// one. Only the most recent position per bus is kept.
func UpsertLocation(db *sql.DB, busID int64, lat, lon, speed float64, at time.Time) error {
	_, err := db.Exec(`
		INSERT INTO locations (bus_id, latitude, longitude, speed, reported_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(bus_id) DO UPDATE SET
			latitude = excluded.latitude,
			longitude = excluded.longitude,
			speed = excluded.speed,
			reported_at = excluded.reported_at`,
		busID, lat, lon, speed, TimeString(at),
	)
	return err
}

// LatestLocations returns the most recent fix for every bus that has one.
func LatestLocations(db *sql.DB) ([]models.LiveLocation, error) {
	rows, err := db.Query(`
		SELECT l.bus_id, b.plate_number, l.latitude, l.longitude, l.speed, l.reported_at
		FROM locations l
		JOIN buses b ON l.bus_id = b.id
		ORDER BY b.plate_number`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	locations := make([]models.LiveLocation, 0)
	for rows.Next() {
		var loc models.LiveLocation
		var reportedAt sql.NullString
		if err := rows.Scan(&loc.BusID, &loc.PlateNumber, &loc.Latitude, &loc.Longitude, &loc.Speed, &reportedAt); err != nil {
			return nil, err
		}
		loc.Timestamp = ParseNullTime(reportedAt)
		locations = append(locations, loc)
	}
	return locations, rows.Err()
}

// StaleBuses returns buses currently marked Online whose latest fix is
// older than the cutoff, plus Online buses with no fix at all.
func StaleBuses(db *sql.DB, cutoff time.Time) ([]models.BusSummary, error) {
	rows, err := db.Query(`
		SELECT b.id, b.plate_number FROM buses b
		LEFT JOIN locations l ON l.bus_id = b.id
		WHERE b.gps_status = ? AND (l.bus_id IS NULL OR l.reported_at < ?)`,
		models.GPSOnline, TimeString(cutoff))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	buses := make([]models.BusSummary, 0)
	for rows.Next() {
		var b models.BusSummary
		if err := rows.Scan(&b.ID, &b.PlateNumber); err != nil {
			return nil, err
		}
		buses = append(buses, b)
	}
	return buses, rows.Err()
}

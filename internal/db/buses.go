package db

import (
	"database/sql"

	"slgps/internal/models"
)

// ListBuses returns every bus ordered by plate number.
func ListBuses(db *sql.DB) ([]models.Bus, error) {
	rows, err := db.Query("SELECT id, plate_number, model, status, gps_status FROM buses ORDER BY plate_number")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	buses := make([]models.Bus, 0)
	for rows.Next() {
		var b models.Bus
		if err := rows.Scan(&b.ID, &b.PlateNumber, &b.Model, &b.Status, &b.GPSStatus); err != nil {
			return nil, err
		}
		buses = append(buses, b)
	}
	return buses, rows.Err()
}

// GetBus returns one bus, or nil when it does not exist.
func GetBus(db *sql.DB, id int64) (*models.Bus, error) {
	var b models.Bus
	err := db.QueryRow(
		"SELECT id, plate_number, model, status, gps_status FROM buses WHERE id = ?", id,
	).Scan(&b.ID, &b.PlateNumber, &b.Model, &b.Status, &b.GPSStatus)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// GetBusByPlate returns one bus by plate number, or nil when unknown.
func GetBusByPlate(db *sql.DB, plate string) (*models.Bus, error) {
	var b models.Bus
	err := db.QueryRow(
		"SELECT id, plate_number, model, status, gps_status FROM buses WHERE plate_number = ?", plate,
	).Scan(&b.ID, &b.PlateNumber, &b.Model, &b.Status, &b.GPSStatus)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// CreateBus inserts a bus and returns it with its assigned ID.
func CreateBus(db *sql.DB, b models.Bus) (models.Bus, error) {
	res, err := db.Exec(
		"INSERT INTO buses (plate_number, model, status, gps_status) VALUES (?, ?, ?, ?)",
		b.PlateNumber, b.Model, b.Status, b.GPSStatus,
	)
	if err != nil {
		return models.Bus{}, err
	}
	b.ID, err = res.LastInsertId()
	return b, err
}

// UpdateBus overwrites an existing bus.
func UpdateBus(db *sql.DB, b models.Bus) error {
	_, err := db.Exec(
		"UPDATE buses SET plate_number = ?, model = ?, status = ?, gps_status = ? WHERE id = ?",
		b.PlateNumber, b.Model, b.Status, b.GPSStatus, b.ID,
	)
	return err
}

// SetBusGPSStatus updates only the GPS status column.
func SetBusGPSStatus(db *sql.DB, id int64, gpsStatus string) error {
	_, err := db.Exec("UPDATE buses SET gps_status = ? WHERE id = ?", gpsStatus, id)
	return err
}

// DeleteBus removes a bus. Alerts, schedules and locations referencing it
// cascade; assigned drivers are unassigned.
func DeleteBus(db *sql.DB, id int64) error {
	_, err := db.Exec("DELETE FROM buses WHERE id = ?", id)
	return err
}

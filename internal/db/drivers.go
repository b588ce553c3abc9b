package db

import (
	"database/sql"

	"slgps/internal/models"
)

// ListDrivers returns every driver ordered by name.
func ListDrivers(db *sql.DB) ([]models.Driver, error) {
	rows, err := db.Query("SELECT id, name, email, phone, assigned_bus_id FROM drivers ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	drivers := make([]models.Driver, 0)
	for rows.Next() {
		var d models.Driver
		var busID sql.NullInt64
		if err := rows.Scan(&d.ID, &d.Name, &d.Email, &d.Phone, &busID); err != nil {
			return nil, err
		}
		if busID.Valid {
			d.AssignedBusID = &busID.Int64
		}
		drivers = append(drivers, d)
	}
	return drivers, rows.Err()
}

// GetDriver returns one driver, or nil when it does not exist.
func GetDriver(db *sql.DB, id int64) (*models.Driver, error) {
	var d models.Driver
	var busID sql.NullInt64
	err := db.QueryRow(
		"SELECT id, name, email, phone, assigned_bus_id FROM drivers WHERE id = ?", id,
	).Scan(&d.ID, &d.Name, &d.Email, &d.Phone, &busID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if busID.Valid {
		d.AssignedBusID = &busID.Int64
	}
	return &d, nil
}

// CreateDriver inserts a driver and returns it with its assigned ID.
func CreateDriver(db *sql.DB, d models.Driver) (models.Driver, error) {
	res, err := db.Exec(
		"INSERT INTO drivers (name, email, phone, assigned_bus_id) VALUES (?, ?, ?, ?)",
		d.Name, d.Email, d.Phone, nullableID(d.AssignedBusID),
	)
	if err != nil {
		return models.Driver{}, err
	}
	d.ID, err = res.LastInsertId()
	return d, err
}

// UpdateDriver overwrites an existing driver.
func UpdateDriver(db *sql.DB, d models.Driver) error {
	_, err := db.Exec(
		"UPDATE drivers SET name = ?, email = ?, phone = ?, assigned_bus_id = ? WHERE id = ?",
		d.Name, d.Email, d.Phone, nullableID(d.AssignedBusID), d.ID,
	)
	return err
}

// DeleteDriver removes a driver; their schedules cascade.
func DeleteDriver(db *sql.DB, id int64) error {
	_, err := db.Exec("DELETE FROM drivers WHERE id = ?", id)
	return err
}

func nullableID(id *int64) interface{} {
	if id == nil {
		return nil
	}
	return *id
}

package db

import (
	"database/sql"

	"slgps/internal/models"
)

const scheduleSelect = `
	SELECT s.id, s.day, s.route, s.departure_time, s.arrival_time,
	       b.id, b.plate_number, d.id, d.name
	FROM schedules s
	JOIN buses b ON s.bus_id = b.id
	JOIN drivers d ON s.driver_id = d.id`

// ListSchedules returns every schedule ordered for day-grouped display.
func ListSchedules(db *sql.DB) ([]models.Schedule, error) {
	rows, err := db.Query(scheduleSelect + `
		ORDER BY CASE s.day
			WHEN 'Mon' THEN 1 WHEN 'Tue' THEN 2 WHEN 'Wed' THEN 3 WHEN 'Thu' THEN 4
			WHEN 'Fri' THEN 5 WHEN 'Sat' THEN 6 WHEN 'Sun' THEN 7 ELSE 8
		END, s.departure_time`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	schedules := make([]models.Schedule, 0)
	for rows.Next() {
		var s models.Schedule
		if err := rows.Scan(&s.ID, &s.Day, &s.Route, &s.DepartureTime, &s.ArrivalTime,
			&s.Bus.ID, &s.Bus.PlateNumber, &s.Driver.ID, &s.Driver.Name); err != nil {
			return nil, err
		}
		schedules = append(schedules, s)
	}
	return schedules, rows.Err()
}

// GetSchedule returns one schedule, or nil when it does not exist.
func GetSchedule(db *sql.DB, id int64) (*models.Schedule, error) {
	var s models.Schedule
	err := db.QueryRow(scheduleSelect+" WHERE s.id = ?", id).Scan(
		&s.ID, &s.Day, &s.Route, &s.DepartureTime, &s.ArrivalTime,
		&s.Bus.ID, &s.Bus.PlateNumber, &s.Driver.ID, &s.Driver.Name)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// CreateSchedule inserts a schedule and returns its assigned ID.
func CreateSchedule(db *sql.DB, day, route string, busID, driverID int64, departure, arrival string) (int64, error) {
	res, err := db.Exec(
		"INSERT INTO schedules (day, route, bus_id, driver_id, departure_time, arrival_time) VALUES (?, ?, ?, ?, ?, ?)",
		day, route, busID, driverID, departure, arrival,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// UpdateSchedule overwrites an existing schedule.
func UpdateSchedule(db *sql.DB, id int64, day, route string, busID, driverID int64, departure, arrival string) error {
	_, err := db.Exec(
		"UPDATE schedules SET day = ?, route = ?, bus_id = ?, driver_id = ?, departure_time = ?, arrival_time = ? WHERE id = ?",
		day, route, busID, driverID, departure, arrival, id,
	)
	return err
}

// DeleteSchedule removes a schedule.
func DeleteSchedule(db *sql.DB, id int64) error {
	_, err := db.Exec("DELETE FROM schedules WHERE id = ?", id)
	return err
}

// ScheduleOptions pairs each active bus with no trip on a day with a
// driver who is also free that day. At most one suggestion per bus per
// day, greedy over drivers ordered by name.
func ScheduleOptions(db *sql.DB) ([]models.ScheduleOption, error) {
	options := make([]models.ScheduleOption, 0)

	for _, day := range models.Weekdays {
		buses, err := idleBuses(db, day)
		if err != nil {
			return nil, err
		}
		drivers, err := freeDrivers(db, day)
		if err != nil {
			return nil, err
		}

		for i, bus := range buses {
			if i >= len(drivers) {
				break
			}
			options = append(options, models.ScheduleOption{
				Day:    day,
				Bus:    bus,
				Driver: drivers[i],
				Reason: "bus idle on " + day,
			})
		}
	}
	return options, nil
}

func idleBuses(db *sql.DB, day string) ([]models.BusSummary, error) {
	rows, err := db.Query(`
		SELECT b.id, b.plate_number FROM buses b
		WHERE b.status = ?
		  AND NOT EXISTS (SELECT 1 FROM schedules s WHERE s.bus_id = b.id AND s.day = ?)
		ORDER BY b.plate_number`, models.BusActive, day)
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

func freeDrivers(db *sql.DB, day string) ([]models.DriverSummary, error) {
	rows, err := db.Query(`
		SELECT d.id, d.name FROM drivers d
		WHERE NOT EXISTS (SELECT 1 FROM schedules s WHERE s.driver_id = d.id AND s.day = ?)
		ORDER BY d.name`, day)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	drivers := make([]models.DriverSummary, 0)
	for rows.Next() {
		var d models.DriverSummary
		if err := rows.Scan(&d.ID, &d.Name); err != nil {
			return nil, err
		}
		drivers = append(drivers, d)
	}
	return drivers, rows.Err()
}

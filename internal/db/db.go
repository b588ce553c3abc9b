package db

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

var DB *sql.DB

// Init initializes the database connection and schema
func Init(path string) error {
	var err error

	if err = ensureDirectory(path); err != nil {
		return err
	}

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", path)
	DB, err = sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("failed to open database at %s: %w", path, err)
	}

	if err = DB.Ping(); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	enableWAL()
	return CreateSchema(DB)
}

func ensureDirectory(path string) error {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create database directory %s: %w", dir, err)
		}
	}
	return nil
}

func enableWAL() {
	if _, err := DB.Exec("PRAGMA journal_mode=WAL"); err != nil {
		log.Printf("⚠️  Could not enable WAL mode: %v", err)
	}
}

// CreateSchema creates all fleet tables. Exported so tests can build an
// in-memory database with the same schema.
func CreateSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS buses (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		plate_number TEXT UNIQUE NOT NULL,
		model TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'Active',
		gps_status TEXT NOT NULL DEFAULT 'Offline'
	);

	CREATE TABLE IF NOT EXISTS drivers (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		email TEXT NOT NULL,
		phone TEXT NOT NULL DEFAULT '',
		assigned_bus_id INTEGER REFERENCES buses(id) ON DELETE SET NULL
	);
	CREATE INDEX IF NOT EXISTS idx_drivers_bus ON drivers(assigned_bus_id);

	CREATE TABLE IF NOT EXISTS admin_users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		email TEXT UNIQUE NOT NULL,
		role TEXT NOT NULL DEFAULT 'User',
		status TEXT NOT NULL DEFAULT 'Active',
		password_hash TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS sessions (
		token TEXT PRIMARY KEY,
		user_id INTEGER NOT NULL,
		expires_at DATETIME NOT NULL,
		FOREIGN KEY (user_id) REFERENCES admin_users(id) ON DELETE CASCADE
	);
	CREATE INDEX IF NOT EXISTS idx_sessions_expires ON sessions(expires_at);

	CREATE TABLE IF NOT EXISTS alerts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		type TEXT NOT NULL,
		severity TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'Active',
		bus_id INTEGER NOT NULL REFERENCES buses(id) ON DELETE CASCADE,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_alerts_status ON alerts(status);
	CREATE INDEX IF NOT EXISTS idx_alerts_bus ON alerts(bus_id);

	CREATE TABLE IF NOT EXISTS schedules (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		day TEXT NOT NULL,
		route TEXT NOT NULL,
		bus_id INTEGER NOT NULL REFERENCES buses(id) ON DELETE CASCADE,
		driver_id INTEGER NOT NULL REFERENCES drivers(id) ON DELETE CASCADE,
		departure_time TEXT NOT NULL,
		arrival_time TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_schedules_day ON schedules(day);

	CREATE TABLE IF NOT EXISTS performance_reports (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		bus_id INTEGER NOT NULL REFERENCES buses(id) ON DELETE CASCADE,
		report_date TEXT NOT NULL,
		average_speed REAL NOT NULL DEFAULT 0,
		stops_missed INTEGER NOT NULL DEFAULT 0,
		alerts_raised INTEGER NOT NULL DEFAULT 0,
		uptime_percent REAL NOT NULL DEFAULT 0,
		UNIQUE(bus_id, report_date)
	);

	CREATE TABLE IF NOT EXISTS locations (
		bus_id INTEGER PRIMARY KEY REFERENCES buses(id) ON DELETE CASCADE,
		latitude REAL NOT NULL,
		longitude REAL NOT NULL,
		speed REAL NOT NULL DEFAULT 0,
		reported_at DATETIME NOT NULL
	);
	`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}
	return nil
}

package db

import (
	"database/sql"
	"time"
)

// ─── Time Helpers ────────────────────────────────────────────────────────────

const timeFormat = "2006-01-02 15:04:05"

// ParseNullTime parses a nullable time string from SQLite
func ParseNullTime(ns sql.NullString) time.Time {
	if !ns.Valid || ns.String == "" {
		return time.Time{}
	}
	t, _ := time.Parse(timeFormat, ns.String)
	return t
}

// TimeString converts a time to string, using current time if zero
func TimeString(t time.Time) string {
	if t.IsZero() {
		t = time.Now()
	}
	return t.UTC().Format(timeFormat)
}

// NowString returns current time as formatted string
func NowString() string {
	return time.Now().UTC().Format(timeFormat)
}

// ─── Query Helpers ───────────────────────────────────────────────────────────

// Exists checks if a record exists
func Exists(db *sql.DB, query string, args ...interface{}) (bool, error) {
	var exists int
	err := db.QueryRow(query, args...).Scan(&exists)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return exists > 0, nil
}

package notify

import (
	"database/sql"
	"fmt"
	"time"
)

const timeFormat = "2006-01-02 15:04:05"

// InitTables creates the notification tables if they do not exist.
func InitTables(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS notification_channels (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		service_type TEXT NOT NULL,
		config_json TEXT NOT NULL DEFAULT '{}',
		enabled INTEGER NOT NULL DEFAULT 1,
		notify_on_critical INTEGER NOT NULL DEFAULT 1,
		notify_on_warning INTEGER NOT NULL DEFAULT 0,
		notify_on_info INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS notification_rules (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		channel_id INTEGER NOT NULL REFERENCES notification_channels(id) ON DELETE CASCADE,
		event_type TEXT NOT NULL,
		enabled INTEGER NOT NULL DEFAULT 1,
		cooldown_secs INTEGER NOT NULL DEFAULT 0,
		UNIQUE(channel_id, event_type)
	);

	CREATE TABLE IF NOT EXISTS notification_history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		channel_id INTEGER NOT NULL,
		event_type TEXT NOT NULL,
		plate_number TEXT NOT NULL DEFAULT '',
		message TEXT NOT NULL,
		status TEXT NOT NULL,
		error_message TEXT NOT NULL DEFAULT '',
		sent_at DATETIME,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("create notification tables: %w", err)
	}
	return nil
}

// ── Channel CRUD ────────────────────────────────────────────────────────

// CreateChannel inserts a new notification destination.
func CreateChannel(db *sql.DB, ch *Channel) (int64, error) {
	res, err := db.Exec(`
		INSERT INTO notification_channels
			(name, service_type, config_json, enabled,
			 notify_on_critical, notify_on_warning, notify_on_info)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		ch.Name, ch.ServiceType, ch.ConfigJSON,
		boolInt(ch.Enabled), boolInt(ch.NotifyOnCritical),
		boolInt(ch.NotifyOnWarning), boolInt(ch.NotifyOnInfo))
	if err != nil {
		return 0, fmt.Errorf("create notification channel: %w", err)
	}
	return res.LastInsertId()
}

// ListEnabledChannels returns only enabled channels.
func ListEnabledChannels(db *sql.DB) ([]Channel, error) {
	rows, err := db.Query(`
		SELECT id, name, service_type, config_json, enabled,
		       notify_on_critical, notify_on_warning, notify_on_info, created_at
		FROM notification_channels WHERE enabled = 1 ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list enabled channels: %w", err)
	}
	defer rows.Close()

	var out []Channel
	for rows.Next() {
		var ch Channel
		var enabled, onCritical, onWarning, onInfo int
		var createdAt sql.NullString
		if err := rows.Scan(&ch.ID, &ch.Name, &ch.ServiceType, &ch.ConfigJSON,
			&enabled, &onCritical, &onWarning, &onInfo, &createdAt); err != nil {
			return nil, err
		}
		ch.Enabled = enabled == 1
		ch.NotifyOnCritical = onCritical == 1
		ch.NotifyOnWarning = onWarning == 1
		ch.NotifyOnInfo = onInfo == 1
		ch.CreatedAt = parseTime(createdAt.String)
		out = append(out, ch)
	}
	return out, rows.Err()
}

// DeleteChannel removes a channel; its rules cascade.
func DeleteChannel(db *sql.DB, id int64) error {
	_, err := db.Exec(`DELETE FROM notification_channels WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete notification channel: %w", err)
	}
	return nil
}

// ── EventRule CRUD ──────────────────────────────────────────────────────

// UpsertEventRule creates or updates a per-event-type rule for a channel.
func UpsertEventRule(db *sql.DB, rule *EventRule) error {
	_, err := db.Exec(`
		INSERT INTO notification_rules (channel_id, event_type, enabled, cooldown_secs)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(channel_id, event_type) DO UPDATE SET
			enabled = excluded.enabled,
			cooldown_secs = excluded.cooldown_secs`,
		rule.ChannelID, rule.EventType, boolInt(rule.Enabled), rule.Cooldown)
	if err != nil {
		return fmt.Errorf("upsert event rule: %w", err)
	}
	return nil
}

// GetEventRules returns all rules for a channel.
func GetEventRules(db *sql.DB, channelID int64) ([]EventRule, error) {
	rows, err := db.Query(`
		SELECT id, channel_id, event_type, enabled, cooldown_secs
		FROM notification_rules WHERE channel_id = ?`, channelID)
	if err != nil {
		return nil, fmt.Errorf("get event rules: %w", err)
	}
	defer rows.Close()

	var out []EventRule
	for rows.Next() {
		var r EventRule
		var enabled int
		if err := rows.Scan(&r.ID, &r.ChannelID, &r.EventType, &enabled, &r.Cooldown); err != nil {
			return nil, err
		}
		r.Enabled = enabled == 1
		out = append(out, r)
	}
	return out, rows.Err()
}

// ── History ─────────────────────────────────────────────────────────────

// RecordDispatch stores one dispatch attempt.
func RecordDispatch(db *sql.DB, rec *Record) (int64, error) {
	var sentAt interface{}
	if !rec.SentAt.IsZero() {
		sentAt = rec.SentAt.UTC().Format(timeFormat)
	}
	res, err := db.Exec(`
		INSERT INTO notification_history
			(channel_id, event_type, plate_number, message, status, error_message, sent_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ChannelID, rec.EventType, rec.PlateNumber, rec.Message,
		rec.Status, rec.ErrorMessage, sentAt)
	if err != nil {
		return 0, fmt.Errorf("record notification: %w", err)
	}
	return res.LastInsertId()
}

// RecentHistory returns the newest dispatch records.
func RecentHistory(db *sql.DB, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.Query(`
		SELECT id, channel_id, event_type, plate_number, message, status, error_message, sent_at, created_at
		FROM notification_history ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("notification history: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var rec Record
		var sentAt, createdAt sql.NullString
		if err := rows.Scan(&rec.ID, &rec.ChannelID, &rec.EventType, &rec.PlateNumber,
			&rec.Message, &rec.Status, &rec.ErrorMessage, &sentAt, &createdAt); err != nil {
			return nil, err
		}
		rec.SentAt = parseTime(sentAt.String)
		rec.CreatedAt = parseTime(createdAt.String)
		out = append(out, rec)
	}
	return out, rows.Err()
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(timeFormat, s)
	return t
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

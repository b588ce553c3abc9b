package notify

import "time"

// Channel is a configured Shoutrrr destination for fleet alerts.
type Channel struct {
	ID               int64     `json:"id"`
	Name             string    `json:"name"`
	ServiceType      string    `json:"service_type"`
	ConfigJSON       string    `json:"config_json"`
	Enabled          bool      `json:"enabled"`
	NotifyOnCritical bool      `json:"notify_on_critical"`
	NotifyOnWarning  bool      `json:"notify_on_warning"`
	NotifyOnInfo     bool      `json:"notify_on_info"`
	CreatedAt        time.Time `json:"created_at"`
}

// EventRule controls per-event-type behaviour for a channel.
type EventRule struct {
	ID        int64  `json:"id"`
	ChannelID int64  `json:"channel_id"`
	EventType string `json:"event_type"`
	Enabled   bool   `json:"enabled"`
	Cooldown  int    `json:"cooldown_secs"` // minimum seconds between repeated alerts
}

// Record is one row of dispatch history.
type Record struct {
	ID           int64     `json:"id"`
	ChannelID    int64     `json:"channel_id"`
	EventType    string    `json:"event_type"`
	PlateNumber  string    `json:"plate_number"`
	Message      string    `json:"message"`
	Status       string    `json:"status"`
	ErrorMessage string    `json:"error_message,omitempty"`
	SentAt       time.Time `json:"sent_at,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

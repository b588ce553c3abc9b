package settings

import "time"

// Setting is a single key/value pair persisted in the settings table.
type Setting struct {
	ID          int64     `json:"id"`
	Category    string    `json:"category"`
	Key         string    `json:"key"`
	Value       string    `json:"value"`
	ValueType   string    `json:"value_type"`
	Description string    `json:"description,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Dashboard is the flattened view the admin dashboard reads and writes.
type Dashboard struct {
	DarkMode      bool `json:"darkMode"`
	Notifications bool `json:"notifications"`
	RefreshRate   int  `json:"refreshRate"`
}

// SettingsGrouped maps category names to their settings.
type SettingsGrouped map[string][]Setting

package models

import "time"

// Bus statuses as stored and served.
const (
	BusActive      = "Active"
	BusInactive    = "Inactive"
	BusMaintenance = "Maintenance"
)

// GPS statuses derived from agent reports.
const (
	GPSOnline  = "Online"
	GPSOffline = "Offline"
)

// Alert severities, ordered Critical > High > Medium > Low.
const (
	SeverityLow      = "Low"
	SeverityMedium   = "Medium"
	SeverityHigh     = "High"
	SeverityCritical = "Critical"
)

// Alert statuses. The only allowed transition is Active -> Resolved.
const (
	AlertActive   = "Active"
	AlertResolved = "Resolved"
)

// Admin user roles and statuses.
const (
	RoleAdmin   = "Admin"
	RoleManager = "Manager"
	RoleUser    = "User"

	UserActive    = "Active"
	UserSuspended = "Suspended"
)

// Bus is a fleet vehicle.
type Bus struct {
	ID          int64  `json:"id"`
	PlateNumber string `json:"plateNumber"`
	Model       string `json:"model"`
	Status      string `json:"status"`
	GPSStatus   string `json:"gpsStatus"`
}

// BusSummary is the embedded form used inside alerts and schedules.
type BusSummary struct {
	ID          int64  `json:"id"`
	PlateNumber string `json:"plateNumber"`
}

// Driver is a person who can be assigned to at most one bus.
type Driver struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	AssignedBusID *int64 `json:"assignedBusId"`
}

// DriverSummary is the embedded form used inside schedules.
type DriverSummary struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Alert is a fleet incident raised server-side by ingest rules.
type Alert struct {
	ID        int64      `json:"id"`
	Type      string     `json:"type"`
	Severity  string     `json:"severity"`
	Status    string     `json:"status"`
	Timestamp time.Time  `json:"timestamp"`
	Bus       BusSummary `json:"bus"`
}

// Schedule is one scheduled trip on a weekday.
type Schedule struct {
	ID            int64         `json:"id"`
	Day           string        `json:"day"` // Mon..Sun
	Route         string        `json:"route"`
	Bus           BusSummary    `json:"bus"`
	Driver        DriverSummary `json:"driver"`
	DepartureTime string        `json:"departureTime"`
	ArrivalTime   string        `json:"arrivalTime"`
}

// PerformanceReport is a read-only per-bus daily summary.
type PerformanceReport struct {
	ID            int64      `json:"id"`
	Bus           BusSummary `json:"bus"`
	ReportDate    string     `json:"reportDate"`
	AverageSpeed  float64    `json:"averageSpeed"`
	StopsMissed   int        `json:"stopsMissed"`
	AlertsRaised  int        `json:"alertsRaised"`
	UptimePercent float64    `json:"uptimePercent"`
}

// AdminUser is a dashboard account.
type AdminUser struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
	PasswordHash string    `json:"-"`
}

// LiveLocation is the latest GPS fix for one bus. Replaced wholesale on
// every report; no history is served to the dashboard.
type LiveLocation struct {
	BusID       int64     `json:"busId"`
	PlateNumber string    `json:"plateNumber"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	Speed       float64   `json:"speed"` // km/h
	Timestamp   time.Time `json:"timestamp"`
}

// DashboardSummary backs the stat cards on the dashboard page.
type DashboardSummary struct {
	TotalBuses   int `json:"totalBuses"`
	OnlineBuses  int `json:"onlineBuses"`
	ActiveAlerts int `json:"activeAlerts"`
	TotalDrivers int `json:"totalDrivers"`
}

// ScheduleOption is a server-computed assignment suggestion: an active bus
// with no trip on a given day paired with a free driver.
type ScheduleOption struct {
	Day    string        `json:"day"`
	Bus    BusSummary    `json:"bus"`
	Driver DriverSummary `json:"driver"`
	Reason string        `json:"reason"`
}

// Session is an active dashboard login.
type Session struct {
	Token     string    `json:"token"`
	UserID    int64     `json:"user_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Config holds server configuration.
type Config struct {
	Port            string
	DBPath          string
	AdminName       string
	AdminEmail      string
	AdminPass       string
	AuthEnabled     bool
	SpeedLimitKPH   float64
	GPSOfflineAfter time.Duration
}

// Weekdays in display order, used for schedule grouping and options.
var Weekdays = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"slgps/internal/models"
	"slgps/internal/settings"
)

// Mutation payloads use the backend's snake_case field names.

// BusInput is the create/update payload for a bus.
type BusInput struct {
	PlateNumber string `json:"plate_number"`
	Model       string `json:"model"`
	Status      string `json:"status,omitempty"`
	GPSStatus   string `json:"gps_status,omitempty"`
}

// DriverInput is the create/update payload for a driver.
type DriverInput struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	AssignedBusID *int64 `json:"assigned_bus_id"`
}

// UserInput is the create/update payload for an admin user. Password is
// required on create and optional on update.
type UserInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Status   string `json:"status,omitempty"`
	Password string `json:"password,omitempty"`
}

// ScheduleInput is the create/update payload for a schedule entry.
type ScheduleInput struct {
	Day           string `json:"day"`
	Route         string `json:"route"`
	BusID         int64  `json:"bus_id"`
	DriverID      int64  `json:"driver_id"`
	DepartureTime string `json:"departure_time"`
	ArrivalTime   string `json:"arrival_time"`
}

// SettingsInput is the update payload for dashboard settings.
type SettingsInput struct {
	DarkMode      *bool `json:"dark_mode,omitempty"`
	Notifications *bool `json:"notifications,omitempty"`
	RefreshRate   *int  `json:"refresh_rate,omitempty"`
}

// AlertQuery narrows the alert list. Zero values mean no filter.
type AlertQuery struct {
	BusID    int64
	Status   string
	Severity string
	Limit    int
}

func (q AlertQuery) encode() string {
	v := url.Values{}
	if q.BusID != 0 {
		v.Set("bus_id", strconv.FormatInt(q.BusID, 10))
	}
	if q.Status != "" {
		v.Set("status", q.Status)
	}
	if q.Severity != "" {
		v.Set("severity", q.Severity)
	}
	if q.Limit != 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if len(v) == 0 {
		return ""
	}
	return "?" + v.Encode()
}

// Buses lists all fleet vehicles.
func (c *Client) Buses(ctx context.Context) ([]models.Bus, error) {
	var buses []models.Bus
	err := c.getData(ctx, "/buses", &buses)
	return buses, err
}

// CreateBus creates a bus and returns the stored record.
func (c *Client) CreateBus(ctx context.Context, in BusInput) (models.Bus, error) {
	var bus models.Bus
	err := c.send(ctx, "POST", "/buses", in, &bus)
	return bus, err
}

// UpdateBus updates a bus and returns the stored record.
func (c *Client) UpdateBus(ctx context.Context, id int64, in BusInput) (models.Bus, error) {
	var bus models.Bus
	err := c.send(ctx, "PUT", fmt.Sprintf("/buses/%d", id), in, &bus)
	return bus, err
}

// DeleteBus removes a bus.
func (c *Client) DeleteBus(ctx context.Context, id int64) error {
	return c.send(ctx, "DELETE", fmt.Sprintf("/buses/%d", id), nil, nil)
}

// Drivers lists all drivers.
func (c *Client) Drivers(ctx context.Context) ([]models.Driver, error) {
	var drivers []models.Driver
	err := c.getData(ctx, "/drivers", &drivers)
	return drivers, err
}

// CreateDriver creates a driver.
func (c *Client) CreateDriver(ctx context.Context, in DriverInput) (models.Driver, error) {
	var driver models.Driver
	err := c.send(ctx, "POST", "/drivers", in, &driver)
	return driver, err
}

// UpdateDriver updates a driver.
func (c *Client) UpdateDriver(ctx context.Context, id int64, in DriverInput) (models.Driver, error) {
	var driver models.Driver
	err := c.send(ctx, "PUT", fmt.Sprintf("/drivers/%d", id), in, &driver)
	return driver, err
}

// DeleteDriver removes a driver.
func (c *Client) DeleteDriver(ctx context.Context, id int64) error {
	return c.send(ctx, "DELETE", fmt.Sprintf("/drivers/%d", id), nil, nil)
}

// Users lists the admin accounts.
func (c *Client) Users(ctx context.Context) ([]models.AdminUser, error) {
	var users []models.AdminUser
	err := c.getData(ctx, "/users", &users)
	return users, err
}

// CreateUser creates an admin account.
func (c *Client) CreateUser(ctx context.Context, in UserInput) (models.AdminUser, error) {
	var user models.AdminUser
	err := c.send(ctx, "POST", "/users", in, &user)
	return user, err
}

// UpdateUser updates an admin account.
func (c *Client) UpdateUser(ctx context.Context, id int64, in UserInput) (models.AdminUser, error) {
	var user models.AdminUser
	err := c.send(ctx, "PUT", fmt.Sprintf("/users/%d", id), in, &user)
	return user, err
}

// DeleteUser removes an admin account.
func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	return c.send(ctx, "DELETE", fmt.Sprintf("/users/%d", id), nil, nil)
}

// Alerts lists alerts, newest first.
func (c *Client) Alerts(ctx context.Context, q AlertQuery) ([]models.Alert, error) {
	var alerts []models.Alert
	err := c.getData(ctx, "/alerts"+q.encode(), &alerts)
	return alerts, err
}

// ResolveAlert moves an alert from Active to Resolved, the only status
// transition the backend accepts.
func (c *Client) ResolveAlert(ctx context.Context, id int64) (models.Alert, error) {
	var alert models.Alert
	body := map[string]string{"status": models.AlertResolved}
	err := c.send(ctx, "PUT", fmt.Sprintf("/alerts/%d", id), body, &alert)
	return alert, err
}

// Schedules lists schedule entries ordered Mon..Sun.
func (c *Client) Schedules(ctx context.Context) ([]models.Schedule, error) {
	var schedules []models.Schedule
	err := c.getData(ctx, "/schedules", &schedules)
	return schedules, err
}

// ScheduleOptions lists server-computed assignment suggestions.
func (c *Client) ScheduleOptions(ctx context.Context) ([]models.ScheduleOption, error) {
	var options []models.ScheduleOption
	err := c.getData(ctx, "/schedule-options", &options)
	return options, err
}

// CreateSchedule creates a schedule entry.
func (c *Client) CreateSchedule(ctx context.Context, in ScheduleInput) (models.Schedule, error) {
	var s models.Schedule
	err := c.send(ctx, "POST", "/schedules", in, &s)
	return s, err
}

// UpdateSchedule updates a schedule entry.
func (c *Client) UpdateSchedule(ctx context.Context, id int64, in ScheduleInput) (models.Schedule, error) {
	var s models.Schedule
	err := c.send(ctx, "PUT", fmt.Sprintf("/schedules/%d", id), in, &s)
	return s, err
}

// DeleteSchedule removes a schedule entry.
func (c *Client) DeleteSchedule(ctx context.Context, id int64) error {
	return c.send(ctx, "DELETE", fmt.Sprintf("/schedules/%d", id), nil, nil)
}

// PerformanceReports lists the per-bus daily summaries.
func (c *Client) PerformanceReports(ctx context.Context) ([]models.PerformanceReport, error) {
	var reports []models.PerformanceReport
	err := c.getData(ctx, "/performance-reports", &reports)
	return reports, err
}

// Dashboard fetches the stat card counters.
func (c *Client) Dashboard(ctx context.Context) (models.DashboardSummary, error) {
	var summary models.DashboardSummary
	err := c.getData(ctx, "/dashboard", &summary)
	return summary, err
}

// LatestLocations fetches the most recent GPS fix per bus.
func (c *Client) LatestLocations(ctx context.Context) ([]models.LiveLocation, error) {
	var locations []models.LiveLocation
	err := c.getData(ctx, "/location/latest", &locations)
	return locations, err
}

// Settings fetches the dashboard settings.
func (c *Client) Settings(ctx context.Context) (settings.Dashboard, error) {
	var d settings.Dashboard
	err := c.getData(ctx, "/settings", &d)
	return d, err
}

// UpdateSettings writes dashboard settings. Absent fields keep their
// stored values.
func (c *Client) UpdateSettings(ctx context.Context, in SettingsInput) (settings.Dashboard, error) {
	var d settings.Dashboard
	err := c.send(ctx, "PUT", "/settings", in, &d)
	return d, err
}

package db

import (
	"database/sql"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"slgps/internal/models"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	if err := CreateSchema(database); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}
	return database
}

func seedBus(t *testing.T, database *sql.DB, plate string) models.Bus {
	t.Helper()
	bus, err := CreateBus(database, models.Bus{
		PlateNumber: plate,
		Model:       "Volvo B9R",
		Status:      models.BusActive,
		GPSStatus:   models.GPSOffline,
	})
	if err != nil {
		t.Fatalf("Failed to seed bus %s: %v", plate, err)
	}
	return bus
}

func TestBusCRUD(t *testing.T) {
	database := setupTestDB(t)

	bus := seedBus(t, database, "NB-1234")
	if bus.ID == 0 {
		t.Fatal("Expected server-assigned id")
	}

	got, err := GetBusByPlate(database, "NB-1234")
	if err != nil {
		t.Fatalf("GetBusByPlate failed: %v", err)
	}
	if got == nil || got.ID != bus.ID {
		t.Errorf("Expected bus %d, got %+v", bus.ID, got)
	}

	bus.Status = models.BusMaintenance
	if err := UpdateBus(database, bus); err != nil {
		t.Fatalf("UpdateBus failed: %v", err)
	}
	got, _ = GetBus(database, bus.ID)
	if got.Status != models.BusMaintenance {
		t.Errorf("Expected Maintenance, got %s", got.Status)
	}

	if err := SetBusGPSStatus(database, bus.ID, models.GPSOnline); err != nil {
		t.Fatalf("SetBusGPSStatus failed: %v", err)
	}
	got, _ = GetBus(database, bus.ID)
	if got.GPSStatus != models.GPSOnline {
		t.Errorf("Expected Online, got %s", got.GPSStatus)
	}

	if err := DeleteBus(database, bus.ID); err != nil {
		t.Fatalf("DeleteBus failed: %v", err)
	}
	got, err = GetBus(database, bus.ID)
	if err != nil || got != nil {
		t.Errorf("Expected nil after delete, got %+v (%v)", got, err)
	}
}

func TestDuplicatePlateRejected(t *testing.T) {
	database := setupTestDB(t)
	seedBus(t, database, "NB-1234")

	_, err := CreateBus(database, models.Bus{PlateNumber: "NB-1234", Model: "Tata", Status: models.BusActive, GPSStatus: models.GPSOffline})
	if err == nil {
		t.Error("Expected unique constraint error for duplicate plate")
	}
}

func TestDriverAssignment(t *testing.T) {
	database := setupTestDB(t)
	bus := seedBus(t, database, "NB-1234")

	driver, err := CreateDriver(database, models.Driver{Name: "Kasun", Email: "k@slgps.lk", Phone: "0771234567"})
	if err != nil {
		t.Fatalf("CreateDriver failed: %v", err)
	}
	if driver.AssignedBusID != nil {
		t.Error("Expected unassigned driver")
	}

	driver.AssignedBusID = &bus.ID
	if err := UpdateDriver(database, driver); err != nil {
		t.Fatalf("UpdateDriver failed: %v", err)
	}

	got, _ := GetDriver(database, driver.ID)
	if got.AssignedBusID == nil || *got.AssignedBusID != bus.ID {
		t.Errorf("Expected assignment to bus %d, got %+v", bus.ID, got.AssignedBusID)
	}
}

func TestAlertLifecycle(t *testing.T) {
	database := setupTestDB(t)
	bus := seedBus(t, database, "NB-1234")

	id, err := CreateAlert(database, bus.ID, "Overspeed", models.SeverityHigh)
	if err != nil {
		t.Fatalf("CreateAlert failed: %v", err)
	}

	active, err := HasActiveAlert(database, bus.ID, "Overspeed")
	if err != nil || !active {
		t.Errorf("Expected active Overspeed alert, got %v (%v)", active, err)
	}

	alerts, err := ListAlerts(database, AlertFilter{})
	if err != nil {
		t.Fatalf("ListAlerts failed: %v", err)
	}
	if len(alerts) != 1 || alerts[0].Bus.PlateNumber != "NB-1234" {
		t.Errorf("Expected one alert with embedded bus summary, got %+v", alerts)
	}

	resolved, err := ResolveAlert(database, id)
	if err != nil || !resolved {
		t.Fatalf("ResolveAlert failed: %v (%v)", resolved, err)
	}

	// Resolving twice reports no change.
	resolved, err = ResolveAlert(database, id)
	if err != nil || resolved {
		t.Errorf("Expected second resolve to be a no-op, got %v (%v)", resolved, err)
	}

	active, _ = HasActiveAlert(database, bus.ID, "Overspeed")
	if active {
		t.Error("Expected no active alert after resolve")
	}
}

func TestAlertFilters(t *testing.T) {
	database := setupTestDB(t)
	bus1 := seedBus(t, database, "NB-1234")
	bus2 := seedBus(t, database, "NA-0001")

	CreateAlert(database, bus1.ID, "Overspeed", models.SeverityCritical)
	CreateAlert(database, bus2.ID, "GPS signal lost", models.SeverityMedium)

	alerts, err := ListAlerts(database, AlertFilter{BusID: bus2.ID})
	if err != nil {
		t.Fatalf("ListAlerts failed: %v", err)
	}
	if len(alerts) != 1 || alerts[0].Type != "GPS signal lost" {
		t.Errorf("Expected only bus2 alerts, got %+v", alerts)
	}

	alerts, _ = ListAlerts(database, AlertFilter{Severity: models.SeverityCritical})
	if len(alerts) != 1 || alerts[0].Bus.ID != bus1.ID {
		t.Errorf("Expected only critical alerts, got %+v", alerts)
	}
}

func TestDashboardSummary(t *testing.T) {
	database := setupTestDB(t)
	bus1 := seedBus(t, database, "NB-1234")
	seedBus(t, database, "NA-0001")
	SetBusGPSStatus(database, bus1.ID, models.GPSOnline)
	CreateDriver(database, models.Driver{Name: "Kasun", Email: "k@slgps.lk"})
	CreateAlert(database, bus1.ID, "Overspeed", models.SeverityHigh)

	summary, err := DashboardSummary(database)
	if err != nil {
		t.Fatalf("DashboardSummary failed: %v", err)
	}
	want := models.DashboardSummary{TotalBuses: 2, OnlineBuses: 1, ActiveAlerts: 1, TotalDrivers: 1}
	if summary != want {
		t.Errorf("Expected %+v, got %+v", want, summary)
	}
}

func TestLocationsUpsertAndStale(t *testing.T) {
	database := setupTestDB(t)
	bus := seedBus(t, database, "NB-1234")
	SetBusGPSStatus(database, bus.ID, models.GPSOnline)

	old := time.Now().UTC().Add(-10 * time.Minute)
	if err := UpsertLocation(database, bus.ID, 6.9271, 79.8612, 40, old); err != nil {
		t.Fatalf("UpsertLocation failed: %v", err)
	}

	// A later fix replaces the earlier one.
	now := time.Now().UTC()
	if err := UpsertLocation(database, bus.ID, 6.9300, 79.8700, 55, now); err != nil {
		t.Fatalf("UpsertLocation failed: %v", err)
	}

	locations, err := LatestLocations(database)
	if err != nil {
		t.Fatalf("LatestLocations failed: %v", err)
	}
	if len(locations) != 1 || locations[0].Speed != 55 {
		t.Errorf("Expected one fresh fix at 55 km/h, got %+v", locations)
	}

	stale, err := StaleBuses(database, time.Now().UTC().Add(-time.Minute))
	if err != nil {
		t.Fatalf("StaleBuses failed: %v", err)
	}
	if len(stale) != 0 {
		t.Errorf("Expected no stale buses with a fresh fix, got %+v", stale)
	}

	stale, _ = StaleBuses(database, time.Now().UTC().Add(time.Minute))
	if len(stale) != 1 || stale[0].PlateNumber != "NB-1234" {
		t.Errorf("Expected NB-1234 stale, got %+v", stale)
	}
}

func TestScheduleOrderingAndOptions(t *testing.T) {
	database := setupTestDB(t)
	bus1 := seedBus(t, database, "NB-1234")
	bus2 := seedBus(t, database, "NA-0001")
	d1, _ := CreateDriver(database, models.Driver{Name: "Kasun", Email: "k@slgps.lk"})
	CreateDriver(database, models.Driver{Name: "Nimal", Email: "n@slgps.lk"})

	if _, err := CreateSchedule(database, "Wed", "Colombo-Galle", bus1.ID, d1.ID, "07:00", "09:00"); err != nil {
		t.Fatalf("CreateSchedule failed: %v", err)
	}
	if _, err := CreateSchedule(database, "Mon", "Colombo-Kandy", bus1.ID, d1.ID, "06:00", "09:30"); err != nil {
		t.Fatalf("CreateSchedule failed: %v", err)
	}

	schedules, err := ListSchedules(database)
	if err != nil {
		t.Fatalf("ListSchedules failed: %v", err)
	}
	if len(schedules) != 2 || schedules[0].Day != "Mon" || schedules[1].Day != "Wed" {
		t.Errorf("Expected Mon before Wed, got %+v", schedules)
	}
	if schedules[0].Bus.PlateNumber != "NB-1234" || schedules[0].Driver.Name != "Kasun" {
		t.Errorf("Expected embedded summaries, got %+v", schedules[0])
	}

	// bus2 has no trips, so it should appear in the suggestions with a
	// free driver.
	options, err := ScheduleOptions(database)
	if err != nil {
		t.Fatalf("ScheduleOptions failed: %v", err)
	}
	foundBus2 := false
	for _, o := range options {
		if o.Bus.ID == bus2.ID {
			foundBus2 = true
		}
	}
	if !foundBus2 {
		t.Errorf("Expected an option for the idle bus, got %+v", options)
	}
}

func TestPerformanceReportUpsert(t *testing.T) {
	database := setupTestDB(t)
	bus := seedBus(t, database, "NB-1234")

	report := models.PerformanceReport{
		ReportDate:    "2026-08-28",
		AverageSpeed:  42.5,
		StopsMissed:   1,
		AlertsRaised:  2,
		UptimePercent: 97.5,
	}
	if err := UpsertPerformanceReport(database, bus.ID, report); err != nil {
		t.Fatalf("UpsertPerformanceReport failed: %v", err)
	}

	report.AverageSpeed = 44.0
	if err := UpsertPerformanceReport(database, bus.ID, report); err != nil {
		t.Fatalf("Second upsert failed: %v", err)
	}

	reports, err := ListPerformanceReports(database)
	if err != nil {
		t.Fatalf("ListPerformanceReports failed: %v", err)
	}
	if len(reports) != 1 || reports[0].AverageSpeed != 44.0 {
		t.Errorf("Expected one updated report, got %+v", reports)
	}
}

func TestAdminUserCRUD(t *testing.T) {
	database := setupTestDB(t)

	user, err := CreateAdminUser(database, models.AdminUser{
		Name:         "Admin",
		Email:        "admin@slgps.lk",
		Role:         models.RoleAdmin,
		Status:       models.UserActive,
		PasswordHash: "hash",
	})
	if err != nil {
		t.Fatalf("CreateAdminUser failed: %v", err)
	}

	got, err := GetAdminUserByEmail(database, "admin@slgps.lk")
	if err != nil || got == nil || got.ID != user.ID {
		t.Fatalf("GetAdminUserByEmail: got %+v (%v)", got, err)
	}
	if got.PasswordHash != "hash" {
		t.Error("Expected password hash to round-trip for login checks")
	}

	got.Status = models.UserSuspended
	got.PasswordHash = ""
	if err := UpdateAdminUser(database, *got); err != nil {
		t.Fatalf("UpdateAdminUser failed: %v", err)
	}

	again, _ := GetAdminUser(database, user.ID)
	if again.Status != models.UserSuspended {
		t.Errorf("Expected Suspended, got %s", again.Status)
	}
	if again.PasswordHash != "hash" {
		t.Error("Expected empty password on update to keep the old hash")
	}
}

package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	_ "modernc.org/sqlite"

	"slgps/internal/db"
	"slgps/internal/models"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	if err := db.CreateSchema(database); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}
	return database
}

// newAPIMux registers the handlers the same way the server does, minus
// auth, so path values resolve in tests.
func newAPIMux(database *sql.DB) *http.ServeMux {
	mux := http.NewServeMux()

	buses := NewBusHandler(database)
	mux.HandleFunc("GET /api/buses", buses.List)
	mux.HandleFunc("POST /api/buses", buses.Create)
	mux.HandleFunc("PUT /api/buses/{id}", buses.Update)
	mux.HandleFunc("DELETE /api/buses/{id}", buses.Delete)

	alerts := NewAlertHandler(database)
	mux.HandleFunc("GET /api/alerts", alerts.List)
	mux.HandleFunc("PUT /api/alerts/{id}", alerts.UpdateStatus)

	schedules := NewScheduleHandler(database)
	mux.HandleFunc("POST /api/schedules", schedules.Create)

	users := NewUserHandler(database)
	mux.HandleFunc("POST /api/users", users.Create)

	dashboard := NewDashboardHandler(database)
	mux.HandleFunc("GET /api/dashboard", dashboard.Summary)

	return mux
}

func doJSON(t *testing.T, mux *http.ServeMux, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestBusCreateAndList(t *testing.T) {
	database := setupTestDB(t)
	mux := newAPIMux(database)

	rec := doJSON(t, mux, "POST", "/api/buses", `{"plate_number": "NB-1234", "model": "Volvo B9R"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var created struct {
		Data models.Bus `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("Invalid response body: %v", err)
	}
	if created.Data.ID == 0 || created.Data.Status != models.BusActive || created.Data.GPSStatus != models.GPSOffline {
		t.Errorf("Expected defaults applied, got %+v", created.Data)
	}

	rec = doJSON(t, mux, "GET", "/api/buses", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var list struct {
		Data []models.Bus `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("Invalid list body: %v", err)
	}
	if len(list.Data) != 1 || list.Data[0].PlateNumber != "NB-1234" {
		t.Errorf("Expected one bus in the data envelope, got %+v", list.Data)
	}
}

func TestBusCreateValidation(t *testing.T) {
	mux := newAPIMux(setupTestDB(t))

	rec := doJSON(t, mux, "POST", "/api/buses", `{"status": "Flying"}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("Expected 422, got %d", rec.Code)
	}

	var body struct {
		Errors map[string][]string `json:"errors"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Invalid error body: %v", err)
	}
	for _, field := range []string{"plate_number", "model", "status"} {
		if len(body.Errors[field]) == 0 {
			t.Errorf("Expected error for %s, got %v", field, body.Errors)
		}
	}
}

func TestBusDuplicatePlate(t *testing.T) {
	mux := newAPIMux(setupTestDB(t))

	doJSON(t, mux, "POST", "/api/buses", `{"plate_number": "NB-1234", "model": "Volvo"}`)
	rec := doJSON(t, mux, "POST", "/api/buses", `{"plate_number": "NB-1234", "model": "Tata"}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("Expected 422 for duplicate plate, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "already been taken") {
		t.Errorf("Expected taken message, got %s", rec.Body.String())
	}
}

func TestBusUpdateMissing(t *testing.T) {
	mux := newAPIMux(setupTestDB(t))

	rec := doJSON(t, mux, "PUT", "/api/buses/999", `{"plate_number": "NB-1234", "model": "Volvo"}`)
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", rec.Code)
	}
}

func TestAlertResolveTransitions(t *testing.T) {
	database := setupTestDB(t)
	mux := newAPIMux(database)

	bus, _ := db.CreateBus(database, models.Bus{PlateNumber: "NB-1234", Model: "Volvo", Status: models.BusActive, GPSStatus: models.GPSOnline})
	id, _ := db.CreateAlert(database, bus.ID, "Overspeed", models.SeverityHigh)

	// Only the Active -> Resolved transition is accepted.
	rec := doJSON(t, mux, "PUT", "/api/alerts/1", `{"status": "Active"}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("Expected 422 for disallowed transition, got %d", rec.Code)
	}

	rec = doJSON(t, mux, "PUT", "/api/alerts/1", `{"status": "Resolved"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Data models.Alert `json:"data"`
	}
	json.Unmarshal(rec.Body.Bytes(), &body)
	if body.Data.ID != id || body.Data.Status != models.AlertResolved {
		t.Errorf("Expected resolved alert %d, got %+v", id, body.Data)
	}

	rec = doJSON(t, mux, "PUT", "/api/alerts/1", `{"status": "Resolved"}`)
	if rec.Code != http.StatusConflict {
		t.Errorf("Expected 409 for double resolve, got %d", rec.Code)
	}

	rec = doJSON(t, mux, "PUT", "/api/alerts/999", `{"status": "Resolved"}`)
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown alert, got %d", rec.Code)
	}
}

func TestScheduleCreateValidation(t *testing.T) {
	database := setupTestDB(t)
	mux := newAPIMux(database)

	rec := doJSON(t, mux, "POST", "/api/schedules",
		`{"day": "Monday", "route": "Colombo-Kandy", "bus_id": 1, "driver_id": 1, "departure_time": "06:00", "arrival_time": "09:30"}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("Expected 422 for bad day and missing references, got %d", rec.Code)
	}

	var body struct {
		Errors map[string][]string `json:"errors"`
	}
	json.Unmarshal(rec.Body.Bytes(), &body)
	if len(body.Errors["day"]) == 0 {
		t.Errorf("Expected day error, got %v", body.Errors)
	}

	bus, _ := db.CreateBus(database, models.Bus{PlateNumber: "NB-1234", Model: "Volvo", Status: models.BusActive, GPSStatus: models.GPSOffline})
	driver, _ := db.CreateDriver(database, models.Driver{Name: "Kasun", Email: "k@slgps.lk"})

	rec = doJSON(t, mux, "POST", "/api/schedules",
		`{"day": "Mon", "route": "Colombo-Kandy", "bus_id": `+itoa(bus.ID)+`, "driver_id": `+itoa(driver.ID)+`, "departure_time": "06:00", "arrival_time": "09:30"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var created struct {
		Data models.Schedule `json:"data"`
	}
	json.Unmarshal(rec.Body.Bytes(), &created)
	if created.Data.Bus.PlateNumber != "NB-1234" || created.Data.Driver.Name != "Kasun" {
		t.Errorf("Expected embedded summaries, got %+v", created.Data)
	}
}

func TestUserCreateRequiresPassword(t *testing.T) {
	mux := newAPIMux(setupTestDB(t))

	rec := doJSON(t, mux, "POST", "/api/users", `{"name": "A", "email": "a@b.com", "role": "Admin"}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("Expected 422 without password, got %d", rec.Code)
	}

	rec = doJSON(t, mux, "POST", "/api/users", `{"name": "A", "email": "a@b.com", "role": "Admin", "password": "secret1"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if strings.Contains(rec.Body.String(), "secret1") || strings.Contains(rec.Body.String(), "password") {
		t.Error("Password material must not appear in the response")
	}
}

func TestDashboardSummaryEnvelope(t *testing.T) {
	database := setupTestDB(t)
	mux := newAPIMux(database)

	db.CreateBus(database, models.Bus{PlateNumber: "NB-1234", Model: "Volvo", Status: models.BusActive, GPSStatus: models.GPSOnline})

	rec := doJSON(t, mux, "GET", "/api/dashboard", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var body struct {
		Data models.DashboardSummary `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Invalid body: %v", err)
	}
	if body.Data.TotalBuses != 1 || body.Data.OnlineBuses != 1 {
		t.Errorf("Unexpected summary %+v", body.Data)
	}
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

package pages

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"slgps/internal/api"
	"slgps/internal/session"
	"slgps/internal/ui"
)

func newLoggedInClient(t *testing.T, handler http.Handler) (*api.Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := api.NewClient(srv.URL, session.NewStore())
	client.Sessions.SetSession("t1", session.User{ID: 1, Name: "A"})
	return client, srv
}

func TestLoginThenDashboardStatCards(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /login", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"token": "t1", "user": {"id": 1, "name": "A"}}`))
	})
	mux.HandleFunc("GET /dashboard", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer t1" {
			t.Errorf("Expected Bearer t1, got %q", r.Header.Get("Authorization"))
		}
		w.Write([]byte(`{"data": {"totalBuses": 10, "onlineBuses": 7, "activeAlerts": 2, "totalDrivers": 5}}`))
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := api.NewClient(srv.URL, session.NewStore())
	if _, err := client.Login(context.Background(), "a@b.com", "x"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	page := NewDashboard(client)
	page.Loader.Refresh(context.Background())

	cards := page.StatCards()
	want := []StatCard{
		{Label: "Total Buses", Value: 10},
		{Label: "Online Buses", Value: 7},
		{Label: "Active Alerts", Value: 2},
		{Label: "Total Drivers", Value: 5},
	}
	if len(cards) != len(want) {
		t.Fatalf("Expected %d cards, got %d", len(want), len(cards))
	}
	for i := range want {
		if cards[i] != want[i] {
			t.Errorf("Card %d: expected %+v, got %+v", i, want[i], cards[i])
		}
	}
}

func TestNoTokenPageErrorsWithoutNetwork(t *testing.T) {
	var hits int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&hits, 1)
	}))
	defer srv.Close()

	client := api.NewClient(srv.URL, session.NewStore())
	page := NewBuses(client)
	page.Refresh(context.Background())

	if page.Loader.State() != ui.Errored {
		t.Errorf("Expected Errored without a token, got %v", page.Loader.State())
	}
	if !errors.Is(page.Loader.Err(), session.ErrNoSession) {
		t.Errorf("Expected ErrNoSession, got %v", page.Loader.Err())
	}
	if atomic.LoadInt64(&hits) != 0 {
		t.Errorf("Expected no network call, server saw %d", hits)
	}
}

func TestMalformedBodyNeverLoads(t *testing.T) {
	client, _ := newLoggedInClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id": 1}]`))
	}))

	page := NewBuses(client)
	page.Refresh(context.Background())

	if page.Loader.State() != ui.Errored {
		t.Errorf("Expected Errored on missing data field, got %v", page.Loader.State())
	}
	var fe *api.FormatError
	if !errors.As(page.Loader.Err(), &fe) {
		t.Errorf("Expected FormatError, got %v", page.Loader.Err())
	}
}

func TestBusListSortToggle(t *testing.T) {
	client, _ := newLoggedInClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": [
			{"id": 1, "plateNumber": "NB-1234", "model": "Volvo", "status": "Active"},
			{"id": 2, "plateNumber": "NA-0001", "model": "Ashok", "status": "Active"},
			{"id": 3, "plateNumber": "NC-9999", "model": "Tata", "status": "Inactive"}
		]}`))
	}))

	page := NewBuses(client)
	page.Refresh(context.Background())

	page.Table.RequestSort("plateNumber")
	asc := page.Table.View()
	if asc[0].PlateNumber != "NA-0001" || asc[2].PlateNumber != "NC-9999" {
		t.Errorf("Unexpected ascending order %v", asc)
	}

	// One more click on the same header reverses the order.
	page.Table.RequestSort("plateNumber")
	desc := page.Table.View()
	for i := range asc {
		if desc[i].ID != asc[len(asc)-1-i].ID {
			t.Fatalf("Expected reversed order, got %v", desc)
		}
	}
}

func TestAlertDismissOptimisticSuccess(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /alerts", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": [{"id": 3, "type": "Overspeed", "severity": "High", "status": "Active", "bus": {"id": 1, "plateNumber": "NB-1234"}}]}`))
	})
	mux.HandleFunc("PUT /alerts/3", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": {"id": 3, "type": "Overspeed", "severity": "High", "status": "Resolved", "bus": {"id": 1, "plateNumber": "NB-1234"}}}`))
	})
	client, _ := newLoggedInClient(t, mux)

	page := NewAlerts(client)
	page.Refresh(context.Background())
	page.Dismiss(context.Background(), 3)

	rows, _ := page.Loader.Data()
	if rows[0].Status != "Resolved" {
		t.Errorf("Expected Resolved after successful dismiss, got %s", rows[0].Status)
	}
	if page.Notice() != "" {
		t.Errorf("Expected no notice, got %q", page.Notice())
	}
}

func TestAlertDismissRevertsOnFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /alerts", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": [{"id": 3, "type": "Overspeed", "severity": "High", "status": "Active", "bus": {"id": 1, "plateNumber": "NB-1234"}}]}`))
	})
	mux.HandleFunc("PUT /alerts/3", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"error": "alert already resolved"}`))
	})
	client, _ := newLoggedInClient(t, mux)

	page := NewAlerts(client)
	page.Refresh(context.Background())
	page.Dismiss(context.Background(), 3)

	rows, _ := page.Loader.Data()
	if rows[0].Status != "Active" {
		t.Errorf("Expected revert to Active after failed dismiss, got %s", rows[0].Status)
	}
	if page.Notice() == "" {
		t.Error("Expected a blocking failure notice")
	}

	page.ClearNotice()
	if page.Notice() != "" {
		t.Error("Expected notice cleared")
	}
}

func TestSchedulesGroupedByDay(t *testing.T) {
	client, _ := newLoggedInClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/schedule-options" {
			w.Write([]byte(`{"data": []}`))
			return
		}
		w.Write([]byte(`{"data": [
			{"id": 1, "day": "Mon", "route": "Colombo-Kandy", "bus": {"id": 1, "plateNumber": "NB-1234"}, "driver": {"id": 1, "name": "A"}, "departureTime": "06:00", "arrivalTime": "09:30"},
			{"id": 2, "day": "Wed", "route": "Colombo-Galle", "bus": {"id": 2, "plateNumber": "NA-0001"}, "driver": {"id": 2, "name": "B"}, "departureTime": "07:00", "arrivalTime": "09:00"},
			{"id": 3, "day": "Mon", "route": "Kandy-Jaffna", "bus": {"id": 3, "plateNumber": "NC-9999"}, "driver": {"id": 3, "name": "C"}, "departureTime": "10:00", "arrivalTime": "18:00"}
		]}`))
	}))

	page := NewSchedules(client)
	page.Refresh(context.Background())

	grouped := page.Grouped()
	if len(grouped) != 7 {
		t.Errorf("Expected all 7 weekdays present, got %d", len(grouped))
	}
	if len(grouped["Mon"]) != 2 || len(grouped["Wed"]) != 1 || len(grouped["Sun"]) != 0 {
		t.Errorf("Unexpected grouping: Mon=%d Wed=%d Sun=%d",
			len(grouped["Mon"]), len(grouped["Wed"]), len(grouped["Sun"]))
	}
}

package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"

	"slgps/internal/db"
	"slgps/internal/models"
)

// ScheduleHandler handles schedule CRUD and suggestion requests
type ScheduleHandler struct {
	DB *sql.DB
}

// NewScheduleHandler creates a new schedule handler
func NewScheduleHandler(database *sql.DB) *ScheduleHandler {
	return &ScheduleHandler{DB: database}
}

// scheduleRequest is the snake_case mutation body for POST/PUT /api/schedules.
type scheduleRequest struct {
	Day           string `json:"day"`
	Route         string `json:"route"`
	BusID         int64  `json:"bus_id"`
	DriverID      int64  `json:"driver_id"`
	DepartureTime string `json:"departure_time"`
	ArrivalTime   string `json:"arrival_time"`
}

func (h *ScheduleHandler) validate(req *scheduleRequest) FieldErrors {
	errs := FieldErrors{}
	errs.Require("day", req.Day)
	errs.OneOf("day", req.Day, models.Weekdays...)
	errs.Require("route", req.Route)
	errs.Require("departure_time", req.DepartureTime)
	errs.Require("arrival_time", req.ArrivalTime)

	if req.BusID == 0 {
		errs.Add("bus_id", "The bus_id field is required.")
	} else if bus, err := db.GetBus(h.DB, req.BusID); err == nil && bus == nil {
		errs.Add("bus_id", "The selected bus_id is invalid.")
	}
	if req.DriverID == 0 {
		errs.Add("driver_id", "The driver_id field is required.")
	} else if driver, err := db.GetDriver(h.DB, req.DriverID); err == nil && driver == nil {
		errs.Add("driver_id", "The selected driver_id is invalid.")
	}
	return errs
}

// List handles GET /api/schedules
func (h *ScheduleHandler) List(w http.ResponseWriter, r *http.Request) {
	schedules, err := db.ListSchedules(h.DB)
	if err != nil {
		JSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	JSONData(w, schedules)
}

// Options handles GET /api/schedule-options
func (h *ScheduleHandler) Options(w http.ResponseWriter, r *http.Request) {
	options, err := db.ScheduleOptions(h.DB)
	if err != nil {
		JSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	JSONData(w, options)
}

// Create handles POST /api/schedules
func (h *ScheduleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req scheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		JSONError(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if h.validate(&req).Respond(w) {
		return
	}

	id, err := db.CreateSchedule(h.DB, req.Day, req.Route, req.BusID, req.DriverID, req.DepartureTime, req.ArrivalTime)
	if err != nil {
		JSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	schedule, err := db.GetSchedule(h.DB, id)
	if err != nil || schedule == nil {
		JSONError(w, "failed to load created schedule", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusCreated)
	JSONData(w, schedule)
}

// Update handles PUT /api/schedules/{id}
func (h *ScheduleHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := PathID(w, r)
	if !ok {
		return
	}

	existing, err := db.GetSchedule(h.DB, id)
	if err != nil {
		JSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if existing == nil {
		JSONError(w, "schedule not found", http.StatusNotFound)
		return
	}

	var req scheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		JSONError(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if h.validate(&req).Respond(w) {
		return
	}

	if err := db.UpdateSchedule(h.DB, id, req.Day, req.Route, req.BusID, req.DriverID, req.DepartureTime, req.ArrivalTime); err != nil {
		JSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	schedule, err := db.GetSchedule(h.DB, id)
	if err != nil || schedule == nil {
		JSONError(w, "failed to load updated schedule", http.StatusInternalServerError)
		return
	}
	JSONData(w, schedule)
}

// Delete handles DELETE /api/schedules/{id}
func (h *ScheduleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := PathID(w, r)
	if !ok {
		return
	}
	if err := db.DeleteSchedule(h.DB, id); err != nil {
		JSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	JSONResponse(w, map[string]string{"status": "deleted"})
}

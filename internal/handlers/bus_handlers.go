package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strings"

	"slgps/internal/db"
	"slgps/internal/models"
)

// BusHandler handles bus CRUD requests
type BusHandler struct {
	DB *sql.DB
}

// NewBusHandler creates a new bus handler
func NewBusHandler(database *sql.DB) *BusHandler {
	return &BusHandler{DB: database}
}

// busRequest is the snake_case mutation body for POST/PUT /api/buses.
type busRequest struct {
	PlateNumber string `json:"plate_number"`
	Model       string `json:"model"`
	Status      string `json:"status"`
	GPSStatus   string `json:"gps_status"`
}

func (req *busRequest) validate() FieldErrors {
	errs := FieldErrors{}
	errs.Require("plate_number", req.PlateNumber)
	errs.Require("model", req.Model)
	errs.OneOf("status", req.Status, models.BusActive, models.BusInactive, models.BusMaintenance)
	errs.OneOf("gps_status", req.GPSStatus, models.GPSOnline, models.GPSOffline)
	return errs
}

// List handles GET /api/buses
func (h *BusHandler) List(w http.ResponseWriter, r *http.Request) {
	buses, err := db.ListBuses(h.DB)
	if err != nil {
		JSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	JSONData(w, buses)
}

// Create handles POST /api/buses
func (h *BusHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req busRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		JSONError(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if req.Status == "" {
		req.Status = models.BusActive
	}
	if req.GPSStatus == "" {
		req.GPSStatus = models.GPSOffline
	}
	if req.validate().Respond(w) {
		return
	}

	bus, err := db.CreateBus(h.DB, models.Bus{
		PlateNumber: req.PlateNumber,
		Model:       req.Model,
		Status:      req.Status,
		GPSStatus:   req.GPSStatus,
	})
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			errs := FieldErrors{}
			errs.Add("plate_number", "The plate_number has already been taken.")
			errs.Respond(w)
			return
		}
		JSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusCreated)
	JSONData(w, bus)
}

// Update handles PUT /api/buses/{id}
func (h *BusHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := PathID(w, r)
	if !ok {
		return
	}

	existing, err := db.GetBus(h.DB, id)
	if err != nil {
		JSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if existing == nil {
		JSONError(w, "bus not found", http.StatusNotFound)
		return
	}

	var req busRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		JSONError(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if req.Status == "" {
		req.Status = existing.Status
	}
	if req.GPSStatus == "" {
		req.GPSStatus = existing.GPSStatus
	}
	if req.validate().Respond(w) {
		return
	}

	bus := models.Bus{ID: id, PlateNumber: req.PlateNumber, Model: req.Model, Status: req.Status, GPSStatus: req.GPSStatus}
	if err := db.UpdateBus(h.DB, bus); err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			errs := FieldErrors{}
			errs.Add("plate_number", "The plate_number has already been taken.")
			errs.Respond(w)
			return
		}
		JSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	JSONData(w, bus)
}

// Delete handles DELETE /api/buses/{id}
func (h *BusHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := PathID(w, r)
	if !ok {
		return
	}
	if err := db.DeleteBus(h.DB, id); err != nil {
		JSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	JSONResponse(w, map[string]string{"status": "deleted"})
}

package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strings"

	"slgps/internal/db"
	"slgps/internal/models"
)

// DriverHandler handles driver CRUD requests
type DriverHandler struct {
	DB *sql.DB
}

// NewDriverHandler creates a new driver handler
func NewDriverHandler(database *sql.DB) *DriverHandler {
	return &DriverHandler{DB: database}
}

// driverRequest is the snake_case mutation body for POST/PUT /api/drivers.
type driverRequest struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	AssignedBusID *int64 `json:"assigned_bus_id"`
}

func (h *DriverHandler) validate(req *driverRequest) FieldErrors {
	errs := FieldErrors{}
	errs.Require("name", req.Name)
	errs.Require("email", req.Email)
	if req.Email != "" && !strings.Contains(req.Email, "@") {
		errs.Add("email", "The email must be a valid email address.")
	}
	if req.AssignedBusID != nil {
		bus, err := db.GetBus(h.DB, *req.AssignedBusID)
		if err == nil && bus == nil {
			errs.Add("assigned_bus_id", "The selected assigned_bus_id is invalid.")
		}
	}
	return errs
}

// List handles GET /api/drivers
func (h *DriverHandler) List(w http.ResponseWriter, r *http.Request) {
	drivers, err := db.ListDrivers(h.DB)
	if err != nil {
		JSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	JSONData(w, drivers)
}

// Create handles POST /api/drivers
func (h *DriverHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req driverRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		JSONError(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if h.validate(&req).Respond(w) {
		return
	}

	driver, err := db.CreateDriver(h.DB, models.Driver{
		Name:          req.Name,
		Email:         req.Email,
		Phone:         req.Phone,
		AssignedBusID: req.AssignedBusID,
	})
	if err != nil {
		JSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusCreated)
	JSONData(w, driver)
}

// Update handles PUT /api/drivers/{id}
func (h *DriverHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := PathID(w, r)
	if !ok {
		return
	}

	existing, err := db.GetDriver(h.DB, id)
	if err != nil {
		JSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if existing == nil {
		JSONError(w, "driver not found", http.StatusNotFound)
		return
	}

	var req driverRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		JSONError(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if h.validate(&req).Respond(w) {
		return
	}

	driver := models.Driver{ID: id, Name: req.Name, Email: req.Email, Phone: req.Phone, AssignedBusID: req.AssignedBusID}
	if err := db.UpdateDriver(h.DB, driver); err != nil {
		JSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	JSONData(w, driver)
}

// Delete handles DELETE /api/drivers/{id}
func (h *DriverHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := PathID(w, r)
	if !ok {
		return
	}
	if err := db.DeleteDriver(h.DB, id); err != nil {
		JSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	JSONResponse(w, map[string]string{"status": "deleted"})
}

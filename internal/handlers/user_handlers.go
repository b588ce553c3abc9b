package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strings"

	"slgps/internal/auth"
	"slgps/internal/db"
	"slgps/internal/models"
)

// UserHandler handles dashboard account CRUD requests
type UserHandler struct {
	DB *sql.DB
}

// NewUserHandler creates a new user handler
func NewUserHandler(database *sql.DB) *UserHandler {
	return &UserHandler{DB: database}
}

// userRequest is the snake_case mutation body for POST/PUT /api/users.
// Password is optional on update.
type userRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Status   string `json:"status"`
	Password string `json:"password"`
}

func (req *userRequest) validate(creating bool) FieldErrors {
	errs := FieldErrors{}
	errs.Require("name", req.Name)
	errs.Require("email", req.Email)
	if req.Email != "" && !strings.Contains(req.Email, "@") {
		errs.Add("email", "The email must be a valid email address.")
	}
	errs.OneOf("role", req.Role, models.RoleAdmin, models.RoleManager, models.RoleUser)
	errs.OneOf("status", req.Status, models.UserActive, models.UserSuspended)
	if creating && len(req.Password) < 6 {
		errs.Add("password", "The password must be at least 6 characters.")
	}
	if !creating && req.Password != "" && len(req.Password) < 6 {
		errs.Add("password", "The password must be at least 6 characters.")
	}
	return errs
}

// List handles GET /api/users
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := db.ListAdminUsers(h.DB)
	if err != nil {
		JSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	JSONData(w, users)
}

// Create handles POST /api/users
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		JSONError(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if req.Role == "" {
		req.Role = models.RoleUser
	}
	if req.Status == "" {
		req.Status = models.UserActive
	}
	if req.validate(true).Respond(w) {
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		JSONError(w, "Failed to hash password", http.StatusInternalServerError)
		return
	}

	user, err := db.CreateAdminUser(h.DB, models.AdminUser{
		Name:         req.Name,
		Email:        req.Email,
		Role:         req.Role,
		Status:       req.Status,
		PasswordHash: hash,
	})
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			errs := FieldErrors{}
			errs.Add("email", "The email has already been taken.")
			errs.Respond(w)
			return
		}
		JSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusCreated)
	JSONData(w, user)
}

// Update handles PUT /api/users/{id}
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := PathID(w, r)
	if !ok {
		return
	}

	existing, err := db.GetAdminUser(h.DB, id)
	if err != nil {
		JSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if existing == nil {
		JSONError(w, "user not found", http.StatusNotFound)
		return
	}

	var req userRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		JSONError(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if req.Role == "" {
		req.Role = existing.Role
	}
	if req.Status == "" {
		req.Status = existing.Status
	}
	if req.validate(false).Respond(w) {
		return
	}

	user := models.AdminUser{
		ID:        id,
		Name:      req.Name,
		Email:     req.Email,
		Role:      req.Role,
		Status:    req.Status,
		CreatedAt: existing.CreatedAt,
	}
	if req.Password != "" {
		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			JSONError(w, "Failed to hash password", http.StatusInternalServerError)
			return
		}
		user.PasswordHash = hash
	}

	if err := db.UpdateAdminUser(h.DB, user); err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			errs := FieldErrors{}
			errs.Add("email", "The email has already been taken.")
			errs.Respond(w)
			return
		}
		JSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	JSONData(w, user)
}

// Delete handles DELETE /api/users/{id}
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := PathID(w, r)
	if !ok {
		return
	}
	if err := db.DeleteAdminUser(h.DB, id); err != nil {
		JSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	JSONResponse(w, map[string]string{"status": "deleted"})
}

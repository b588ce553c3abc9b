package auth

import (
	"encoding/json"
	"log"
	"net/http"

	"slgps/internal/db"
	"slgps/internal/models"
)

// Login handles POST /api/login. On success the response carries the
// bearer token and the user record the dashboard keeps in its session
// store: {token, user: {id, name, email}}.
func Login(config models.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var creds struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}

		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
			jsonError(w, "Invalid request", http.StatusBadRequest)
			return
		}

		user, err := db.GetAdminUserByEmail(db.DB, creds.Email)
		if err != nil {
			jsonError(w, "Database error", http.StatusInternalServerError)
			return
		}
		if user == nil || !CheckPassword(user.PasswordHash, creds.Password) {
			jsonError(w, "Invalid email or password", http.StatusUnauthorized)
			return
		}
		if user.Status != models.UserActive {
			jsonError(w, "Account suspended", http.StatusForbidden)
			return
		}

		token, _, err := CreateSession(user.ID)
		if err != nil {
			jsonError(w, "Failed to create session", http.StatusInternalServerError)
			return
		}

		log.Printf("🔓 Login: %s", user.Email)
		jsonResponse(w, map[string]interface{}{
			"token": token,
			"user": map[string]interface{}{
				"id":    user.ID,
				"name":  user.Name,
				"email": user.Email,
			},
		})
	}
}

// Logout handles POST /api/logout
func Logout(w http.ResponseWriter, r *http.Request) {
	session := GetSessionFromRequest(r)
	if session != nil {
		DeleteSession(session.Token)
		log.Printf("🔒 Logout: %s", session.Email)
	}
	jsonResponse(w, map[string]string{"status": "logged_out"})
}

// GetCurrentUser handles GET /api/me
func GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	session := GetSessionFromContext(r)
	if session == nil {
		jsonError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	jsonResponse(w, map[string]interface{}{
		"id":    session.UserID,
		"name":  session.Name,
		"email": session.Email,
	})
}

func jsonResponse(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("⚠️  Failed to encode JSON response: %v", err)
	}
}

func jsonError(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

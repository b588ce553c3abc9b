package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
)

// JSONResponse sends a JSON response
func JSONResponse(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("⚠️  Failed to encode JSON response: %v", err)
	}
}

// JSONData wraps a payload in the {"data": ...} envelope every list and
// summary endpoint uses.
func JSONData(w http.ResponseWriter, data interface{}) {
	JSONResponse(w, map[string]interface{}{"data": data})
}

// JSONError sends a JSON error response
func JSONError(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// ─── Validation ──────────────────────────────────────────────────────────────

// FieldErrors collects per-field validation messages for a 422 response.
type FieldErrors map[string][]string

// Add appends a message for a field.
func (fe FieldErrors) Add(field, message string) {
	fe[field] = append(fe[field], message)
}

// Require adds a "required" message when value is empty.
func (fe FieldErrors) Require(field, value string) {
	if value == "" {
		fe.Add(field, "The "+field+" field is required.")
	}
}

// OneOf adds a message when value is not in the allowed set. Empty values
// are left to Require.
func (fe FieldErrors) OneOf(field, value string, allowed ...string) {
	if value == "" {
		return
	}
	for _, a := range allowed {
		if value == a {
			return
		}
	}
	fe.Add(field, "The selected "+field+" is invalid.")
}

// Respond writes the 422 body {"errors": {field: [messages]}} and reports
// whether any errors were present.
func (fe FieldErrors) Respond(w http.ResponseWriter) bool {
	if len(fe) == 0 {
		return false
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnprocessableEntity)
	json.NewEncoder(w).Encode(map[string]interface{}{"errors": fe})
	return true
}

// PathID parses the {id} path value, writing a 400 on failure.
func PathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		JSONError(w, "invalid id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

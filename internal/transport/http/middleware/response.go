package middleware

import (
	"encoding/json"
	"net/http"
)

// writeJSONError renders the error body for requests the middleware
// rejects before any handler runs; handlers have their own envelope
// helpers. The shape matches theirs so clients see one error format.
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

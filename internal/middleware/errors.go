package middleware

import (
	"encoding/json"
	"net/http"
)

// writeError writes the API's standard error envelope. It matches the body
// the handler package produces so clients see one error shape.
func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{"code": code, "message": message},
	})
}

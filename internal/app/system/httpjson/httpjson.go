// internal/app/system/httpjson/httpjson.go
package httpjson

import (
	"encoding/json"
	"net/http"
)

// OK writes a JSON success envelope. The payload map is merged into the
// envelope alongside "success": true, so callers pass their own keys
// ("user", "tasks", "token", ...).
func OK(w http.ResponseWriter, status int, payload map[string]any) {
	body := make(map[string]any, len(payload)+1)
	for k, v := range payload {
		body[k] = v
	}
	body["success"] = true
	write(w, status, body)
}

// Error writes {"success": false, "message": ...} with the given status.
func Error(w http.ResponseWriter, status int, message string) {
	write(w, status, map[string]any{
		"success": false,
		"message": message,
	})
}

// Decode reads a JSON request body into dst. Unknown fields are
// tolerated; malformed JSON is not.
func Decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	return dec.Decode(dst)
}

func write(w http.ResponseWriter, status int, body map[string]any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	// Encoding a map of JSON-safe values does not fail in practice;
	// if it somehow does, the status line has already been sent.
	_ = json.NewEncoder(w).Encode(body)
}

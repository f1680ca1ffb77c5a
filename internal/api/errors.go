package api

import (
	"encoding/json"
	"net/http"
)

// Error is the wire shape of every error response.
type Error struct {
	Error string `json:"error"`
}

// writeJSON writes a JSON response with the given status code and payload.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		//nolint:errcheck // Best-effort write to response; connection may be closed
		json.NewEncoder(w).Encode(v)
	}
}

// writeError writes an error response using the canonical status text,
// e.g. {"error": "Not Found"}. Internal detail never reaches the caller.
func writeError(w http.ResponseWriter, status int) {
	writeJSON(w, status, Error{Error: http.StatusText(status)})
}

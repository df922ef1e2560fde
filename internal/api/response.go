// ABOUTME: The JSON response envelope and error responders shared by all handlers.
// ABOUTME: Every response is {success, msg, data}; errors carry a tagged service name.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// envelope is the fixed response shape for every API endpoint.
type envelope struct {
	Success bool   `json:"success"`
	Msg     string `json:"msg"`
	Data    any    `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

// ok writes a 200 envelope.
func ok(w http.ResponseWriter, msg string, data any) {
	writeJSON(w, http.StatusOK, envelope{Success: true, Msg: msg, Data: data})
}

// invalid writes a 422 envelope carrying the first validation message,
// tagged with the reporting service.
func invalid(w http.ResponseWriter, service, msg string) {
	writeJSON(w, http.StatusUnprocessableEntity, envelope{
		Success: false,
		Msg:     service + ": " + msg,
	})
}

// fail forwards a collaborator error to the client unmodified except for the
// tagged service name. status distinguishes broker (502) from persistence
// (500) failures.
func fail(w http.ResponseWriter, r *http.Request, status int, service string, err error) {
	slog.ErrorContext(r.Context(), "request failed", "service", service, "error", err)
	writeJSON(w, status, envelope{
		Success: false,
		Msg:     service + ": " + err.Error(),
	})
}

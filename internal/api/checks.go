// ABOUTME: HTTP handlers for check record CRUD: create, list by monitor, delete by monitor.
// ABOUTME: Schema-validated pass-throughs to the store — no control logic lives here.
package api

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/alvarotorrestx/bluewave-uptime/internal/store"
)

// svcChecks tags check-service errors in responses and logs.
const svcChecks = "checkService"

type createCheckBody struct {
	MonitorID      string `json:"monitor_id"`
	URL            string `json:"url"`
	StatusCode     int    `json:"status_code"`
	ResponseTimeMS int    `json:"response_time_ms"`
	Up             bool   `json:"up"`
	Detail         string `json:"detail"`
}

// validate returns the first validation failure, or "" when the body is valid.
func (b createCheckBody) validate() string {
	if strings.TrimSpace(b.MonitorID) == "" {
		return "monitor_id is required"
	}
	if strings.TrimSpace(b.URL) == "" {
		return "url is required"
	}
	u, err := url.Parse(b.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "url must be absolute"
	}
	if b.StatusCode < 0 || b.StatusCode > 599 {
		return "status_code must be a valid HTTP status"
	}
	if b.ResponseTimeMS < 0 {
		return "response_time_ms must not be negative"
	}
	return ""
}

func toCreateParams(b createCheckBody) store.CreateCheckParams {
	return store.CreateCheckParams{
		MonitorID:      b.MonitorID,
		URL:            b.URL,
		StatusCode:     b.StatusCode,
		ResponseTimeMS: b.ResponseTimeMS,
		Up:             b.Up,
		Detail:         b.Detail,
	}
}

// createCheckHandler handles POST /api/v1/checks.
func (srv *Server) createCheckHandler(w http.ResponseWriter, r *http.Request) {
	var body createCheckBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		invalid(w, svcChecks, "invalid request body")
		return
	}
	if msg := body.validate(); msg != "" {
		invalid(w, svcChecks, msg)
		return
	}

	check, err := srv.checks.CreateCheck(r.Context(), toCreateParams(body))
	if err != nil {
		fail(w, r, http.StatusInternalServerError, svcChecks, err)
		return
	}
	ok(w, "check created", check)
}

// getChecksHandler handles GET /api/v1/monitors/{monitor_id}/checks.
func (srv *Server) getChecksHandler(w http.ResponseWriter, r *http.Request) {
	monitorID := chi.URLParam(r, "monitor_id")
	if strings.TrimSpace(monitorID) == "" {
		invalid(w, svcChecks, "monitor_id is required")
		return
	}

	checks, err := srv.checks.GetChecks(r.Context(), monitorID)
	if err != nil {
		fail(w, r, http.StatusInternalServerError, svcChecks, err)
		return
	}
	ok(w, "checks retrieved", checks)
}

// deleteChecksHandler handles DELETE /api/v1/monitors/{monitor_id}/checks.
func (srv *Server) deleteChecksHandler(w http.ResponseWriter, r *http.Request) {
	monitorID := chi.URLParam(r, "monitor_id")
	if strings.TrimSpace(monitorID) == "" {
		invalid(w, svcChecks, "monitor_id is required")
		return
	}

	deleted, err := srv.checks.DeleteChecks(r.Context(), monitorID)
	if err != nil {
		fail(w, r, http.StatusInternalServerError, svcChecks, err)
		return
	}
	ok(w, "checks deleted", map[string]int64{"deleted": deleted})
}

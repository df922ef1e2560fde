// ABOUTME: HTTP handlers for repeatable job management: submit, list, purge.
// ABOUTME: Each mutating call goes through the autoscaling controller, which rescales the pool.
package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/alvarotorrestx/bluewave-uptime/internal/probe"
)

// svcJobs tags job-service errors in responses and logs.
const svcJobs = "jobService"

type submitJobBody struct {
	Name string `json:"name"`
	// Payload is the monitor configuration the workers execute.
	Payload json.RawMessage `json:"payload"`
	EveryMS int64           `json:"every_ms"`
	Limit   int             `json:"limit"`
}

// validate returns the first validation failure, or "" when the body is valid.
func (b submitJobBody) validate() string {
	if strings.TrimSpace(b.Name) == "" {
		return "name is required"
	}
	if b.EveryMS <= 0 {
		return "every_ms must be positive"
	}
	if b.Limit <= 0 {
		return "limit must be positive"
	}
	var m probe.Monitor
	if err := json.Unmarshal(b.Payload, &m); err != nil {
		return "payload must be a monitor configuration"
	}
	if strings.TrimSpace(m.URL) == "" {
		return "payload.url is required"
	}
	return ""
}

type jobEntry struct {
	Name    string          `json:"name"`
	Payload json.RawMessage `json:"payload"`
	EveryMS int64           `json:"every_ms"`
	Limit   int             `json:"limit"`
}

// submitJobHandler handles POST /api/v1/jobs. The controller enqueues the
// job and immediately rescales the worker pool.
func (srv *Server) submitJobHandler(w http.ResponseWriter, r *http.Request) {
	var body submitJobBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		invalid(w, svcJobs, "invalid request body")
		return
	}
	if msg := body.validate(); msg != "" {
		invalid(w, svcJobs, msg)
		return
	}

	every := time.Duration(body.EveryMS) * time.Millisecond
	if err := srv.jobs.SubmitJob(r.Context(), body.Name, body.Payload, every, body.Limit); err != nil {
		fail(w, r, http.StatusBadGateway, svcJobs, err)
		return
	}
	ok(w, "job submitted", map[string]any{
		"name":      body.Name,
		"pool_size": srv.jobs.PoolSize(),
	})
}

// listJobsHandler handles GET /api/v1/jobs.
func (srv *Server) listJobsHandler(w http.ResponseWriter, r *http.Request) {
	jobs, err := srv.jobs.ListJobs(r.Context())
	if err != nil {
		fail(w, r, http.StatusBadGateway, svcJobs, err)
		return
	}
	entries := make([]jobEntry, 0, len(jobs))
	for _, j := range jobs {
		entries = append(entries, jobEntry{
			Name:    j.Name,
			Payload: j.Payload,
			EveryMS: j.Every.Milliseconds(),
			Limit:   j.Limit,
		})
	}
	ok(w, "jobs retrieved", entries)
}

// purgeJobsHandler handles DELETE /api/v1/jobs. Workers are not torn down
// here unless drain-on-purge is configured; they idle until the next
// submit-triggered cycle scales them away.
func (srv *Server) purgeJobsHandler(w http.ResponseWriter, r *http.Request) {
	if err := srv.jobs.Purge(r.Context()); err != nil {
		fail(w, r, http.StatusBadGateway, svcJobs, err)
		return
	}
	ok(w, "queue purged", map[string]int{"pool_size": srv.jobs.PoolSize()})
}

// ABOUTME: HTTP server struct, constructor, and router wiring.
// ABOUTME: Holds the check store and the job controller consumed by the handlers.
package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/alvarotorrestx/bluewave-uptime/internal/config"
	"github.com/alvarotorrestx/bluewave-uptime/internal/queue"
	"github.com/alvarotorrestx/bluewave-uptime/internal/store"
)

// JobController is the autoscaling controller surface the job endpoints
// consume. Satisfied by *scaling.Controller; faked in tests.
type JobController interface {
	SubmitJob(ctx context.Context, name string, payload json.RawMessage, every time.Duration, limit int) error
	ListJobs(ctx context.Context) ([]queue.Job, error)
	Purge(ctx context.Context) error
	PoolSize() int
}

// Pinger is a reachability probe for a backing service.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server holds the dependencies for the HTTP layer.
type Server struct {
	checks      store.CheckStore
	jobs        JobController
	db          Pinger // nil in tests without a database
	broker      Pinger // nil in tests without a broker
	rateLimiter *ipRateLimiter
}

// NewServer creates a Server.
func NewServer(cfg *config.Config, checks store.CheckStore, jobs JobController, db, broker Pinger) *Server {
	evictTTL := cfg.RateLimitEvictTTL
	if evictTTL == 0 {
		evictTTL = 15 * time.Minute
	}
	// 60 mutating requests per minute per IP, burst of 20.
	rl := newIPRateLimiter(rate.Limit(1), 20, evictTTL)
	return &Server{
		checks:      checks,
		jobs:        jobs,
		db:          db,
		broker:      broker,
		rateLimiter: rl,
	}
}

// Handler builds and returns the http.Handler.
func (srv *Server) Handler() http.Handler {
	r := chi.NewRouter()

	// Security headers first so they appear on every response including errors.
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "DENY")
			next.ServeHTTP(w, r)
		})
	})

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	// 1 MB global body limit — monitor payloads are small.
	r.Use(middleware.RequestSize(1 << 20))
	r.Use(middleware.Recoverer)

	// ── Infrastructure endpoints ──────────────────────────────────────────────
	r.Get("/healthz", srv.healthzHandler)
	r.Handle("/metrics", promhttp.Handler())

	// ── API v1 ────────────────────────────────────────────────────────────────
	r.Route("/api/v1", func(r chi.Router) {
		r.With(srv.limitMiddleware).Post("/checks", srv.createCheckHandler)
		r.Route("/monitors/{monitor_id}/checks", func(r chi.Router) {
			r.Get("/", srv.getChecksHandler)
			r.With(srv.limitMiddleware).Delete("/", srv.deleteChecksHandler)
		})

		r.Route("/jobs", func(r chi.Router) {
			r.Get("/", srv.listJobsHandler)
			r.With(srv.limitMiddleware).Post("/", srv.submitJobHandler)
			r.With(srv.limitMiddleware).Delete("/", srv.purgeJobsHandler)
		})
	})

	return r
}

// healthResponse is the JSON body for /healthz.
type healthResponse struct {
	Status   string `json:"status"`
	DB       string `json:"db,omitempty"`
	Broker   string `json:"broker,omitempty"`
	PoolSize int    `json:"pool_size"`
}

// healthzHandler returns 200 when both the database and the broker are
// reachable, 503 otherwise.
func (srv *Server) healthzHandler(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok"}
	status := http.StatusOK

	if srv.db == nil {
		resp.Status, resp.DB = "degraded", "unavailable"
		status = http.StatusServiceUnavailable
	} else if err := srv.db.Ping(r.Context()); err != nil {
		slog.WarnContext(r.Context(), "healthz: db ping failed", "error", err)
		resp.Status, resp.DB = "degraded", "unavailable"
		status = http.StatusServiceUnavailable
	}

	if srv.broker == nil {
		resp.Status, resp.Broker = "degraded", "unavailable"
		status = http.StatusServiceUnavailable
	} else if err := srv.broker.Ping(r.Context()); err != nil {
		slog.WarnContext(r.Context(), "healthz: broker ping failed", "error", err)
		resp.Status, resp.Broker = "degraded", "unavailable"
		status = http.StatusServiceUnavailable
	}

	if srv.jobs != nil {
		resp.PoolSize = srv.jobs.PoolSize()
	}
	writeJSON(w, status, resp)
}

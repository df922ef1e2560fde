// Package config parses and validates all application configuration from
// environment variables using caarlos0/env/v11.
//
// Call [Load] once at startup; pass the resulting [Config] (or the slice of
// it each constructor needs) into the components. Nothing else in this
// repository reads the environment directly — every knob flows through this
// struct so tests can build independently configured instances with mock
// broker and worker collaborators.
package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all application configuration sourced from environment variables.
type Config struct {
	// ── Database ─────────────────────────────────────────────────────────────────
	DatabaseURL          string        `env:"DATABASE_URL,required"`
	DBMaxConns           int32         `env:"DB_MAX_CONNS"            envDefault:"25"`
	DBMaxConnIdleTime    time.Duration `env:"DB_MAX_CONN_IDLE_TIME"   envDefault:"5m"`
	DBStatementTimeoutMS int           `env:"DB_STATEMENT_TIMEOUT_MS" envDefault:"14000"`

	// ── Broker ───────────────────────────────────────────────────────────────────
	RedisAddr     string `env:"REDIS_ADDR"     envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB"       envDefault:"0"`
	// QueueName is the logical channel carrying monitor jobs.
	QueueName string `env:"QUEUE_NAME" envDefault:"monitors"`

	// ── Scaling ──────────────────────────────────────────────────────────────────
	// CapacityPerWorker is the maximum number of concurrently pending
	// repeatable jobs one worker is expected to service before another worker
	// is warranted. A static heuristic, not derived from measured throughput.
	CapacityPerWorker int `env:"CAPACITY_PER_WORKER" envDefault:"5"`
	// DrainOnPurge scales the pool down to zero after a successful purge.
	// Off by default: idle workers avoid churn when jobs come back.
	DrainOnPurge bool `env:"DRAIN_ON_PURGE" envDefault:"false"`

	// ── Workers ──────────────────────────────────────────────────────────────────
	WorkerPollInterval time.Duration `env:"WORKER_POLL_INTERVAL" envDefault:"1s"`
	WorkerCloseTimeout time.Duration `env:"WORKER_CLOSE_TIMEOUT" envDefault:"5s"`
	// WorkerLease is how long a claimed job stays invisible to other workers
	// before it becomes due again.
	WorkerLease time.Duration `env:"WORKER_LEASE" envDefault:"30s"`

	// ── Probes ───────────────────────────────────────────────────────────────────
	ProbeTimeout time.Duration `env:"PROBE_TIMEOUT" envDefault:"10s"`

	// ── Server ───────────────────────────────────────────────────────────────────
	ListenAddr             string `env:"LISTEN_ADDR"              envDefault:":8080"`
	AppEnv                 string `env:"APP_ENV"                  envDefault:"development"`
	ShutdownTimeoutSeconds int    `env:"SHUTDOWN_TIMEOUT_SECONDS" envDefault:"30"`

	// ── Rate limiting ────────────────────────────────────────────────────────────
	RateLimitEvictTTL time.Duration `env:"RATE_LIMIT_EVICT_TTL" envDefault:"15m"`

	// ── Logging ──────────────────────────────────────────────────────────────────
	LogLevel  string `env:"LOG_LEVEL"  envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`
}

// Load parses and returns Config from environment variables.
// Returns an error if any required field is missing.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// IsDevelopment reports whether the application is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// ABOUTME: The autoscaling controller: submit/list/purge entry points, each followed
// ABOUTME: by an estimate+scale cycle serialized under a single mutex.
package scaling

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/alvarotorrestx/bluewave-uptime/internal/queue"
)

// DefaultCapacityPerWorker is the pending-jobs-per-worker threshold used
// when the config leaves it unset.
const DefaultCapacityPerWorker = 5

// Config carries the controller's policy knobs. Passed explicitly into New
// so multiple independently configured controllers can coexist in one
// process (and in tests).
type Config struct {
	// CapacityPerWorker is the load threshold per worker. Defaults to
	// DefaultCapacityPerWorker when ≤ 0.
	CapacityPerWorker int
	// DrainOnPurge scales the pool to zero after a successful purge. When
	// false (the default) workers idle until the next submit-triggered cycle
	// scales them down.
	DrainOnPurge bool
}

// Controller composes the queue collaborator, the worker pool, and the load
// estimator. Every mutating queue operation is followed synchronously by a
// load recompute and rescale, so the pool self-corrects after each change.
//
// The mutex serializes the estimate+scale critical section: concurrent
// submits read a consistent pool size and cannot double-apply the same
// excess.
type Controller struct {
	mu       sync.Mutex
	cfg      Config
	queue    queue.Queue
	pool     *Pool
	estimate Estimator
}

// New creates a Controller scaling workers from factory against q.
func New(cfg Config, q queue.Queue, factory queue.Factory) *Controller {
	if cfg.CapacityPerWorker <= 0 {
		cfg.CapacityPerWorker = DefaultCapacityPerWorker
	}
	return &Controller{
		cfg:      cfg,
		queue:    q,
		pool:     NewPool(factory),
		estimate: JobsPerWorker,
	}
}

// Init verifies the broker is reachable, reads the current repeatable-job
// count, and runs one scale cycle. The pool starts empty, so the bootstrap
// path fires and guarantees one live worker before any load is estimated.
func (c *Controller) Init(ctx context.Context) error {
	if err := c.queue.Ping(ctx); err != nil {
		return err
	}
	jobs, err := c.queue.ListRepeatable(ctx)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rescale(len(jobs))
}

// SubmitJob enqueues a repeating job, then re-estimates load and rescales.
// If the queue rejects the job the pool is left unscaled — no partial state.
func (c *Controller) SubmitJob(ctx context.Context, name string, payload json.RawMessage, every time.Duration, limit int) error {
	job := queue.Job{Name: name, Payload: payload, Every: every, Limit: limit}
	if err := c.queue.EnqueueRepeatable(ctx, job); err != nil {
		return err
	}
	// Re-query rather than counting locally so the scale decision never runs
	// on a stale job count.
	jobs, err := c.queue.ListRepeatable(ctx)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rescale(len(jobs))
}

// ListJobs returns the pending repeatable jobs. No effect on the pool.
func (c *Controller) ListJobs(ctx context.Context) ([]queue.Job, error) {
	return c.queue.ListRepeatable(ctx)
}

// Purge removes all jobs and schedules from the queue. By default workers
// are not torn down — they idle until a later cycle scales them away. With
// DrainOnPurge set, the pool is scaled to zero after a successful purge.
func (c *Controller) Purge(ctx context.Context) error {
	if err := c.queue.PurgeAll(ctx); err != nil {
		return err
	}
	if c.cfg.DrainOnPurge {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.pool.Shrink(c.pool.Size())
	}
	return nil
}

// PoolSize returns the current number of live workers.
func (c *Controller) PoolSize() int {
	return c.pool.Size()
}

// rescale runs one estimate+scale cycle for the given pending-job count.
// Callers must hold c.mu.
func (c *Controller) rescale(pending int) error {
	size := c.pool.Size()
	var load Load
	if size > 0 {
		load = c.estimate(pending, size)
	}
	// With size == 0 the load is undefined; Plan's bootstrap branch decides
	// without looking at it.
	d := Plan(size, load, pending, c.cfg.CapacityPerWorker)
	switch d.Action {
	case ActionAdd:
		slog.Info("scaling up",
			"pending", pending, "pool_size", size, "load", float64(load), "add", d.Delta)
		return c.pool.Grow(d.Delta)
	case ActionRemove:
		if d.Delta > 0 {
			slog.Info("scaling down",
				"pending", pending, "pool_size", size, "load", float64(load), "remove", d.Delta)
			c.pool.Shrink(d.Delta)
		}
	case ActionNone:
	}
	return nil
}

// ABOUTME: The worker handle bound to a RedisQueue: poll loop, claim, execute, reschedule.
// ABOUTME: Close is best-effort — a worker that won't stop within the timeout reports CloseError.
package queue

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// redisWorker polls the schedule for due jobs and runs the processing
// function on each. One goroutine per worker; the pool owns the handle.
type redisWorker struct {
	id           string
	cancel       context.CancelFunc
	done         chan struct{}
	closeTimeout time.Duration
}

// NewWorker starts a worker bound to q and process and returns its handle.
// The worker runs until Close is called.
func (q *RedisQueue) NewWorker(process ProcessFunc) Worker {
	ctx, cancel := context.WithCancel(context.Background())
	w := &redisWorker{
		id:           uuid.New().String(),
		cancel:       cancel,
		done:         make(chan struct{}),
		closeTimeout: q.opts.CloseTimeout,
	}
	go w.run(ctx, q, process)
	return w
}

func (w *redisWorker) run(ctx context.Context, q *RedisQueue, process ProcessFunc) {
	defer close(w.done)

	// time.NewTicker (not time.After) to avoid timer leaks.
	ticker := time.NewTicker(q.opts.PollInterval)
	defer ticker.Stop()

	slog.Info("worker started", "worker_id", w.id, "queue", q.name)

	for {
		select {
		case <-ctx.Done():
			slog.Info("worker stopping", "worker_id", w.id, "queue", q.name)
			return
		case <-ticker.C:
			w.processOne(ctx, q, process)
		}
	}
}

// processOne claims at most one due job and executes it. Errors are logged
// but never stop the poll loop; the worker continues on the next tick.
func (w *redisWorker) processOne(ctx context.Context, q *RedisQueue, process ProcessFunc) {
	name, ok, err := q.claimDue(ctx)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			slog.Error("claim job error", "worker_id", w.id, "queue", q.name, "error", err)
		}
		return
	}
	if !ok {
		return // nothing due; normal case
	}

	spec, ok, err := q.loadSpec(ctx, name)
	if err != nil {
		slog.Error("load job spec error", "worker_id", w.id, "job", name, "error", err)
		return
	}
	if !ok {
		// Spec vanished between claim and load (purged or retired elsewhere).
		q.dropOrphan(ctx, name)
		return
	}

	if err := process(ctx, spec.job(name)); err != nil {
		// The execution failed but the schedule still advances; retry
		// semantics are delegated to the broker layer, not reinvented here.
		slog.Error("job execution failed", "worker_id", w.id, "job", name, "error", err)
	}

	if err := q.finish(ctx, name, spec); err != nil {
		slog.Error("reschedule job error", "worker_id", w.id, "job", name, "error", err)
	}
}

// Close stops the poll loop and waits up to the close timeout for it to
// exit. On timeout the goroutine may still be draining a probe; the caller
// drops the handle regardless.
func (w *redisWorker) Close() error {
	w.cancel()
	select {
	case <-w.done:
		return nil
	case <-time.After(w.closeTimeout):
		return &CloseError{WorkerID: w.id, Err: errors.New("timed out waiting for poll loop to exit")}
	}
}

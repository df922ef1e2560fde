// ABOUTME: The worker pool: an ordered, mutex-guarded LIFO slice of worker handles.
// ABOUTME: Grow creates workers via the injected factory; Shrink closes from the tail.
package scaling

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/alvarotorrestx/bluewave-uptime/internal/queue"
)

// Pool holds the live worker handles in insertion order. The last-added
// worker is the first removed. Only scale operations mutate it; the mutex
// covers reads from health and metrics paths.
type Pool struct {
	mu      sync.Mutex
	factory queue.Factory
	workers []queue.Worker
}

// NewPool creates an empty pool whose workers come from factory.
func NewPool(factory queue.Factory) *Pool {
	return &Pool{factory: factory}
}

// Size returns the number of tracked workers.
func (p *Pool) Size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.workers)
}

// Grow creates n workers and appends them to the pool. If the factory fails
// partway, the workers created so far stay in the pool and the error is
// returned.
func (p *Pool) Grow(n int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i := 0; i < n; i++ {
		w, err := p.factory()
		if err != nil {
			return fmt.Errorf("create worker %d of %d: %w", i+1, n, err)
		}
		p.workers = append(p.workers, w)
	}
	poolSizeGauge.Set(float64(len(p.workers)))
	scaleUpsTotal.Add(float64(n))
	return nil
}

// Shrink pops n workers from the tail of the pool (most recently added
// first) and closes each. A close failure is logged and counted, never
// propagated: the worker is dropped from the bookkeeping regardless, and the
// remaining removals proceed. n larger than the pool removes everything.
func (p *Pool) Shrink(n int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if n > len(p.workers) {
		n = len(p.workers)
	}
	for i := 0; i < n; i++ {
		last := len(p.workers) - 1
		w := p.workers[last]
		p.workers = p.workers[:last]
		if err := w.Close(); err != nil {
			closeFailuresTotal.Inc()
			var ce *queue.CloseError
			if errors.As(err, &ce) {
				slog.Error("worker close failed, dropping handle anyway",
					"worker_id", ce.WorkerID, "error", err)
			} else {
				slog.Error("worker close failed, dropping handle anyway", "error", err)
			}
		}
	}
	poolSizeGauge.Set(float64(len(p.workers)))
	scaleDownsTotal.Add(float64(n))
}

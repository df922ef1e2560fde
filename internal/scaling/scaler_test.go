package scaling

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlan_BootstrapAlwaysAddsOne(t *testing.T) {
	t.Parallel()
	for _, pending := range []int{0, 1, 5, 100} {
		d := Plan(0, 0, pending, 5)
		assert.Equal(t, ActionAdd, d.Action, "pending=%d", pending)
		assert.Equal(t, 1, d.Delta, "pending=%d", pending)
	}
}

func TestPlan_Decisions(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		poolSize int
		pending  int
		capacity int
		want     Decision
	}{
		{
			// One worker at capacity 5 with 12 pending: 7 excess jobs need
			// ceil(7/5) = 2 more workers.
			name:     "overloaded single worker",
			poolSize: 1, pending: 12, capacity: 5,
			want: Decision{Action: ActionAdd, Delta: 2},
		},
		{
			// Four workers can absorb 20 jobs but only 5 are pending:
			// 15 spare capacity releases floor(15/5) = 3 workers.
			name:     "underloaded pool",
			poolSize: 4, pending: 5, capacity: 5,
			want: Decision{Action: ActionRemove, Delta: 3},
		},
		{
			name:     "exactly at capacity",
			poolSize: 2, pending: 10, capacity: 5,
			want: Decision{Action: ActionNone},
		},
		{
			// Below capacity but not by a full worker's worth: remove 0.
			name:     "slack smaller than one worker",
			poolSize: 3, pending: 14, capacity: 5,
			want: Decision{Action: ActionRemove, Delta: 0},
		},
		{
			name:     "single excess job still adds a worker",
			poolSize: 1, pending: 6, capacity: 5,
			want: Decision{Action: ActionAdd, Delta: 1},
		},
		{
			name:     "empty queue drains to zero",
			poolSize: 3, pending: 0, capacity: 5,
			want: Decision{Action: ActionRemove, Delta: 3},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			load := JobsPerWorker(tt.pending, tt.poolSize)
			got := Plan(tt.poolSize, load, tt.pending, tt.capacity)
			assert.Equal(t, tt.want, got)
		})
	}
}

// A scale-up must always land the pool where pending/size is back within
// capacity, and a scale-down must never remove more workers than exist.
func TestPlan_ConvergenceProperties(t *testing.T) {
	t.Parallel()
	const capacity = 5
	for poolSize := 1; poolSize <= 10; poolSize++ {
		for pending := 0; pending <= 120; pending++ {
			load := JobsPerWorker(pending, poolSize)
			d := Plan(poolSize, load, pending, capacity)
			label := fmt.Sprintf("p=%d j=%d", poolSize, pending)

			switch d.Action {
			case ActionAdd:
				assert.GreaterOrEqual(t, d.Delta, 1, label)
				newSize := poolSize + d.Delta
				assert.LessOrEqual(t, pending, newSize*capacity,
					"%s: pool %d still overloaded", label, newSize)
			case ActionRemove:
				assert.GreaterOrEqual(t, d.Delta, 0, label)
				assert.LessOrEqual(t, d.Delta, poolSize, label)
			case ActionNone:
				assert.Equal(t, Load(capacity), load, label)
			}
		}
	}
}

// Applying a decision and re-planning with the resulting load must settle:
// the second decision is a no-op (or a zero-delta remove), never a reversal.
func TestPlan_NoOscillationAtConstantLoad(t *testing.T) {
	t.Parallel()
	const capacity = 5
	for poolSize := 1; poolSize <= 8; poolSize++ {
		for pending := 1; pending <= 80; pending++ {
			d := Plan(poolSize, JobsPerWorker(pending, poolSize), pending, capacity)
			newSize := poolSize
			switch d.Action {
			case ActionAdd:
				newSize += d.Delta
			case ActionRemove:
				newSize -= d.Delta
			}
			if newSize == 0 {
				continue // fully drained; next cycle is a bootstrap
			}
			second := Plan(newSize, JobsPerWorker(pending, newSize), pending, capacity)
			if second.Action != ActionNone && second.Delta != 0 {
				t.Fatalf("p=%d j=%d: first %v/%d then %v/%d — oscillation",
					poolSize, pending, d.Action, d.Delta, second.Action, second.Delta)
			}
		}
	}
}

func TestJobsPerWorker(t *testing.T) {
	t.Parallel()
	assert.InDelta(t, 1.25, float64(JobsPerWorker(5, 4)), 1e-9)
	assert.InDelta(t, 12.0, float64(JobsPerWorker(12, 1)), 1e-9)
	assert.True(t, math.Abs(float64(JobsPerWorker(0, 3))) < 1e-9)
}

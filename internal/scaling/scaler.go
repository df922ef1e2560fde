package scaling

import "math"

// Action is what a scale decision does to the pool.
type Action int

const (
	// ActionNone leaves the pool alone (steady state).
	ActionNone Action = iota
	// ActionAdd appends Delta new workers.
	ActionAdd
	// ActionRemove closes the Delta most recently added workers.
	ActionRemove
)

func (a Action) String() string {
	switch a {
	case ActionAdd:
		return "add"
	case ActionRemove:
		return "remove"
	default:
		return "none"
	}
}

// Decision is a pool-size delta produced by Plan.
type Decision struct {
	Action Action
	Delta  int
}

// Plan maps the current pool size and load to a pool-size delta. Pure
// function; branches are evaluated in priority order:
//
//  1. Empty pool: add exactly one worker regardless of load, guaranteeing
//     forward progress and a defined load on the next cycle.
//  2. Load above capacity: add ceil(excess jobs / capacity) workers.
//  3. Load below capacity: remove floor(excess capacity / capacity) workers.
//  4. Load equal to capacity: no-op.
func Plan(poolSize int, load Load, pendingJobs, capacityPerWorker int) Decision {
	if poolSize == 0 {
		return Decision{Action: ActionAdd, Delta: 1}
	}

	capacity := Load(capacityPerWorker)
	switch {
	case load > capacity:
		excessJobs := pendingJobs - poolSize*capacityPerWorker
		add := int(math.Ceil(float64(excessJobs) / float64(capacityPerWorker)))
		// Reached only when load exceeds capacity, so add is ≥ 1 already;
		// the clamp guards rounding edge cases with fractional loads.
		if add < 1 {
			add = 1
		}
		return Decision{Action: ActionAdd, Delta: add}
	case load < capacity:
		excessCapacity := poolSize*capacityPerWorker - pendingJobs
		return Decision{Action: ActionRemove, Delta: excessCapacity / capacityPerWorker}
	}
	return Decision{Action: ActionNone}
}

// Package scaling implements the worker-pool autoscaling controller: it
// tracks pending repeatable jobs against a fixed per-worker capacity and
// grows or shrinks the live worker set to keep load near that capacity.
//
// The load signal is abstracted behind [Estimator] so a future resource-aware
// signal (CPU, memory) can be substituted without touching the scaling math.
// Host metrics are deliberately not consulted today.
package scaling

// Load is the scaling signal: pending repeatable jobs per active worker.
type Load float64

// Estimator computes a Load from the current pending job count and worker
// count. Implementations must be pure and must never be called with
// workerCount == 0 — the controller bootstraps a worker first.
type Estimator func(pendingJobs, workerCount int) Load

// JobsPerWorker is the default estimator: the real-valued ratio of pending
// repeatable jobs to active workers.
func JobsPerWorker(pendingJobs, workerCount int) Load {
	return Load(float64(pendingJobs) / float64(workerCount))
}

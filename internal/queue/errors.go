package queue

import "fmt"

// ConnectionError means the broker could not be reached at all.
// Fatal to controller initialization.
type ConnectionError struct {
	Addr string
	Err  error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("queue: broker %s unreachable: %v", e.Addr, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// EnqueueError means the broker rejected or failed an enqueue. The pool is
// left unscaled when this surfaces from a submit.
type EnqueueError struct {
	Job string
	Err error
}

func (e *EnqueueError) Error() string {
	return fmt.Sprintf("queue: enqueue %q: %v", e.Job, e.Err)
}

func (e *EnqueueError) Unwrap() error { return e.Err }

// QueryError means listing repeatable jobs failed.
type QueryError struct {
	Err error
}

func (e *QueryError) Error() string { return fmt.Sprintf("queue: list repeatable: %v", e.Err) }

func (e *QueryError) Unwrap() error { return e.Err }

// PurgeError means the full purge failed; the queue may be partially cleared.
type PurgeError struct {
	Err error
}

func (e *PurgeError) Error() string { return fmt.Sprintf("queue: purge: %v", e.Err) }

func (e *PurgeError) Unwrap() error { return e.Err }

// CloseError means a worker failed to shut down cleanly. Non-fatal: the pool
// logs it, counts it, and drops the worker from its bookkeeping anyway.
type CloseError struct {
	WorkerID string
	Err      error
}

func (e *CloseError) Error() string {
	return fmt.Sprintf("queue: close worker %s: %v", e.WorkerID, e.Err)
}

func (e *CloseError) Unwrap() error { return e.Err }

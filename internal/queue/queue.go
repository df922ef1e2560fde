// Package queue defines the broker collaborators the autoscaling controller
// depends on: a durable repeatable-job queue and the workers bound to it.
//
// The concrete implementation here is Redis-backed (see RedisQueue), but the
// controller only sees the Queue, Worker, and Factory types, so tests supply
// in-memory fakes. Durability, retry, and delivery semantics belong to the
// broker — this package never re-delivers on its own.
package queue

import (
	"context"
	"encoding/json"
	"time"
)

// Job is a repeatable queue entry: it re-fires every Every until it has run
// Limit times. Payload is opaque to the queue — it is the monitor
// configuration the processing function executes.
type Job struct {
	Name    string          `json:"name"`
	Payload json.RawMessage `json:"payload"`
	Every   time.Duration   `json:"every"`
	Limit   int             `json:"limit"`
}

// ProcessFunc executes one due job. A non-nil error is logged by the worker;
// the job is still rescheduled for its next repeat — retry semantics are the
// broker's concern, not the worker's.
type ProcessFunc func(ctx context.Context, job Job) error

// Queue is the durable repeatable-job store.
type Queue interface {
	// Ping verifies the broker is reachable. Returns *ConnectionError when not.
	Ping(ctx context.Context) error
	// EnqueueRepeatable registers job to fire every job.Every up to job.Limit
	// times. Returns *EnqueueError if the broker rejects it.
	EnqueueRepeatable(ctx context.Context, job Job) error
	// ListRepeatable returns all currently pending repeatable jobs.
	// Returns *QueryError on broker failure.
	ListRepeatable(ctx context.Context) ([]Job, error)
	// PurgeAll unconditionally removes every job and its schedule.
	// Returns *PurgeError on broker failure.
	PurgeAll(ctx context.Context) error
}

// Worker is a live consumer bound to a queue and a processing function.
// It has no identity beyond its handle; the pool owns it exclusively.
type Worker interface {
	// Close stops the worker. Returns *CloseError if it did not shut down
	// cleanly; callers treat that as non-fatal.
	Close() error
}

// Factory creates a new Worker bound to the queue and processing function
// fixed at construction time. The pool calls it when scaling up.
type Factory func() (Worker, error)

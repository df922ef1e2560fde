// ABOUTME: Redis-backed implementation of the repeatable-job queue.
// ABOUTME: Job specs live in a hash; due-times in a sorted set scored by unix millis.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisOptions tune the broker-facing behavior of RedisQueue and its workers.
type RedisOptions struct {
	// PollInterval is how often each worker checks the schedule for due jobs.
	PollInterval time.Duration
	// Lease is how long a claimed job stays invisible to other workers.
	Lease time.Duration
	// CloseTimeout bounds how long Worker.Close waits for the poll loop to exit.
	CloseTimeout time.Duration
}

func (o RedisOptions) withDefaults() RedisOptions {
	if o.PollInterval <= 0 {
		o.PollInterval = time.Second
	}
	if o.Lease <= 0 {
		o.Lease = 30 * time.Second
	}
	if o.CloseTimeout <= 0 {
		o.CloseTimeout = 5 * time.Second
	}
	return o
}

// RedisQueue stores repeatable jobs in Redis under two keys per logical
// channel: a hash of job specs keyed by job name, and a sorted set of job
// names scored by next-due time in unix milliseconds.
type RedisQueue struct {
	rdb  *redis.Client
	name string
	opts RedisOptions
}

// NewRedis creates a RedisQueue on the named logical channel.
func NewRedis(rdb *redis.Client, name string, opts RedisOptions) *RedisQueue {
	return &RedisQueue{rdb: rdb, name: name, opts: opts.withDefaults()}
}

func (q *RedisQueue) repeatKey() string   { return fmt.Sprintf("uptime:%s:repeat", q.name) }
func (q *RedisQueue) scheduleKey() string { return fmt.Sprintf("uptime:%s:schedule", q.name) }

// jobSpec is the hash-stored form of a repeatable job. Remaining counts down
// from Limit; the job is destroyed when it reaches zero.
type jobSpec struct {
	Payload   json.RawMessage `json:"payload"`
	EveryMS   int64           `json:"every_ms"`
	Limit     int             `json:"limit"`
	Remaining int             `json:"remaining"`
}

func specFromJob(job Job) jobSpec {
	return jobSpec{
		Payload:   job.Payload,
		EveryMS:   job.Every.Milliseconds(),
		Limit:     job.Limit,
		Remaining: job.Limit,
	}
}

func (s jobSpec) job(name string) Job {
	return Job{
		Name:    name,
		Payload: s.Payload,
		Every:   time.Duration(s.EveryMS) * time.Millisecond,
		Limit:   s.Limit,
	}
}

// validateJob mirrors what the broker would reject: no name, no interval,
// or a payload that is not valid JSON.
func validateJob(job Job) error {
	if job.Name == "" {
		return errors.New("job name is empty")
	}
	if job.Every <= 0 {
		return errors.New("repeat interval must be positive")
	}
	if job.Limit <= 0 {
		return errors.New("repeat limit must be positive")
	}
	if len(job.Payload) > 0 && !json.Valid(job.Payload) {
		return errors.New("payload is not valid JSON")
	}
	return nil
}

// Ping verifies broker reachability.
func (q *RedisQueue) Ping(ctx context.Context) error {
	if err := q.rdb.Ping(ctx).Err(); err != nil {
		return &ConnectionError{Addr: q.rdb.Options().Addr, Err: err}
	}
	return nil
}

// EnqueueRepeatable registers job under its name and schedules the first
// fire one interval from now. Re-submitting an existing name replaces its
// spec and resets its schedule.
func (q *RedisQueue) EnqueueRepeatable(ctx context.Context, job Job) error {
	if err := validateJob(job); err != nil {
		return &EnqueueError{Job: job.Name, Err: err}
	}
	raw, err := json.Marshal(specFromJob(job))
	if err != nil {
		return &EnqueueError{Job: job.Name, Err: err}
	}

	due := float64(time.Now().Add(job.Every).UnixMilli())
	pipe := q.rdb.TxPipeline()
	pipe.HSet(ctx, q.repeatKey(), job.Name, raw)
	pipe.ZAdd(ctx, q.scheduleKey(), redis.Z{Score: due, Member: job.Name})
	if _, err := pipe.Exec(ctx); err != nil {
		return &EnqueueError{Job: job.Name, Err: err}
	}
	return nil
}

// ListRepeatable returns every pending repeatable job on the channel.
func (q *RedisQueue) ListRepeatable(ctx context.Context) ([]Job, error) {
	entries, err := q.rdb.HGetAll(ctx, q.repeatKey()).Result()
	if err != nil {
		return nil, &QueryError{Err: err}
	}
	jobs := make([]Job, 0, len(entries))
	for name, raw := range entries {
		var spec jobSpec
		if err := json.Unmarshal([]byte(raw), &spec); err != nil {
			return nil, &QueryError{Err: fmt.Errorf("decode spec for %q: %w", name, err)}
		}
		jobs = append(jobs, spec.job(name))
	}
	return jobs, nil
}

// PurgeAll removes all jobs and their schedules unconditionally.
func (q *RedisQueue) PurgeAll(ctx context.Context) error {
	if err := q.rdb.Del(ctx, q.repeatKey(), q.scheduleKey()).Err(); err != nil {
		return &PurgeError{Err: err}
	}
	return nil
}

// claimScript atomically pops one due job name and pushes its score forward
// by the lease so no other worker picks it up mid-execution.
var claimScript = redis.NewScript(`
local due = redis.call('ZRANGEBYSCORE', KEYS[1], '-inf', ARGV[1], 'LIMIT', 0, 1)
if #due == 0 then
  return false
end
redis.call('ZADD', KEYS[1], ARGV[2], due[1])
return due[1]
`)

// claimDue returns the name of one due job, or ok=false when nothing is due.
func (q *RedisQueue) claimDue(ctx context.Context) (string, bool, error) {
	now := time.Now().UnixMilli()
	lease := now + q.opts.Lease.Milliseconds()
	name, err := claimScript.Run(ctx, q.rdb,
		[]string{q.scheduleKey()},
		strconv.FormatInt(now, 10),
		strconv.FormatInt(lease, 10),
	).Text()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return name, true, nil
}

// loadSpec fetches the stored spec for name. ok=false means the job vanished
// between claim and load (purged or retired); the caller drops the schedule
// entry.
func (q *RedisQueue) loadSpec(ctx context.Context, name string) (jobSpec, bool, error) {
	raw, err := q.rdb.HGet(ctx, q.repeatKey(), name).Result()
	if errors.Is(err, redis.Nil) {
		return jobSpec{}, false, nil
	}
	if err != nil {
		return jobSpec{}, false, err
	}
	var spec jobSpec
	if err := json.Unmarshal([]byte(raw), &spec); err != nil {
		return jobSpec{}, false, err
	}
	return spec, true, nil
}

// rescheduleScript re-registers a job only while its spec still exists. A
// worker holds the spec in memory for the whole execution; if a purge lands
// in that window the job must stay gone, so the HSET/ZADD is guarded on
// HEXISTS instead of written unconditionally.
var rescheduleScript = redis.NewScript(`
if redis.call('HEXISTS', KEYS[1], ARGV[1]) == 0 then
  return 0
end
redis.call('HSET', KEYS[1], ARGV[1], ARGV[2])
redis.call('ZADD', KEYS[2], ARGV[3], ARGV[1])
return 1
`)

// finish records one completed execution: it decrements Remaining and either
// reschedules the job one interval out or, when the repeat limit is
// exhausted, destroys it. Rescheduling is conditional on the spec still
// being registered; a job purged mid-execution stays purged.
func (q *RedisQueue) finish(ctx context.Context, name string, spec jobSpec) error {
	spec.Remaining--
	if spec.Remaining <= 0 {
		pipe := q.rdb.TxPipeline()
		pipe.ZRem(ctx, q.scheduleKey(), name)
		pipe.HDel(ctx, q.repeatKey(), name)
		_, err := pipe.Exec(ctx)
		return err
	}
	raw, err := json.Marshal(spec)
	if err != nil {
		return err
	}
	due := time.Now().Add(time.Duration(spec.EveryMS) * time.Millisecond).UnixMilli()
	return rescheduleScript.Run(ctx, q.rdb,
		[]string{q.repeatKey(), q.scheduleKey()},
		name, string(raw), strconv.FormatInt(due, 10),
	).Err()
}

// dropOrphan removes a schedule entry whose spec no longer exists.
func (q *RedisQueue) dropOrphan(ctx context.Context, name string) {
	if err := q.rdb.ZRem(ctx, q.scheduleKey(), name).Err(); err != nil {
		slog.Error("drop orphan schedule entry error", "queue", q.name, "job", name, "error", err)
	}
}

// ABOUTME: Store methods for check records: one row per executed monitor probe.
// ABOUTME: Reads are newest-first per monitor; deletes are by monitor and return the count.
package store

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

// Check is one recorded probe outcome for a monitor.
type Check struct {
	ID             uuid.UUID `json:"id"`
	MonitorID      string    `json:"monitor_id"`
	URL            string    `json:"url"`
	StatusCode     int       `json:"status_code"`
	ResponseTimeMS int       `json:"response_time_ms"`
	Up             bool      `json:"up"`
	Detail         string    `json:"detail,omitempty"`
	CheckedAt      time.Time `json:"checked_at"`
}

// CreateCheckParams holds the fields for recording a check. Input validation
// is the caller's responsibility.
type CreateCheckParams struct {
	MonitorID      string
	URL            string
	StatusCode     int
	ResponseTimeMS int
	Up             bool
	Detail         string
}

// CheckStore defines the DB operations the HTTP handlers and the worker
// processing function need.
type CheckStore interface {
	CreateCheck(ctx context.Context, p CreateCheckParams) (*Check, error)
	GetChecks(ctx context.Context, monitorID string) ([]Check, error)
	DeleteChecks(ctx context.Context, monitorID string) (int64, error)
}

// CreateCheck inserts a check row and returns it with its generated id and
// timestamp.
func (s *Store) CreateCheck(ctx context.Context, p CreateCheckParams) (*Check, error) {
	id := uuid.New()
	query, args, err := psql.Insert("checks").
		Columns("id", "monitor_id", "url", "status_code", "response_time_ms", "up", "detail").
		Values(id, p.MonitorID, p.URL, p.StatusCode, p.ResponseTimeMS, p.Up, p.Detail).
		Suffix("RETURNING checked_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert: %w", err)
	}

	var checkedAt time.Time
	if err := s.pool.QueryRow(ctx, query, args...).Scan(&checkedAt); err != nil {
		return nil, fmt.Errorf("create check: %w", err)
	}
	return &Check{
		ID:             id,
		MonitorID:      p.MonitorID,
		URL:            p.URL,
		StatusCode:     p.StatusCode,
		ResponseTimeMS: p.ResponseTimeMS,
		Up:             p.Up,
		Detail:         p.Detail,
		CheckedAt:      checkedAt,
	}, nil
}

// GetChecks returns all checks for monitorID, newest first.
func (s *Store) GetChecks(ctx context.Context, monitorID string) ([]Check, error) {
	query, args, err := psql.Select("id", "monitor_id", "url", "status_code", "response_time_ms", "up", "detail", "checked_at").
		From("checks").
		Where(sq.Eq{"monitor_id": monitorID}).
		OrderBy("checked_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("get checks for %s: %w", monitorID, err)
	}
	defer rows.Close()

	var checks []Check
	for rows.Next() {
		var c Check
		if err := rows.Scan(&c.ID, &c.MonitorID, &c.URL, &c.StatusCode, &c.ResponseTimeMS, &c.Up, &c.Detail, &c.CheckedAt); err != nil {
			return nil, fmt.Errorf("scan check: %w", err)
		}
		checks = append(checks, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate checks: %w", err)
	}
	return checks, nil
}

// DeleteChecks removes every check for monitorID and returns how many rows
// were deleted.
func (s *Store) DeleteChecks(ctx context.Context, monitorID string) (int64, error) {
	query, args, err := psql.Delete("checks").
		Where(sq.Eq{"monitor_id": monitorID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete: %w", err)
	}

	ct, err := s.pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("delete checks for %s: %w", monitorID, err)
	}
	return ct.RowsAffected(), nil
}

// ABOUTME: Integration tests for the checks store against a real Postgres testcontainer.
package store_test

import (
	"context"
	"testing"

	"github.com/alvarotorrestx/bluewave-uptime/internal/store"
	"github.com/alvarotorrestx/bluewave-uptime/internal/testutil"
)

func TestCreateAndGetChecks(t *testing.T) {
	t.Parallel()
	s := testutil.NewTestDB(t)
	ctx := context.Background()

	first, err := s.CreateCheck(ctx, store.CreateCheckParams{
		MonitorID:      "mon-1",
		URL:            "https://example.com",
		StatusCode:     200,
		ResponseTimeMS: 42,
		Up:             true,
	})
	if err != nil {
		t.Fatalf("CreateCheck: %v", err)
	}
	if first.ID.String() == "" || first.CheckedAt.IsZero() {
		t.Fatalf("CreateCheck returned incomplete row: %+v", first)
	}

	_, err = s.CreateCheck(ctx, store.CreateCheckParams{
		MonitorID: "mon-1",
		URL:       "https://example.com",
		Detail:    "connection refused",
	})
	if err != nil {
		t.Fatalf("CreateCheck: %v", err)
	}

	// A different monitor's checks must not leak into the listing.
	if _, err := s.CreateCheck(ctx, store.CreateCheckParams{
		MonitorID: "mon-2",
		URL:       "https://other.example.com",
		Up:        true,
	}); err != nil {
		t.Fatalf("CreateCheck: %v", err)
	}

	checks, err := s.GetChecks(ctx, "mon-1")
	if err != nil {
		t.Fatalf("GetChecks: %v", err)
	}
	if len(checks) != 2 {
		t.Fatalf("GetChecks returned %d rows, want 2", len(checks))
	}
	for i := 1; i < len(checks); i++ {
		if checks[i].CheckedAt.After(checks[i-1].CheckedAt) {
			t.Errorf("checks not ordered newest first: %v before %v",
				checks[i-1].CheckedAt, checks[i].CheckedAt)
		}
	}
}

func TestGetChecks_UnknownMonitorIsEmpty(t *testing.T) {
	t.Parallel()
	s := testutil.NewTestDB(t)

	checks, err := s.GetChecks(context.Background(), "no-such-monitor")
	if err != nil {
		t.Fatalf("GetChecks: %v", err)
	}
	if len(checks) != 0 {
		t.Errorf("GetChecks returned %d rows, want 0", len(checks))
	}
}

func TestDeleteChecks(t *testing.T) {
	t.Parallel()
	s := testutil.NewTestDB(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := s.CreateCheck(ctx, store.CreateCheckParams{
			MonitorID: "mon-del",
			URL:       "https://example.com",
		}); err != nil {
			t.Fatalf("CreateCheck: %v", err)
		}
	}

	n, err := s.DeleteChecks(ctx, "mon-del")
	if err != nil {
		t.Fatalf("DeleteChecks: %v", err)
	}
	if n != 3 {
		t.Errorf("DeleteChecks removed %d rows, want 3", n)
	}

	checks, err := s.GetChecks(ctx, "mon-del")
	if err != nil {
		t.Fatalf("GetChecks: %v", err)
	}
	if len(checks) != 0 {
		t.Errorf("GetChecks after delete returned %d rows, want 0", len(checks))
	}
}

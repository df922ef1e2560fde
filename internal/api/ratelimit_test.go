// ABOUTME: Tests for the per-IP rate limiter and the limitMiddleware 429 envelope.
// ABOUTME: Uses package api (not api_test) to build a Server with a tight limiter.
package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"golang.org/x/time/rate"

	"github.com/alvarotorrestx/bluewave-uptime/internal/config"
)

func TestIPRateLimiter_Allow(t *testing.T) {
	t.Parallel()
	rl := newIPRateLimiter(rate.Limit(100), 3, time.Minute)
	for i := 1; i <= 3; i++ {
		if !rl.Allow("127.0.0.1") {
			t.Errorf("request %d: should be allowed (within burst of 3)", i)
		}
	}
	if rl.Allow("127.0.0.1") {
		t.Error("4th request: should be denied (burst of 3 exhausted)")
	}
}

func TestIPRateLimiter_SeparateBucketsPerIP(t *testing.T) {
	t.Parallel()
	rl := newIPRateLimiter(rate.Limit(1), 1, time.Minute)
	if !rl.Allow("1.2.3.4") {
		t.Error("1.2.3.4 first request should be allowed")
	}
	if rl.Allow("1.2.3.4") {
		t.Error("1.2.3.4 second request should be denied")
	}
	if !rl.Allow("5.6.7.8") {
		t.Error("5.6.7.8 first request should be allowed (independent bucket)")
	}
}

func TestLimitMiddleware_Returns429AfterBurst(t *testing.T) {
	t.Parallel()
	srv := &Server{
		rateLimiter: newIPRateLimiter(rate.Limit(100), 2, time.Minute),
	}
	handler := srv.limitMiddleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	// httptest requests share one RemoteAddr, so they land in one bucket.
	for i := 1; i <= 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/jobs", strings.NewReader(`{}`))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		wantStatus := http.StatusOK
		if i > 2 {
			wantStatus = http.StatusTooManyRequests
		}
		if rec.Code != wantStatus {
			t.Errorf("request %d: got status %d, want %d", i, rec.Code, wantStatus)
		}
		if i > 2 {
			env := decodeEnvelope(t, rec)
			if env.Success {
				t.Error("rate-limited response: success = true, want false")
			}
			if !strings.Contains(env.Msg, "rate limit") {
				t.Errorf("rate-limited response: msg = %q, want a rate limit message", env.Msg)
			}
		}
	}
}

func TestLimitMiddleware_MutatingRouteIsLimited(t *testing.T) {
	t.Parallel()
	fs := newFakeCheckStore()
	srv := NewServer(&config.Config{RateLimitEvictTTL: time.Minute}, fs, &fakeController{}, nil, nil)
	// Swap in a limiter with no refill so the second request must be denied.
	srv.rateLimiter = newIPRateLimiter(rate.Limit(0), 1, time.Minute)
	h := srv.Handler()

	body := `{"monitor_id":"m1","url":"https://example.com","status_code":200,"up":true}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checks", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("first request: status = %d, want 200", rec.Code)
	}

	req2 := httptest.NewRequest(http.MethodPost, "/api/v1/checks", strings.NewReader(body))
	rec2 := httptest.NewRecorder()
	h.ServeHTTP(rec2, req2)
	if rec2.Code != http.StatusTooManyRequests {
		t.Fatalf("second request: status = %d, want 429", rec2.Code)
	}
	if len(fs.checks["m1"]) != 1 {
		t.Errorf("stored %d checks, want 1 — the limited request must not reach the store", len(fs.checks["m1"]))
	}
}

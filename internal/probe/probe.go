// ABOUTME: Executes a single monitor probe: HTTP request, latency measurement, up/down verdict.
// ABOUTME: The http.Client is injected; production wires the SSRF-safe safeurl client.
package probe

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/doyensec/safeurl"
)

// Monitor is the configuration a repeatable job carries as its payload: the
// target to probe and how to judge the response.
type Monitor struct {
	MonitorID    string `json:"monitor_id"`
	URL          string `json:"url"`
	Method       string `json:"method,omitempty"`
	ExpectStatus int    `json:"expect_status,omitempty"`
}

// Result is the outcome of one probe execution.
type Result struct {
	StatusCode   int
	ResponseTime time.Duration
	Up           bool
	Detail       string
}

// Prober runs monitor probes with a fixed client.
type Prober struct {
	client *http.Client
}

// New creates a Prober using client for all outbound requests.
func New(client *http.Client) *Prober {
	return &Prober{client: client}
}

// BuildSafeClient returns an SSRF-safe *http.Client for production probes.
// Redirect following is disabled so a redirect to an internal address can
// never be followed.
func BuildSafeClient(timeout time.Duration) *http.Client {
	cfg := safeurl.GetConfigBuilder().
		SetTimeout(timeout).
		SetCheckRedirect(func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}).
		Build()
	return safeurl.Client(cfg).Client
}

// Run probes m once. Network failures are a down verdict, not an error —
// a monitor that cannot be reached is exactly what a check records.
func (p *Prober) Run(ctx context.Context, m Monitor) Result {
	method := m.Method
	if method == "" {
		method = http.MethodGet
	}

	req, err := http.NewRequestWithContext(ctx, method, m.URL, nil)
	if err != nil {
		return Result{Detail: err.Error()}
	}

	start := time.Now()
	resp, err := p.client.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		return Result{ResponseTime: elapsed, Detail: err.Error()}
	}
	defer resp.Body.Close() //nolint:errcheck
	// Drain a bounded amount so the connection can be reused.
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	up := resp.StatusCode < 400
	if m.ExpectStatus != 0 {
		up = resp.StatusCode == m.ExpectStatus
	}
	return Result{
		StatusCode:   resp.StatusCode,
		ResponseTime: elapsed,
		Up:           up,
	}
}

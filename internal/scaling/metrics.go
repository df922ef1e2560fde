package scaling

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Worker-close failures are recovered locally (the worker is dropped from
// the bookkeeping either way), so a counter is the only way operators can
// detect leaked workers. Exposed on /metrics alongside the pool gauge.
var (
	poolSizeGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "uptime",
		Subsystem: "scaling",
		Name:      "pool_size",
		Help:      "Current number of live workers in the pool.",
	})

	scaleUpsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "uptime",
		Subsystem: "scaling",
		Name:      "scale_up_total",
		Help:      "Workers added by scale-up decisions.",
	})

	scaleDownsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "uptime",
		Subsystem: "scaling",
		Name:      "scale_down_total",
		Help:      "Workers removed by scale-down decisions.",
	})

	closeFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "uptime",
		Subsystem: "scaling",
		Name:      "worker_close_failures_total",
		Help:      "Workers that failed to shut down cleanly and were dropped anyway.",
	})
)

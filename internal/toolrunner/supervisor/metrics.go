package supervisor

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// invocations and duration meter every tool invocation independently of
// its outcome. Both are labeled by the binary name; invocations is also
// labeled by whether the run ultimately succeeded.
var (
	invocations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "recon_tool_invocations_total",
		Help: "Total Process Supervisor invocations, labeled by tool and outcome.",
	}, []string{"tool", "outcome"})

	duration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "recon_tool_duration_seconds",
		Help:    "Wall-clock duration of a tool invocation from spawn to reap.",
		Buckets: prometheus.DefBuckets,
	}, []string{"tool"})
)

func observe(tool string, ok bool, seconds float64) {
	outcome := "failure"
	if ok {
		outcome = "success"
	}
	invocations.WithLabelValues(tool, outcome).Inc()
	duration.WithLabelValues(tool).Observe(seconds)
}

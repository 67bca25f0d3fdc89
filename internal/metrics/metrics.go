package metrics

import (
	"runtime"
	"runtime/debug"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registry = prometheus.NewRegistry()

	testsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "crossrun",
		Name:      "tests_total",
		Help:      "Total number of test invocations by outcome.",
	}, []string{"target_os", "outcome"})

	testDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "crossrun",
		Name:      "test_duration_seconds",
		Help:      "Wall-clock duration of individual test invocations in seconds.",
	}, []string{"target_os"})

	scopesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "crossrun",
		Name:      "context_scopes_total",
		Help:      "Total number of OS context scopes opened per target.",
	}, []string{"target_os"})

	buildInfo = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "crossrun",
		Name:      "build_info",
		Help:      "Build metadata for the running crossrun binary.",
	}, []string{"go_version", "vcs", "vcs_revision", "vcs_time", "vcs_modified"})

	buildInfoOnce sync.Once
)

func init() {
	registry.MustRegister(testsTotal, testDuration, scopesTotal, buildInfo)
}

// Registry returns the Prometheus registry containing all crossrun metrics.
func Registry() *prometheus.Registry {
	return registry
}

// ObserveTest records the outcome and duration of one test invocation.
func ObserveTest(targetOS, outcome string, d time.Duration) {
	if targetOS == "" {
		targetOS = "default"
	}
	testsTotal.WithLabelValues(targetOS, outcome).Inc()
	testDuration.WithLabelValues(targetOS).Observe(d.Seconds())
}

// IncContextScope counts an opened OS context scope.
func IncContextScope(targetOS string) {
	if targetOS == "" {
		targetOS = "default"
	}
	scopesTotal.WithLabelValues(targetOS).Inc()
}

// EmitBuildInfo publishes build metadata about the running binary.
func EmitBuildInfo() {
	buildInfoOnce.Do(func() {
		labels := prometheus.Labels{
			"go_version":   runtime.Version(),
			"vcs":          "",
			"vcs_revision": "",
			"vcs_time":     "",
			"vcs_modified": "",
		}
		if info, ok := debug.ReadBuildInfo(); ok {
			if info.GoVersion != "" {
				labels["go_version"] = info.GoVersion
			}
			for _, setting := range info.Settings {
				switch setting.Key {
				case "vcs":
					labels["vcs"] = setting.Value
				case "vcs.revision":
					labels["vcs_revision"] = setting.Value
				case "vcs.time":
					labels["vcs_time"] = setting.Value
				case "vcs.modified":
					labels["vcs_modified"] = setting.Value
				}
			}
		}
		buildInfo.With(labels).Set(1)
	})
}

// Package metrics holds the Prometheus registry and the collectors the
// server updates.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "repcoach"

// Setup returns a registry with build info, runtime and process collectors
// plus any extra collectors (e.g. the database pool).
func Setup(extra ...prometheus.Collector) *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewBuildInfoCollector(),
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	reg.MustRegister(extra...)
	return reg
}

// Manager groups the application metrics.
type Manager struct {
	Requests        *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	ProgramsGenerated prometheus.Counter
	ProgramsAdapted   prometheus.Counter
	LogsRecorded      *prometheus.CounterVec // by source: api, import
}

// NewManager registers the application metrics with reg.
func NewManager(subsystem string, reg prometheus.Registerer) *Manager {
	factory := promauto.With(reg)
	return &Manager{
		Requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "requests_total",
			Help:      "The total number of incoming requests",
		}, []string{"method", "status"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "request_duration_seconds",
			Help:      "Histogram of response time for requests in seconds",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"route", "method", "status_code"}),
		ProgramsGenerated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "programs_generated_total",
			Help:      "Programs generated from a profile",
		}),
		ProgramsAdapted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "programs_adapted_total",
			Help:      "Programs adapted from feedback",
		}),
		LogsRecorded: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "workout_logs_recorded_total",
			Help:      "Workout logs written, by source",
		}, []string{"source"}),
	}
}

// The helpers below are no-ops on a nil Manager so callers need not check
// whether metrics are enabled.

// ObserveRequest records one served request.
func (m *Manager) ObserveRequest(route, method string, status int, d time.Duration) {
	if m == nil {
		return
	}
	code := strconv.Itoa(status)
	m.Requests.WithLabelValues(method, code).Inc()
	m.RequestDuration.WithLabelValues(route, method, code).Observe(d.Seconds())
}

func (m *Manager) ProgramGenerated() {
	if m != nil {
		m.ProgramsGenerated.Inc()
	}
}

func (m *Manager) ProgramAdapted() {
	if m != nil {
		m.ProgramsAdapted.Inc()
	}
}

// LogsAdded counts n logs written from source.
func (m *Manager) LogsAdded(source string, n int) {
	if m != nil && n > 0 {
		m.LogsRecorded.WithLabelValues(source).Add(float64(n))
	}
}

// NewTestManager returns a Manager on a private registry.
func NewTestManager() (*Manager, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return NewManager("test", reg), reg
}

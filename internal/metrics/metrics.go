// Package metrics provides Prometheus instrumentation for the forecast
// service. Metrics register on a private registry so the /metrics
// endpoint exposes only what the service itself records.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager holds every metric the service records.
type Manager struct {
	registry prometheus.Registerer

	solverRuns       prometheus.Counter
	solverNoPatterns prometheus.Counter
	starConflicts    prometheus.Counter

	captureEvents *prometheus.CounterVec
	captureErrors prometheus.Counter

	oracleRequests *prometheus.CounterVec
	oracleErrors   *prometheus.CounterVec

	forecastRebuildSeconds prometheus.Histogram
	observationDays        prometheus.Gauge

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

var globalManager *Manager

var customRegistry = prometheus.NewRegistry()

func init() {
	globalManager = newManager(customRegistry)
}

func newManager(registry prometheus.Registerer) *Manager {
	m := &Manager{registry: registry}
	auto := promauto.With(registry)

	m.solverRuns = auto.NewCounter(prometheus.CounterOpts{
		Namespace: "meteonook",
		Subsystem: "solver",
		Name:      "runs_total",
		Help:      "Total number of pattern inference runs",
	})

	m.solverNoPatterns = auto.NewCounter(prometheus.CounterOpts{
		Namespace: "meteonook",
		Subsystem: "solver",
		Name:      "no_patterns_total",
		Help:      "Total number of runs where the evidence eliminated every pattern",
	})

	m.starConflicts = auto.NewCounter(prometheus.CounterOpts{
		Namespace: "meteonook",
		Subsystem: "solver",
		Name:      "star_conflicts_total",
		Help:      "Total number of star/gap conflicts detected while populating",
	})

	m.captureEvents = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "meteonook",
			Subsystem: "capture",
			Name:      "events_total",
			Help:      "Total number of capture events applied, by event kind",
		},
		[]string{"kind"},
	)

	m.captureErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: "meteonook",
		Subsystem: "capture",
		Name:      "errors_total",
		Help:      "Total number of capture events dropped as malformed or invalid",
	})

	m.oracleRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "meteonook",
			Subsystem: "oracle",
			Name:      "requests_total",
			Help:      "Total number of oracle HTTP requests, by call",
		},
		[]string{"call"},
	)

	m.oracleErrors = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "meteonook",
			Subsystem: "oracle",
			Name:      "errors_total",
			Help:      "Total number of failed oracle HTTP requests, by call",
		},
		[]string{"call"},
	)

	m.forecastRebuildSeconds = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "meteonook",
		Subsystem: "forecast",
		Name:      "rebuild_seconds",
		Help:      "Duration of full-year forecast rebuilds in seconds",
		Buckets:   prometheus.DefBuckets,
	})

	m.observationDays = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: "meteonook",
		Subsystem: "observations",
		Name:      "days",
		Help:      "Number of calendar days with recorded evidence",
	})

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "meteonook",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests, by route, method and status",
		},
		[]string{"route", "method", "status"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "meteonook",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds, by route and method",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)

	return m
}

// RecordSolverRun increments the inference run counter.
func RecordSolverRun() {
	globalManager.solverRuns.Inc()
}

// RecordSolverNoPatterns increments the empty-result counter.
func RecordSolverNoPatterns() {
	globalManager.solverNoPatterns.Inc()
}

// RecordStarConflict increments the populate conflict counter.
func RecordStarConflict() {
	globalManager.starConflicts.Inc()
}

// RecordCaptureEvent increments the capture event counter for a kind.
func RecordCaptureEvent(kind string) {
	globalManager.captureEvents.WithLabelValues(kind).Inc()
}

// RecordCaptureError increments the dropped capture event counter.
func RecordCaptureError() {
	globalManager.captureErrors.Inc()
}

// RecordOracleRequest increments the oracle request counter for a call.
func RecordOracleRequest(call string) {
	globalManager.oracleRequests.WithLabelValues(call).Inc()
}

// RecordOracleError increments the oracle error counter for a call.
func RecordOracleError(call string) {
	globalManager.oracleErrors.WithLabelValues(call).Inc()
}

// RecordForecastRebuild records the duration of a year rebuild.
func RecordForecastRebuild(seconds float64) {
	globalManager.forecastRebuildSeconds.Observe(seconds)
}

// UpdateObservationDays sets the recorded-day gauge.
func UpdateObservationDays(count int) {
	globalManager.observationDays.Set(float64(count))
}

// RecordHTTPRequest records one served HTTP request.
func RecordHTTPRequest(route, method, status string) {
	globalManager.httpRequests.WithLabelValues(route, method, status).Inc()
}

// RecordHTTPRequestDuration records the duration of one HTTP request.
func RecordHTTPRequestDuration(route, method string, seconds float64) {
	globalManager.httpRequestDuration.WithLabelValues(route, method).Observe(seconds)
}

// GetRegistry returns the private registry for the /metrics handler.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

package metrics

import (
	"strconv"
	"time"

	"github.com/go-kit/kit/metrics"
	"github.com/go-kit/kit/metrics/discard"
	prometheus "github.com/go-kit/kit/metrics/prometheus"
	stdprometheus "github.com/prometheus/client_golang/prometheus"
)

var requestLabels = []string{"endpoint", "method", "status"}

type APIMetrics struct {
	Requests    metrics.Counter
	Errors      metrics.Counter
	Duration    metrics.Histogram
	Streams     metrics.Gauge
	RateLimited metrics.Counter
}

// Observe records one answered request; `endpoint` is the route template.
func (m *APIMetrics) Observe(endpoint, method string, status int, elapsed time.Duration) {
	labels := []string{"endpoint", endpoint, "method", method, "status", strconv.Itoa(status)}

	m.Requests.With(labels...).Add(1)
	if status >= 400 {
		m.Errors.With(labels...).Add(1)
	}
	m.Duration.With(labels...).Observe(elapsed.Seconds())
}

// StreamOpened counts an open event stream until the returned func is
// called.
func (m *APIMetrics) StreamOpened(kind string) func() {
	g := m.Streams.With("kind", kind)
	g.Add(1)

	return func() {
		g.Add(-1)
	}
}

func PromAPIMetrics() *APIMetrics {
	return &APIMetrics{
		Requests: prometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: APISubsystem,
			Name:      "requests_total",
			Help:      "Total number of answered requests.",
		}, requestLabels),
		Errors: prometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: APISubsystem,
			Name:      "request_errors_total",
			Help:      "Total number of requests answered with an error status.",
		}, requestLabels),
		Duration: prometheus.NewHistogramFrom(stdprometheus.HistogramOpts{
			Namespace: Namespace,
			Subsystem: APISubsystem,
			Name:      "request_duration_seconds",
			Help:      "Time spent answering requests.",
			Buckets:   []float64{.001, .005, .01, .05, .1, .5, 1, 5},
		}, requestLabels),
		Streams: prometheus.NewGaugeFrom(stdprometheus.GaugeOpts{
			Namespace: Namespace,
			Subsystem: APISubsystem,
			Name:      "streams_open",
			Help:      "Number of open event streams.",
		}, []string{"kind"}),
		RateLimited: prometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: APISubsystem,
			Name:      "rate_limited_total",
			Help:      "Total number of requests refused by the rate limit.",
		}, []string{}),
	}
}

func NopAPIMetrics() *APIMetrics {
	return &APIMetrics{
		Requests:    discard.NewCounter(),
		Errors:      discard.NewCounter(),
		Duration:    discard.NewHistogram(),
		Streams:     discard.NewGauge(),
		RateLimited: discard.NewCounter(),
	}
}

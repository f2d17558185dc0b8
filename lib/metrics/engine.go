package metrics

import (
	"github.com/go-kit/kit/metrics"
	"github.com/go-kit/kit/metrics/discard"
	prometheus "github.com/go-kit/kit/metrics/prometheus"
	stdprometheus "github.com/prometheus/client_golang/prometheus"
)

type EngineMetrics struct {
	OperationsTotal metrics.Counter
	CleanupRemoved  metrics.Counter
	ConcludedQueued metrics.Gauge
}

// Operation counts one engine operation by its error kind, `ok` on success.
func (m *EngineMetrics) Operation(operation, result string) {
	m.OperationsTotal.With("operation", operation, "result", result).Add(1)
}

func (m *EngineMetrics) Cleanup(list string, removed, queued int) {
	m.CleanupRemoved.With("list", list).Add(float64(removed))
	m.ConcludedQueued.With("list", list).Set(float64(queued))
}

func PromEngineMetrics() *EngineMetrics {
	return &EngineMetrics{
		OperationsTotal: prometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: EngineSubsystem,
			Name:      "operations_total",
			Help:      "Total number of engine operations.",
		}, []string{"operation", "result"}),
		CleanupRemoved: prometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: EngineSubsystem,
			Name:      "cleanup_removed_total",
			Help:      "Total number of concluded records removed by cleanup.",
		}, []string{"list"}),
		ConcludedQueued: prometheus.NewGaugeFrom(stdprometheus.GaugeOpts{
			Namespace: Namespace,
			Subsystem: EngineSubsystem,
			Name:      "concluded_queued",
			Help:      "Number of concluded records waiting for cleanup.",
		}, []string{"list"}),
	}
}

func NopEngineMetrics() *EngineMetrics {
	return &EngineMetrics{
		OperationsTotal: discard.NewCounter(),
		CleanupRemoved:  discard.NewCounter(),
		ConcludedQueued: discard.NewGauge(),
	}
}

package metrics

import (
	"runtime"

	"github.com/go-kit/kit/metrics"
	"github.com/go-kit/kit/metrics/discard"
	prometheus "github.com/go-kit/kit/metrics/prometheus"
	stdprometheus "github.com/prometheus/client_golang/prometheus"

	"boscoin.io/roster/lib/version"
)

type NodeMetrics struct {
	Height metrics.Gauge

	// Info is always 1; the node is described by its labels.
	Info metrics.Gauge
}

func (m *NodeMetrics) SetHeight(height uint64) {
	m.Height.Set(float64(height))
}

func (m *NodeMetrics) SetInfo(nodeName string) {
	m.Info.With(
		"node", nodeName,
		"version", version.Version,
		"git_commit", version.GitCommit,
		"go_version", runtime.Version(),
	).Set(1)
}

func PromNodeMetrics() *NodeMetrics {
	return &NodeMetrics{
		Height: prometheus.NewGaugeFrom(stdprometheus.GaugeOpts{
			Namespace: Namespace,
			Subsystem: NodeSubsystem,
			Name:      "height",
			Help:      "Block height of the node clock.",
		}, []string{}),
		Info: prometheus.NewGaugeFrom(stdprometheus.GaugeOpts{
			Namespace: Namespace,
			Subsystem: NodeSubsystem,
			Name:      "info",
			Help:      "Name and version of the node.",
		}, []string{"node", "version", "git_commit", "go_version"}),
	}
}

func NopNodeMetrics() *NodeMetrics {
	return &NodeMetrics{
		Height: discard.NewGauge(),
		Info:   discard.NewGauge(),
	}
}

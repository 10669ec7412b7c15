package renderer

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the renderer's Prometheus collectors. A nil *Metrics records
// nothing.
type Metrics struct {
	hostOps          *prometheus.CounterVec
	moves            prometheus.Counter
	componentRenders prometheus.Counter
	mounts           *prometheus.CounterVec
	unmounts         *prometheus.CounterVec
	renderDuration   prometheus.Histogram
}

// NewMetrics registers the collectors with reg under the "vdomparty"
// namespace.
//
// Metrics collected:
//   - vdomparty_host_ops_total: host adapter calls by op
//   - vdomparty_moves_total: nodes reinserted by list diffs
//   - vdomparty_component_renders_total: component render function calls
//   - vdomparty_mounts_total / vdomparty_unmounts_total: by node kind
//   - vdomparty_render_duration_seconds: time spent in Render
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		hostOps: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vdomparty",
			Name:      "host_ops_total",
			Help:      "Host adapter calls by operation",
		}, []string{"op"}),
		moves: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "vdomparty",
			Name:      "moves_total",
			Help:      "Existing nodes reinserted by list diffs",
		}),
		componentRenders: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "vdomparty",
			Name:      "component_renders_total",
			Help:      "Component render function invocations",
		}),
		mounts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vdomparty",
			Name:      "mounts_total",
			Help:      "Nodes mounted by kind",
		}, []string{"kind"}),
		unmounts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vdomparty",
			Name:      "unmounts_total",
			Help:      "Nodes unmounted by kind",
		}, []string{"kind"}),
		renderDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "vdomparty",
			Name:      "render_duration_seconds",
			Help:      "Time spent in Render calls",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
		}),
	}
}

func (m *Metrics) hostOp(op string) {
	if m == nil {
		return
	}
	m.hostOps.WithLabelValues(op).Inc()
}

func (m *Metrics) move() {
	if m == nil {
		return
	}
	m.moves.Inc()
}

func (m *Metrics) componentRender() {
	if m == nil {
		return
	}
	m.componentRenders.Inc()
}

func (m *Metrics) mounted(kind string) {
	if m == nil {
		return
	}
	m.mounts.WithLabelValues(kind).Inc()
}

func (m *Metrics) unmounted(kind string) {
	if m == nil {
		return
	}
	m.unmounts.WithLabelValues(kind).Inc()
}

func (m *Metrics) observeRender(d time.Duration) {
	if m == nil {
		return
	}
	m.renderDuration.Observe(d.Seconds())
}

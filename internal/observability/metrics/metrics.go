package metrics

import "github.com/prometheus/client_golang/prometheus"

// BoardMetrics exposes counters/histograms for board operations.
type BoardMetrics struct {
	mutationsTotal   *prometheus.CounterVec
	recomputeLatency prometheus.Histogram
	moveRejections   *prometheus.CounterVec
}

func NewBoardMetrics(reg prometheus.Registerer) *BoardMetrics {
	m := &BoardMetrics{
		mutationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "crm",
			Subsystem: "board",
			Name:      "mutations_total",
			Help:      "Total board mutations by operation and outcome",
		}, []string{"operation", "status"}),
		recomputeLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "crm",
			Subsystem: "board",
			Name:      "view_recompute_seconds",
			Help:      "Latency of filter/sort/aggregate recomputation",
			Buckets:   prometheus.DefBuckets,
		}),
		moveRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "crm",
			Subsystem: "board",
			Name:      "move_rejections_total",
			Help:      "Rejected stage moves by reason",
		}, []string{"reason"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.mutationsTotal, m.recomputeLatency, m.moveRejections)
	return m
}

func (m *BoardMetrics) ObserveMutation(operation, status string) {
	if m == nil {
		return
	}
	m.mutationsTotal.WithLabelValues(operation, status).Inc()
}

func (m *BoardMetrics) ObserveRecompute(seconds float64) {
	if m == nil {
		return
	}
	m.recomputeLatency.Observe(seconds)
}

func (m *BoardMetrics) ObserveMoveRejection(reason string) {
	if m == nil {
		return
	}
	m.moveRejections.WithLabelValues(reason).Inc()
}

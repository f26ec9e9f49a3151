package protocol

import "github.com/prometheus/client_golang/prometheus"

// Metrics is an optional, nil-safe session recorder. Every method is safe
// to call on a nil *Metrics, so engines can hold one unconditionally
// without special-casing "no metrics" callers.
type Metrics struct {
	roundsTotal      *prometheus.CounterVec
	rejectionsTotal  *prometheus.CounterVec
	proofSizeBytes   prometheus.Gauge
}

// NewMetrics registers a fresh set of collectors on reg. Pass a
// prometheus.NewRegistry() in tests to avoid colliding with a process-wide
// default registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		roundsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "zkp_coloring_rounds_total",
			Help: "Number of protocol rounds processed, by mode.",
		}, []string{"mode"}),
		rejectionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "zkp_coloring_rejections_total",
			Help: "Number of rounds rejected, by mode and reason.",
		}, []string{"mode", "reason"}),
		proofSizeBytes: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "zkp_coloring_last_proof_size_bytes",
			Help: "Approximate size of the most recently generated blank-count proof.",
		}),
	}
	reg.MustRegister(m.roundsTotal, m.rejectionsTotal, m.proofSizeBytes)
	return m
}

func (m *Metrics) round(mode Mode) {
	if m == nil {
		return
	}
	m.roundsTotal.WithLabelValues(mode.String()).Inc()
}

func (m *Metrics) rejection(mode Mode, reason string) {
	if m == nil {
		return
	}
	m.rejectionsTotal.WithLabelValues(mode.String(), reason).Inc()
}

func (m *Metrics) observeProofSize(bytes int) {
	if m == nil {
		return
	}
	m.proofSizeBytes.Set(float64(bytes))
}

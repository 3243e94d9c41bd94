package metrics

import "github.com/prometheus/client_golang/prometheus"

// Mirror outcomes.
const (
	MirrorHit     = "hit"
	MirrorCreated = "created"
	MirrorFailed  = "failed"
)

// MirrorMetrics counts lazy mirror lookups by entity kind and outcome.
type MirrorMetrics struct {
	outcomes *prometheus.CounterVec
}

func NewMirrorMetrics(reg prometheus.Registerer) *MirrorMetrics {
	if reg == nil {
		return &MirrorMetrics{}
	}
	outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "mirror_outcomes_total",
		Help:      "Mirror lookups by kind and outcome.",
	}, []string{"kind", "outcome"})
	reg.MustRegister(outcomes)
	return &MirrorMetrics{outcomes: outcomes}
}

func (m *MirrorMetrics) IncOutcome(kind, outcome string) {
	if m == nil || m.outcomes == nil {
		return
	}
	m.outcomes.WithLabelValues(normalizeLabel(kind), normalizeLabel(outcome)).Inc()
}

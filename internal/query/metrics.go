package query

import "github.com/prometheus/client_golang/prometheus"

// Metrics counts cache traffic per resource kind. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	hits          *prometheus.CounterVec
	misses        *prometheus.CounterVec
	fetches       *prometheus.CounterVec
	invalidations *prometheus.CounterVec
}

// NewMetrics creates the cache counters and registers them on reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		hits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "paperpulse",
			Subsystem: "cache",
			Name:      "hits_total",
			Help:      "Reads answered from a fresh cache entry.",
		}, []string{"kind"}),
		misses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "paperpulse",
			Subsystem: "cache",
			Name:      "misses_total",
			Help:      "Reads that needed a fetch or joined one in flight.",
		}, []string{"kind"}),
		fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "paperpulse",
			Subsystem: "cache",
			Name:      "fetches_total",
			Help:      "Fetches actually executed, by result.",
		}, []string{"kind", "result"}),
		invalidations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "paperpulse",
			Subsystem: "cache",
			Name:      "invalidations_total",
			Help:      "Invalidation requests.",
		}, []string{"kind"}),
	}

	for _, c := range []prometheus.Collector{m.hits, m.misses, m.fetches, m.invalidations} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) hit(kind string) {
	if m != nil {
		m.hits.WithLabelValues(kind).Inc()
	}
}

func (m *Metrics) miss(kind string) {
	if m != nil {
		m.misses.WithLabelValues(kind).Inc()
	}
}

func (m *Metrics) fetched(kind string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.fetches.WithLabelValues(kind, result).Inc()
}

func (m *Metrics) invalidated(kind string) {
	if m != nil {
		m.invalidations.WithLabelValues(kind).Inc()
	}
}

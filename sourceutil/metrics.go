package sourceutil

import "github.com/prometheus/client_golang/prometheus"

const (
	cacheURL   = "url"
	cacheNames = "names"
)

type locatorMetrics struct {
	lookups *prometheus.CounterVec
	entries *prometheus.GaugeVec
}

func newLocatorMetrics(reg prometheus.Registerer) *locatorMetrics {
	m := &locatorMetrics{
		lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "framesrc",
			Subsystem: "locator",
			Name:      "lookups_total",
			Help:      "Locator cache lookups by cache and outcome.",
		}, []string{"cache", "outcome"}),
		entries: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "framesrc",
			Subsystem: "locator",
			Name:      "entries",
			Help:      "Entries held by each locator cache.",
		}, []string{"cache"}),
	}
	if reg != nil {
		reg.MustRegister(m.lookups, m.entries)
	}
	return m
}

// observe records one lookup. size is the new entry count after a miss.
func (m *locatorMetrics) observe(cache string, hit bool, size int64) {
	if m == nil {
		return
	}
	if hit {
		m.lookups.WithLabelValues(cache, "hit").Inc()
		return
	}
	m.lookups.WithLabelValues(cache, "miss").Inc()
	m.entries.WithLabelValues(cache).Set(float64(size))
}

package authority

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds Prometheus collectors for harvests and lookups.
// A nil *Metrics records nothing.
type Metrics struct {
	harvests       *prometheus.CounterVec
	entries        *prometheus.CounterVec
	lookups        *prometheus.CounterVec
	lookupDuration *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		harvests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "localauth",
			Name:      "harvests_total",
			Help:      "Harvest calls by source format and outcome",
		}, []string{"format", "outcome"}),

		entries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "localauth",
			Name:      "harvested_entries_total",
			Help:      "Entries written by harvests",
		}, []string{"format"}),

		lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "localauth",
			Name:      "lookups_total",
			Help:      "Term lookups by query path",
		}, []string{"path"}),

		lookupDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "localauth",
			Name:      "lookup_duration_seconds",
			Help:      "Term lookup latency by query path",
			Buckets:   []float64{.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"path"}),
	}

	for _, c := range []prometheus.Collector{m.harvests, m.entries, m.lookups, m.lookupDuration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) observeHarvest(format, outcome string, written int) {
	if m == nil {
		return
	}
	m.harvests.WithLabelValues(format, outcome).Inc()
	if written > 0 {
		m.entries.WithLabelValues(format).Add(float64(written))
	}
}

func (m *Metrics) observeLookup(path string, started time.Time) {
	if m == nil {
		return
	}
	m.lookups.WithLabelValues(path).Inc()
	m.lookupDuration.WithLabelValues(path).Observe(time.Since(started).Seconds())
}

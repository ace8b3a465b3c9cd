package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for the coverage service.
type Metrics struct {
	BatchRequests prometheus.Counter
	BatchSize     prometheus.Histogram
	BatchDuration prometheus.Histogram

	// Geocoding metrics.
	GeocodeLookups  *prometheus.CounterVec // labels: outcome={resolved,unresolved,error,skipped}
	GeocodeDuration prometheus.Histogram

	// Spatial store metrics.
	SiteLookups      *prometheus.CounterVec // labels: outcome={ok,error}
	SitesPerLookup   prometheus.Histogram
	SiteLookupTimeMs prometheus.Histogram
}

// New creates and registers all service metrics with the default registry.
func New() *Metrics {
	m := newMetrics()

	prometheus.MustRegister(
		m.BatchRequests,
		m.BatchSize,
		m.BatchDuration,
		m.GeocodeLookups,
		m.GeocodeDuration,
		m.SiteLookups,
		m.SitesPerLookup,
		m.SiteLookupTimeMs,
	)

	return m
}

// NewForTesting creates Metrics without registering them, so parallel tests
// do not trip "already registered" panics.
func NewForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		BatchRequests: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "coverage",
			Name:      "batch_requests_total",
			Help:      "Total coverage batch requests handled.",
		}),
		BatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "coverage",
			Name:      "batch_size",
			Help:      "Number of addresses per batch request.",
			Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
		}),
		BatchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "coverage",
			Name:      "batch_duration_seconds",
			Help:      "End to end duration of a coverage batch request.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		GeocodeLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "coverage",
			Name:      "geocode_lookups_total",
			Help:      "Geocoding lookups by outcome.",
		}, []string{"outcome"}),
		GeocodeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "coverage",
			Name:      "geocode_duration_seconds",
			Help:      "External geocoding request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		SiteLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "coverage",
			Name:      "site_lookups_total",
			Help:      "Spatial store radius queries by outcome.",
		}, []string{"outcome"}),
		SitesPerLookup: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "coverage",
			Name:      "sites_per_lookup",
			Help:      "Number of transmitter sites returned per radius query.",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250, 500},
		}),
		SiteLookupTimeMs: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "coverage",
			Name:      "site_lookup_duration_ms",
			Help:      "Spatial store radius query duration in milliseconds.",
			Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
		}),
	}
}

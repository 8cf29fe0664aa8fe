package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// enrichment pipeline.
type Metrics struct {
	PlacesEnriched   prometheus.Counter
	EnrichmentErrors prometheus.Counter
	EventsPublished  prometheus.Counter

	// Batch processing metrics.
	BatchSize     prometheus.Histogram
	BatchDuration prometheus.Histogram

	// Geocoding metrics.
	GeocodeRequests *prometheus.CounterVec // labels: outcome={success,error,empty}
	GeocodeCache    *prometheus.CounterVec // labels: result={hit,miss}
	GeocodeDuration prometheus.Histogram
	ThrottleWait    prometheus.Histogram
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		PlacesEnriched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "address_enrich",
			Name:      "places_enriched_total",
			Help:      "Total place records whose address was resolved and persisted.",
		}),
		EnrichmentErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "address_enrich",
			Name:      "enrichment_errors_total",
			Help:      "Total per-place failures (resolution, persistence, or no address found).",
		}),
		EventsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "address_enrich",
			Name:      "events_published_total",
			Help:      "Total enrichment events published to the sink topic.",
		}),
		BatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "address_enrich",
			Name:      "batch_size",
			Help:      "Number of candidate places per enrichment run.",
			Buckets:   []float64{1, 5, 10, 20, 30, 40, 50, 75, 100},
		}),
		BatchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "address_enrich",
			Name:      "batch_duration_seconds",
			Help:      "Duration of a complete enrichment run.",
			Buckets:   []float64{0.05, 0.25, 1, 5, 15, 30, 60, 120, 300},
		}),
		GeocodeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "address_enrich",
			Name:      "geocode_requests_total",
			Help:      "Reverse-geocoding API requests by outcome.",
		}, []string{"outcome"}),
		GeocodeCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "address_enrich",
			Name:      "geocode_cache_total",
			Help:      "Reverse-geocoding cache lookups by result.",
		}, []string{"result"}),
		GeocodeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "address_enrich",
			Name:      "geocode_api_duration_seconds",
			Help:      "Nominatim API request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		ThrottleWait: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "address_enrich",
			Name:      "throttle_wait_seconds",
			Help:      "Time spent waiting on the provider rate limiter.",
			Buckets:   []float64{0.001, 0.01, 0.1, 0.25, 0.5, 1, 2},
		}),
	}

	prometheus.MustRegister(
		m.PlacesEnriched,
		m.EnrichmentErrors,
		m.EventsPublished,
		m.BatchSize,
		m.BatchDuration,
		m.GeocodeRequests,
		m.GeocodeCache,
		m.GeocodeDuration,
		m.ThrottleWait,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		PlacesEnriched:   prometheus.NewCounter(prometheus.CounterOpts{Namespace: "address_enrich", Name: "places_enriched_total"}),
		EnrichmentErrors: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "address_enrich", Name: "enrichment_errors_total"}),
		EventsPublished:  prometheus.NewCounter(prometheus.CounterOpts{Namespace: "address_enrich", Name: "events_published_total"}),
		BatchSize:        prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "address_enrich", Name: "batch_size"}),
		BatchDuration:    prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "address_enrich", Name: "batch_duration_seconds"}),
		GeocodeRequests:  prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "address_enrich", Name: "geocode_requests_total"}, []string{"outcome"}),
		GeocodeCache:     prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "address_enrich", Name: "geocode_cache_total"}, []string{"result"}),
		GeocodeDuration:  prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "address_enrich", Name: "geocode_api_duration_seconds"}),
		ThrottleWait:     prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "address_enrich", Name: "throttle_wait_seconds"}),
	}
}

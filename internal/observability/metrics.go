package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// dashboard service.
type Metrics struct {
	// Dataset lifecycle.
	DatasetLoads     prometheus.Counter
	DatasetLoadFails prometheus.Counter
	RecordsLoaded    prometheus.Gauge
	MappableRecords  prometheus.Gauge
	RowsDropped      prometheus.Counter
	WatchEvents      prometheus.Counter

	// API serving.
	RequestDuration *prometheus.HistogramVec // label: route

	// Jurisdiction backfill geocoding.
	GeocodeRequests    *prometheus.CounterVec // label: outcome={success,error,empty}
	GeocodeCache       *prometheus.CounterVec // label: result={hit,miss}
	GeocodeAPIDuration prometheus.Histogram
	GeocodeEnabled     prometheus.Gauge
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.DatasetLoads,
		m.DatasetLoadFails,
		m.RecordsLoaded,
		m.MappableRecords,
		m.RowsDropped,
		m.WatchEvents,
		m.RequestDuration,
		m.GeocodeRequests,
		m.GeocodeCache,
		m.GeocodeAPIDuration,
		m.GeocodeEnabled,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		DatasetLoads: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "helpline",
			Name:      "dataset_loads_total",
			Help:      "Total successful call-log loads (initial plus reloads).",
		}),
		DatasetLoadFails: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "helpline",
			Name:      "dataset_load_failures_total",
			Help:      "Total failed call-log loads; the previous snapshot stays active.",
		}),
		RecordsLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "helpline",
			Name:      "records_loaded",
			Help:      "Call records in the active snapshot.",
		}),
		MappableRecords: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "helpline",
			Name:      "mappable_records",
			Help:      "Records in the active snapshot with usable coordinates.",
		}),
		RowsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "helpline",
			Name:      "rows_dropped_total",
			Help:      "Rows dropped by the cleaner for missing or invalid coordinates.",
		}),
		WatchEvents: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "helpline",
			Name:      "watch_events_total",
			Help:      "Data-file change events observed by the watcher.",
		}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "helpline",
			Name:      "request_duration_seconds",
			Help:      "API request duration by route.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5},
		}, []string{"route"}),
		GeocodeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "helpline",
			Name:      "geocode_requests_total",
			Help:      "Reverse geocoding API requests by outcome.",
		}, []string{"outcome"}),
		GeocodeCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "helpline",
			Name:      "geocode_cache_total",
			Help:      "Reverse geocoding cache lookups by result.",
		}, []string{"result"}),
		GeocodeAPIDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "helpline",
			Name:      "geocode_api_duration_seconds",
			Help:      "Mapbox API request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		GeocodeEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "helpline",
			Name:      "geocode_enabled",
			Help:      "1 when jurisdiction backfill is enabled, 0 otherwise.",
		}),
	}
}

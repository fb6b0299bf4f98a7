package scanner

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus metrics a Scanner reports.
type Metrics struct {
	TracesScanned     prometheus.Counter
	BytesScanned      prometheus.Counter
	AmbiguousCatalogs *prometheus.CounterVec
	ScanSeconds       prometheus.Histogram
}

// NewMetrics creates and registers the scan metrics with the provided
// registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	tracesScanned := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "segio_traces_scanned_total",
		Help: "Total trace headers read while building catalogs",
	})

	bytesScanned := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "segio_bytes_scanned_total",
		Help: "Total bytes covered by trace scans",
	})

	ambiguousCatalogs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "segio_ambiguous_catalogs_total",
		Help: "Catalogs abandoned because their keys were not unique",
	}, []string{"catalog"})

	scanSeconds := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "segio_scan_duration_seconds",
		Help:    "Wall time spent scanning a file and building its catalogs",
		Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
	})

	reg.MustRegister(tracesScanned, bytesScanned, ambiguousCatalogs, scanSeconds)

	return &Metrics{
		TracesScanned:     tracesScanned,
		BytesScanned:      bytesScanned,
		AmbiguousCatalogs: ambiguousCatalogs,
		ScanSeconds:       scanSeconds,
	}
}

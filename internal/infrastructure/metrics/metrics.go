package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "nft_scanner"

// Metrics holds the scanner's Prometheus collectors. A nil *Metrics is a
// valid no-op recorder.
type Metrics struct {
	registry *prometheus.Registry

	ScansTotal         *prometheus.CounterVec
	ProbesTotal        *prometheus.CounterVec
	MetadataFetchTotal *prometheus.CounterVec
	ScanDuration       prometheus.Histogram
	CollectionCache    *prometheus.CounterVec
}

// NewMetrics registers all collectors on a private registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		ScansTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scans_total",
			Help:      "Collection scans by result",
		}, []string{"result"}),
		ProbesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "probes_total",
			Help:      "ownerOf probes by outcome",
		}, []string{"outcome"}),
		MetadataFetchTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "metadata_fetch_total",
			Help:      "Token metadata fetches by result",
		}, []string{"result"}),
		ScanDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "scan_duration_seconds",
			Help:      "Wall time of one collection scan",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		CollectionCache: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "collection_cache_total",
			Help:      "Collection cache lookups by result",
		}, []string{"result"}),
	}
}

func (m *Metrics) ObserveScan(result string, d time.Duration) {
	if m == nil {
		return
	}
	m.ScansTotal.WithLabelValues(result).Inc()
	m.ScanDuration.Observe(d.Seconds())
}

func (m *Metrics) IncProbe(outcome string) {
	if m == nil {
		return
	}
	m.ProbesTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncMetadataFetch(result string) {
	if m == nil {
		return
	}
	m.MetadataFetchTotal.WithLabelValues(result).Inc()
}

func (m *Metrics) IncCollectionCache(result string) {
	if m == nil {
		return
	}
	m.CollectionCache.WithLabelValues(result).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry is exposed for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

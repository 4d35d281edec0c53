// Package prometheus exposes crawl and ingestion metrics through
// prometheus/client_golang. Decorators in this package wrap sitekb
// interfaces and record what passes through them.
package prometheus

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors for the pipeline.
type Metrics struct {
	PagesRendered     *prometheus.CounterVec
	RenderDuration    prometheus.Histogram
	RequestsCaptured  *prometheus.CounterVec
	IngestCycles      *prometheus.CounterVec
	IngestDuration    prometheus.Histogram
	DocumentsAdded    prometheus.Counter
	SourceDocuments   *prometheus.GaugeVec
	SourceFailures    *prometheus.CounterVec
	LastIngestSuccess prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		PagesRendered: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sitekb_pages_rendered_total",
				Help: "Pages rendered in the browser by outcome (ok, error).",
			},
			[]string{"status"},
		),
		RenderDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "sitekb_render_duration_seconds",
				Help:    "Time to render one page.",
				Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30},
			},
		),
		RequestsCaptured: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sitekb_requests_captured_total",
				Help: "Browser requests captured during rendering by kind (pdf, endpoint).",
			},
			[]string{"kind"},
		),
		IngestCycles: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sitekb_ingest_cycles_total",
				Help: "Ingestion cycles by outcome (ok, error).",
			},
			[]string{"status"},
		),
		IngestDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "sitekb_ingest_duration_seconds",
				Help:    "Duration of one ingestion cycle.",
				Buckets: prometheus.ExponentialBuckets(1, 2, 12),
			},
		),
		DocumentsAdded: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "sitekb_documents_added_total",
				Help: "New documents written to the knowledge store.",
			},
		),
		SourceDocuments: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "sitekb_source_documents",
				Help: "Documents produced by each source in the last cycle.",
			},
			[]string{"source"},
		),
		SourceFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sitekb_source_failures_total",
				Help: "Source load failures by source.",
			},
			[]string{"source"},
		),
		LastIngestSuccess: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "sitekb_last_ingest_success_timestamp_seconds",
				Help: "Unix time of the last successful ingestion cycle.",
			},
		),
	}

	reg.MustRegister(
		m.PagesRendered,
		m.RenderDuration,
		m.RequestsCaptured,
		m.IngestCycles,
		m.IngestDuration,
		m.DocumentsAdded,
		m.SourceDocuments,
		m.SourceFailures,
		m.LastIngestSuccess,
	)
	return m
}

// Handler returns an HTTP handler serving the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

package scraper

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles Prometheus collectors for the pipeline.
type Metrics struct {
	Registry          *prometheus.Registry
	PagesFetched      *prometheus.CounterVec
	FetchDuration     prometheus.Histogram
	ProductsExtracted *prometheus.CounterVec
	RetriesTotal      prometheus.Counter
	ErrorsTotal       *prometheus.CounterVec
	SearchesTotal     *prometheus.CounterVec
}

// NewMetrics constructs and registers all metrics on a dedicated
// registry so tests can run multiple instances side by side.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	pages := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ttshop_pages_fetched_total",
			Help: "Pages fetched by the scraper, by outcome.",
		},
		[]string{"outcome"},
	)
	fetchDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ttshop_fetch_duration_seconds",
			Help:    "Latency of page fetches including retries.",
			Buckets: prometheus.DefBuckets,
		},
	)
	products := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ttshop_products_extracted_total",
			Help: "Product records extracted, by strategy.",
		},
		[]string{"strategy"},
	)
	retries := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ttshop_fetch_retries_total",
			Help: "Retry attempts made against failing URLs.",
		},
	)
	errorsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ttshop_transport_errors_total",
			Help: "Transport failures by classified type.",
		},
		[]string{"error_type"},
	)
	searches := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ttshop_searches_total",
			Help: "Catalog searches served, by mode.",
		},
		[]string{"mode"},
	)

	registry.MustRegister(pages, fetchDuration, products, retries, errorsTotal, searches)

	return &Metrics{
		Registry:          registry,
		PagesFetched:      pages,
		FetchDuration:     fetchDuration,
		ProductsExtracted: products,
		RetriesTotal:      retries,
		ErrorsTotal:       errorsTotal,
		SearchesTotal:     searches,
	}
}

// IncPage counts a completed fetch attempt by outcome.
func (m *Metrics) IncPage(outcome string) {
	if m == nil {
		return
	}
	m.PagesFetched.WithLabelValues(outcome).Inc()
}

// ObserveFetch records a fetch duration.
func (m *Metrics) ObserveFetch(d time.Duration) {
	if m == nil {
		return
	}
	m.FetchDuration.Observe(d.Seconds())
}

// AddProducts counts extracted records for a strategy label.
func (m *Metrics) AddProducts(strategy string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.ProductsExtracted.WithLabelValues(strategy).Add(float64(n))
}

// IncRetries counts one retry attempt.
func (m *Metrics) IncRetries() {
	if m == nil {
		return
	}
	m.RetriesTotal.Inc()
}

// IncError counts a transport failure by type label.
func (m *Metrics) IncError(errorType string) {
	if m == nil {
		return
	}
	m.ErrorsTotal.WithLabelValues(errorType).Inc()
}

// IncSearch counts a served search by mode label.
func (m *Metrics) IncSearch(mode string) {
	if m == nil {
		return
	}
	m.SearchesTotal.WithLabelValues(mode).Inc()
}

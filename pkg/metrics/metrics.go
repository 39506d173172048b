package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Define global variables for metrics.
// We use 'promauto' which automatically registers metrics without complex initialization.

var (
	// 1. HTTP Requests Total (Counter)
	// Counts how many requests arrive, labeled by method, path, and status code.
	HttpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "grafodb_http_requests_total",
			Help: "Total number of HTTP requests processed",
		},
		[]string{"method", "path", "status"}, // Labels
	)

	// 2. HTTP Request Duration (Histogram)
	// Measures server response time.
	HttpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "grafodb_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)

	// 3. Record counts (Gauge)
	// Tracks the number of stored records per label partition.
	TotalVertices = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "grafodb_vertices_total",
			Help: "Total number of vertices per label",
		},
		[]string{"label"},
	)

	TotalEdges = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "grafodb_edges_total",
			Help: "Total number of edges per label",
		},
		[]string{"label"},
	)

	// 4. Query Counter
	// Counts executed pattern matches, labeled by outcome.
	QueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "grafodb_queries_total",
			Help: "Total number of pattern-match queries executed",
		},
		[]string{"status"}, // "ok" | "error"
	)

	// 5. Query Duration (Histogram)
	QueryDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "grafodb_query_duration_seconds",
			Help:    "Duration of pattern-match queries in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
	)
)

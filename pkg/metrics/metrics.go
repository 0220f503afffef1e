// Package metrics holds the Prometheus collectors of the API process.
//
// # Metric types
//
// Counter: a cumulative value that only goes up. Reset on restart; query
// it with rate() or increase().
//
//	IncCounter(ReviewsCreatedTotal)
//
// Gauge: a value that goes up and down, sampled at scrape time.
//
//	SetGaugeVec(CircuitBreakerState, map[string]string{"name": "redis-book-cache"}, 2)
//
// Histogram: observations counted into buckets. Quantiles are computed at
// query time with histogram_quantile().
//
//	ObserveHistogram(ReviewRating, 4)
//
// # Scraping
//
//	bookreview-api                     Prometheus                Grafana
//	GET /metrics  <---- scrape 15s ---- time series store <---- PromQL
//
// Handler serves the Registry in the text exposition format; Middleware
// records every request against the route template, so /books/:id counts
// as one series regardless of the id.
//
// # Registry
//
// Collectors are registered on a dedicated Registry rather than the
// global default so tests can build several routers in one process.
// The Go runtime and process collectors are added in init.
//
// # Naming
//
// Naming follows Prometheus conventions:
//   - counters end in _total
//   - histograms end in their unit (_seconds, _stars)
//   - labels hold bounded values only: method, route, status, result
//
// Never put a book id or user id in a label: each distinct value is a new
// series kept in memory by the server.
//
// # Useful queries
//
//	# request rate per route
//	sum(rate(http_requests_total[5m])) by (route)
//
//	# p99 latency
//	histogram_quantile(0.99, sum(rate(http_request_duration_seconds_bucket[5m])) by (le))
//
//	# book cache hit ratio
//	sum(rate(book_cache_requests_total{result="hit"}[5m]))
//	  / sum(rate(book_cache_requests_total[5m]))
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry receives every collector of this package plus the Go and process collectors.
var Registry = prometheus.NewRegistry()

var factory = promauto.With(Registry)

var (
	// HTTP

	// HTTPRequestsTotal is labelled by method, route template and status.
	HTTPRequestsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration buckets: 1ms .. 10s.
	HTTPRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10},
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInProgress = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_progress",
			Help: "HTTP requests currently being served.",
		},
	)

	// Catalog

	BooksCreatedTotal = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "books_created_total",
			Help: "Books added to the catalog.",
		},
	)

	BooksDeletedTotal = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "books_deleted_total",
			Help: "Books removed from the catalog.",
		},
	)

	ReviewsCreatedTotal = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "reviews_created_total",
			Help: "Reviews submitted.",
		},
	)

	// ReviewRating is the distribution of submitted star ratings.
	ReviewRating = factory.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "review_rating_stars",
			Help:    "Star rating of submitted reviews.",
			Buckets: []float64{1, 2, 3, 4, 5},
		},
	)

	// Cache

	// CacheRequestsTotal result is hit, miss or error.
	CacheRequestsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "book_cache_requests_total",
			Help: "Book detail cache lookups.",
		},
		[]string{"result"},
	)

	// CircuitBreakerState 0=closed, 1=half-open, 2=open.
	CircuitBreakerState = factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open).",
		},
		[]string{"name"},
	)

	// Messaging

	MessagesPublishedTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messages_published_total",
			Help: "Domain events published to the broker.",
		},
		[]string{"exchange", "routing_key", "result"},
	)
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// Handler serves the Registry in the Prometheus exposition format.
func Handler() gin.HandlerFunc {
	h := promhttp.HandlerFor(Registry, promhttp.HandlerOpts{Registry: Registry})
	return gin.WrapH(h)
}

// Middleware records count, latency and in-flight requests.
// The path label is the route template (/api/v1/books/:id) so ids do not explode cardinality.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		HTTPRequestsInProgress.Inc()
		defer HTTPRequestsInProgress.Dec()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		HTTPRequestsTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		HTTPRequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

// IncCounter increments a counter.
func IncCounter(counter prometheus.Counter) {
	counter.Inc()
}

// IncCounterVec increments the labelled child of a CounterVec.
func IncCounterVec(counter *prometheus.CounterVec, labels map[string]string) {
	counter.With(labels).Inc()
}

// SetGaugeVec sets the labelled child of a GaugeVec.
func SetGaugeVec(gauge *prometheus.GaugeVec, labels map[string]string, value float64) {
	gauge.With(labels).Set(value)
}

// ObserveHistogram records one observation.
func ObserveHistogram(histogram prometheus.Histogram, value float64) {
	histogram.Observe(value)
}

package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// UnmatchedRoute is the path label of requests no route serves.
const UnmatchedRoute = "other"

// Batch row outcomes.
const (
	OutcomeWritten = "written"
	OutcomeSkipped = "skipped"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "spv_http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"path", "method", "code"},
	)

	httpDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "spv_http_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method"},
	)

	batchRowsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "spv_batch_rows_total",
			Help: "Catalogue rows processed by the batch pipeline, by outcome.",
		},
		[]string{"outcome"},
	)

	batchDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "spv_batch_duration_seconds",
			Help:    "Wall time of one batch run in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.01, 4, 8),
		},
	)

	calculationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "spv_calculations_total",
			Help: "Calculator invocations, by quantity.",
		},
		[]string{"quantity"},
	)
)

func init() {
	prometheus.MustRegister(httpRequestsTotal)
	prometheus.MustRegister(httpDurationSeconds)
	prometheus.MustRegister(batchRowsTotal)
	prometheus.MustRegister(batchDurationSeconds)
	prometheus.MustRegister(calculationsTotal)
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// BatchRow counts one batch row with the given outcome.
func BatchRow(outcome string) {
	BatchRows(outcome).Inc()
}

// BatchRows returns the counter for outcome.
func BatchRows(outcome string) prometheus.Counter {
	return batchRowsTotal.WithLabelValues(outcome)
}

// ObserveBatch records the duration of a finished batch run.
func ObserveBatch(d time.Duration) {
	batchDurationSeconds.Observe(d.Seconds())
}

// Calculation counts one computed quantity.
func Calculation(quantity string) {
	Calculations(quantity).Inc()
}

// Calculations returns the counter for quantity.
func Calculations(quantity string) prometheus.Counter {
	return calculationsTotal.WithLabelValues(quantity)
}

// HTTPRequests returns the request counter for one label set.
func HTTPRequests(path, method string, code int) prometheus.Counter {
	return httpRequestsTotal.WithLabelValues(path, method, strconv.Itoa(code))
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Middleware records request count and duration for each request, labelled
// with route(r) rather than the raw URL path.
func Middleware(route func(*http.Request) string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		path := route(r)
		HTTPRequests(path, r.Method, rw.statusCode).Inc()
		httpDurationSeconds.WithLabelValues(path, r.Method).Observe(time.Since(start).Seconds())
	})
}

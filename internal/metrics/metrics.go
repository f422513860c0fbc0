// Package metrics exposes the Prometheus collectors for the query engine
// and the HTTP API.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Engine metrics
	QueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "winegallery_query_duration_seconds",
			Help:    "Duration of catalog pipeline runs in seconds",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .5},
		},
		[]string{"operation"},
	)

	QueryResults = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "winegallery_query_matches",
			Help:    "Number of records matching a gallery query before pagination",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		},
	)

	QueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "winegallery_query_errors_total",
			Help: "Total number of engine calls that returned an error",
		},
		[]string{"operation"},
	)

	QuizCompletions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "winegallery_quiz_completions_total",
			Help: "Total number of completed questionnaires",
		},
		[]string{"empty"}, // "true" when the shortlist had no wines
	)

	CatalogRecords = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "winegallery_catalog_records",
			Help: "Number of records in the loaded catalog",
		},
	)

	// API metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "winegallery_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "winegallery_api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	APIRateLimited = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "winegallery_api_rate_limited_total",
			Help: "Total number of requests rejected by the rate limiter",
		},
	)
)

// RecordQuery records one engine call.
func RecordQuery(operation string, duration time.Duration, err error) {
	QueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		QueryErrors.WithLabelValues(operation).Inc()
	}
}

// RecordMatches records the size of a filtered result.
func RecordMatches(n int) {
	QueryResults.Observe(float64(n))
}

// RecordQuizCompletion counts a finished questionnaire.
func RecordQuizCompletion(shortlistLen int) {
	QuizCompletions.WithLabelValues(strconv.FormatBool(shortlistLen == 0)).Inc()
}

// RecordAPIRequest records an API request metric.
func RecordAPIRequest(method, endpoint string, status int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(status)).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

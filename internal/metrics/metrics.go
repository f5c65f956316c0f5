package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	ResultOK       = "ok"
	ResultNotFound = "not_found"
	ResultError    = "error"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatpdf_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "chatpdf_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: []float64{.005, .01, .05, .1, .5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"method", "path"},
	)

	// Business metrics
	UploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatpdf_uploads_total",
			Help: "Total PDF uploads by outcome",
		},
		[]string{"result"},
	)

	QuestionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatpdf_questions_total",
			Help: "Total questions asked by outcome",
		},
		[]string{"result"},
	)

	CompletionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "chatpdf_completion_duration_seconds",
			Help:    "Chat completion call latency",
			Buckets: []float64{.25, .5, 1, 2, 5, 10, 20, 45, 90},
		},
	)

	ExtractedCharacters = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "chatpdf_extracted_characters",
			Help:    "Characters of text extracted per uploaded PDF",
			Buckets: prometheus.ExponentialBuckets(256, 4, 8),
		},
	)
)

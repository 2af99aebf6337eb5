package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP requests by route template, method and status code
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "collegedir_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "method", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "collegedir_http_request_duration_seconds",
			Help:    "Time spent serving HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)

	// status: stored, invalid, failed
	LeadSubmissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "collegedir_lead_submissions_total",
			Help: "Lead form submissions by form type and outcome",
		},
		[]string{"form", "status"},
	)

	LeadEventFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "collegedir_lead_event_failures_total",
			Help: "Lead events that could not be published",
		},
		[]string{"form"},
	)

	InstitutionDecodeFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "collegedir_institution_decode_failures_total",
			Help: "Stored institutions skipped because they could not be decoded",
		},
	)

	// result: hit, miss, error
	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "collegedir_cache_lookups_total",
			Help: "Listing cache lookups by listing and result",
		},
		[]string{"listing", "result"},
	)
)

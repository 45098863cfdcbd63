package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "authui"

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status_code"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency distribution",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_flight",
			Help:      "Current number of HTTP requests being processed",
		},
	)
)

// Auth form metrics
var (
	FormSubmissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "form_submissions_total",
			Help:      "Submit attempts by form mode and result (started, invalid, ignored)",
		},
		[]string{"mode", "status"},
	)

	FormValidationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "form_validation_errors_total",
			Help:      "Field validation failures by form mode and field",
		},
		[]string{"mode", "field"},
	)

	FormOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "form_outcomes_total",
			Help:      "Completed submissions by form mode and notification kind",
		},
		[]string{"mode", "kind"},
	)

	SocialLoginAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "social_login_attempts_total",
			Help:      "Social login button presses by provider",
		},
		[]string{"provider"},
	)
)

// Live instance metrics
var (
	LiveInstances = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "live_instances",
			Help:      "Form and success-screen instances currently held in memory",
		},
		[]string{"kind"},
	)

	InstanceEvictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "instance_evictions_total",
			Help:      "Instances torn down because they expired or the store was full",
		},
		[]string{"kind"},
	)

	SuccessRedirects = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "success_redirects_total",
			Help:      "Redirects fired by the post-login success screen",
		},
	)
)

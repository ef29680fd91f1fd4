package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "brainplan"

var (
	submissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submissions_total",
			Help:      "Submission cycles by source mode and outcome",
		},
		[]string{"mode", "outcome"},
	)
	submissionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "submission_duration_seconds",
			Help:      "Time from pending to a terminal state",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"mode"},
	)
	validationErrorsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validation_errors_total",
			Help:      "Submissions rejected before entering pending",
		},
	)
	attachmentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "attachments_total",
			Help:      "Attachments processed by outcome",
		},
		[]string{"outcome"},
	)
	rateLimitedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the rate limiter by route group",
		},
		[]string{"group"},
	)
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route template and status class",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route", "class"},
	)
	panicsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "panics_total",
			Help:      "Handler panics recovered by middleware",
		},
	)
)

// ObserveSubmission records a finished submission cycle.
func ObserveSubmission(mode, outcome string, elapsed time.Duration) {
	submissionsTotal.WithLabelValues(mode, outcome).Inc()
	if elapsed < 0 {
		elapsed = 0
	}
	submissionDuration.WithLabelValues(mode).Observe(elapsed.Seconds())
}

// IncValidationError counts a rejected submission.
func IncValidationError() {
	validationErrorsTotal.Inc()
}

// IncAttachment counts a processed attachment.
func IncAttachment(outcome string) {
	attachmentsTotal.WithLabelValues(outcome).Inc()
}

// IncRateLimited counts a throttled request.
func IncRateLimited(group string) {
	rateLimitedTotal.WithLabelValues(group).Inc()
}

// ObserveRequest records one served HTTP request. Unmatched paths share
// the "unmatched" route label to keep cardinality bounded.
func ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	class := strconv.Itoa(status/100) + "xx"
	httpRequestDuration.WithLabelValues(method, route, class).Observe(elapsed.Seconds())
}

// IncPanic counts a recovered panic.
func IncPanic() {
	panicsTotal.Inc()
}

// Handler exposes the default registry in Prometheus text format.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}

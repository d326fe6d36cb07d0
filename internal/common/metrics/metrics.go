// internal/common/metrics/metrics.go
package metrics

import (
	"time"

	apperr "kondate-planner/internal/common/errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	Invocations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kondate_invocations_total",
			Help: "Total number of handler invocations by outcome",
		},
		[]string{"task_type", "status"},
	)

	InvocationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "kondate_invocation_duration_seconds",
			Help:    "Duration of handler invocations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"task_type"},
	)

	ValidationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kondate_validation_failures_total",
			Help: "Total number of rejected parameters by error code",
		},
		[]string{"task_type", "code"},
	)

	ParameterRepairs = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kondate_parameter_repairs_total",
			Help: "Total number of parameters rewritten from quasi-JSON",
		},
		[]string{"field"},
	)

	CollaboratorFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kondate_collaborator_failures_total",
			Help: "Total number of failed calls to external services",
		},
		[]string{"collaborator"},
	)

	MenuConflicts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "kondate_menu_conflicts_total",
			Help: "Total number of save attempts rejected because the date was taken",
		},
	)
)

// ObserveInvocation records one finished invocation. status is usually the
// HTTP-style status code of the response.
func ObserveInvocation(taskType, status string, started time.Time) {
	Invocations.WithLabelValues(taskType, status).Inc()
	InvocationDuration.WithLabelValues(taskType).Observe(time.Since(started).Seconds())
}

// RecordFailure counts a classified failure under the matching vector.
func RecordFailure(taskType string, err *apperr.StandardError) {
	switch {
	case err == nil:
	case apperr.IsValidation(err.Code):
		ValidationFailures.WithLabelValues(taskType, string(err.Code)).Inc()
	case err.Code == apperr.ErrCodeConflict:
		MenuConflicts.Inc()
	case err.Code == apperr.ErrCodeCollaboratorFailure:
		collaborator, _ := err.Metadata["collaborator"].(string)
		CollaboratorFailures.WithLabelValues(collaborator).Inc()
	}
}

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Action/Box Prometheus metrics. Standalone package so both the HTTP
// layer and the Box client can record without import cycles.

var (
	ActionInvocations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "action_invocations_total",
		Help: "Invocaciones de la acción por resultado (success|retryable|fatal)",
	}, []string{"outcome"})

	BoxAPIRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "box_api_requests_total",
		Help: "Requests salientes a la API de Box por status HTTP",
	}, []string{"status"})

	BoxAPIDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "box_api_request_duration_seconds",
		Help:    "Duración del request a la API de Box",
		Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
	})
)

// RecordInvocation cuenta una invocación terminada.
func RecordInvocation(outcome string) {
	ActionInvocations.WithLabelValues(outcome).Inc()
}

// RecordBoxRequest cuenta un request a Box y observa su duración.
func RecordBoxRequest(status int, d time.Duration) {
	BoxAPIRequests.WithLabelValues(strconv.Itoa(status)).Inc()
	BoxAPIDuration.Observe(d.Seconds())
}

// Register registers the action metrics on the given registry (or default if nil).
func Register(reg prometheus.Registerer) error {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	for _, c := range []prometheus.Collector{ActionInvocations, BoxAPIRequests, BoxAPIDuration} {
		if err := reg.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return err
			}
		}
	}
	return nil
}

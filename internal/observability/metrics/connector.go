package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "dms"

// ConnectorMetrics tracks the document facade: ECM calls and how the
// effective identity of each call was found. It satisfies
// ports.OperationObserver.
type ConnectorMetrics struct {
	service string

	ecmCallsTotal       *prometheus.CounterVec
	ecmCallDuration     *prometheus.HistogramVec
	identityResolutions *prometheus.CounterVec
}

func NewConnectorMetrics(service string, registry prometheus.Registerer) *ConnectorMetrics {
	ecmCallsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "ecm",
			Name:      "calls_total",
			Help:      "Total ECM calls by operation and outcome.",
		},
		[]string{"service", "operation", "outcome"},
	)
	ecmCallDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "ecm",
			Name:      "call_duration_seconds",
			Help:      "ECM call duration in seconds by operation.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "operation"},
	)
	identityResolutions := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "identity",
			Name:      "resolutions_total",
			Help:      "Effective identity resolutions by source.",
		},
		[]string{"service", "operation", "source"},
	)

	registry.MustRegister(ecmCallsTotal, ecmCallDuration, identityResolutions)

	return &ConnectorMetrics{
		service:             service,
		ecmCallsTotal:       ecmCallsTotal,
		ecmCallDuration:     ecmCallDuration,
		identityResolutions: identityResolutions,
	}
}

func (m *ConnectorMetrics) ObserveIdentity(operation, source string) {
	if source == "" {
		source = "unknown"
	}
	m.identityResolutions.WithLabelValues(m.service, operation, source).Inc()
}

func (m *ConnectorMetrics) ObserveECMCall(operation, outcome string, elapsed time.Duration) {
	if outcome == "" {
		outcome = "unknown"
	}
	m.ecmCallsTotal.WithLabelValues(m.service, operation, outcome).Inc()
	m.ecmCallDuration.WithLabelValues(m.service, operation).Observe(elapsed.Seconds())
}

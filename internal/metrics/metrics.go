package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Forwarding metrics
	RecordsForwarded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "telhawk_bridge_records_forwarded_total",
			Help: "Total number of records forwarded to the collection endpoint",
		},
		[]string{"forwarder"},
	)

	InvocationsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "telhawk_bridge_invocations_failed_total",
			Help: "Total number of failed invocations by stage",
		},
		[]string{"forwarder", "stage"},
	)

	// Relay metrics
	FlushDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "telhawk_bridge_flush_duration_seconds",
			Help:    "Duration of batch flushes to the collection endpoint in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	PayloadBytes = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "telhawk_bridge_payload_bytes_total",
			Help: "Total bytes of batch payload delivered to the collection endpoint",
		},
	)
)

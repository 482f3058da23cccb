// Package observability provides Prometheus metrics and OpenTelemetry tracing.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "aurora_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// ActiveWebSockets is the gauge of currently open relay connections.
	ActiveWebSockets = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "aurora_websocket_connections",
		Help: "Number of active WebSocket connections",
	})

	// WebSocketBackpressureDrops counts messages dropped due to backpressure by hub and reason.
	WebSocketBackpressureDrops = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "aurora_websocket_backpressure_drops_total",
		Help: "Total number of WebSocket messages dropped due to backpressure",
	}, []string{"hub", "reason"})

	// RelayEventsTotal counts relay events by type and delivery outcome.
	RelayEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "aurora_relay_events_total",
		Help: "Total relay events by type and outcome",
	}, []string{"event_type", "outcome"})

	// NotificationsDerived counts derived notifications by type.
	NotificationsDerived = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "aurora_notifications_derived_total",
		Help: "Total notifications derived from mutation events",
	}, []string{"type"})
)

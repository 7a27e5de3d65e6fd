// Package metrics defines the custom Prometheus metrics of the postboard API.
// It is the single source of truth for metric names, labels, and help strings.
//
// Metrics register themselves with the default Prometheus registry on import
// and are served by the /metrics endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "postboard"

// ── Account metrics ───────────────────────────────────────────────────────────

// UsersCreatedTotal counts accounts created.
// Label:
//   - origin: "register" (self-service) or "admin" (privileged creation)
var UsersCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_created_total",
		Help:      "Total number of user accounts created, by origin.",
	},
	[]string{"origin"},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// ── Post metrics ──────────────────────────────────────────────────────────────

var PostsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "posts_created_total",
		Help:      "Total number of posts created.",
	},
)

// ── Authorization metrics ─────────────────────────────────────────────────────

// AuthorizationDenialsTotal counts requests rejected with 403.
// Label:
//   - route: the matched route path (e.g. "/api/users/:id")
var AuthorizationDenialsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "authorization_denials_total",
		Help:      "Total number of requests denied by the authorization policy.",
	},
	[]string{"route"},
)

// ── Notification metrics ──────────────────────────────────────────────────────

// NotificationsDispatchedTotal counts delivery attempts per sink.
// Labels:
//   - sink: "websocket", "redis", or "nats"
//   - result: "ok" or "error"
var NotificationsDispatchedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_dispatched_total",
		Help:      "Total number of notification deliveries, by sink and result.",
	},
	[]string{"sink", "result"},
)

// NotificationsDroppedTotal counts notifications discarded because the queue was full.
var NotificationsDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_dropped_total",
		Help:      "Total number of notifications dropped before delivery.",
	},
)

// NotificationQueueDepth tracks the current number of notifications waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var NotificationQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "notification_queue_depth",
		Help:      "Current number of notifications pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// NotificationDeliveryDuration measures one sink delivery.
// Label:
//   - sink: the sink name
var NotificationDeliveryDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "notification_delivery_duration_seconds",
		Help:      "Duration of a single notification delivery to one sink.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"sink"},
)

// ── WebSocket metrics ─────────────────────────────────────────────────────────

var WebsocketClients = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "websocket_clients",
		Help:      "Current number of connected WebSocket clients.",
	},
)

package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// WebSocketConnectionsTotal is the gauge of active WebSocket connections.
	WebSocketConnectionsTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "socialpulse_websocket_connections_total",
		Help: "Total number of active WebSocket connections",
	})

	// WebSocketBackpressureDrops counts messages dropped due to backpressure by reason.
	WebSocketBackpressureDrops = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "socialpulse_websocket_backpressure_drops_total",
		Help: "Total number of WebSocket messages dropped due to backpressure",
	}, []string{"reason"})

	// EventsPublished counts realtime events published by topic kind.
	EventsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "socialpulse_realtime_events_published_total",
		Help: "Total realtime events published by topic kind",
	}, []string{"kind"})

	// NotificationsSuppressed counts notification requests suppressed by reason.
	NotificationsSuppressed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "socialpulse_notifications_suppressed_total",
		Help: "Total notification requests suppressed by reason",
	}, []string{"reason"})

	// NotificationFailures counts swallowed notification persistence/push failures.
	NotificationFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "socialpulse_notification_failures_total",
		Help: "Total notification delivery failures (logged and discarded)",
	}, []string{"stage"})

	// StoriesReaped counts stories physically deleted by the expiry reaper.
	StoriesReaped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "socialpulse_stories_reaped_total",
		Help: "Total expired stories deleted by the background reaper",
	})

	// RedisErrors counts Redis command failures by command name.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "socialpulse_redis_errors_total",
		Help: "Total Redis command errors by command",
	}, []string{"command"})

	// CacheHits counts cache-aside hits by key prefix.
	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "socialpulse_cache_hits_total",
		Help: "Total cache hits by key kind",
	}, []string{"kind"})

	// CacheMisses counts cache-aside misses by key prefix.
	CacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "socialpulse_cache_misses_total",
		Help: "Total cache misses by key kind",
	}, []string{"kind"})
)

package realtime

import (
	"context"
	"log"
	"runtime/debug"

	"socialpulse/internal/observability"

	"github.com/redis/go-redis/v9"
)

// Notifier publishes realtime events into Redis channels so every server
// process can fan them out to its own websocket clients. Without Redis it
// delivers straight to the local hub, so single-process deployments still
// get realtime delivery.
type Notifier struct {
	rdb   *redis.Client
	local *Hub
}

// NewNotifier creates a new Notifier instance using the provided Redis client.
func NewNotifier(rdb *redis.Client) *Notifier {
	return &Notifier{rdb: rdb}
}

// SetLocalHub installs the fallback hub used when no Redis client is
// configured.
func (n *Notifier) SetLocalHub(h *Hub) {
	n.local = h
}

// PublishUser sends an event payload to a user's channel.
func (n *Notifier) PublishUser(ctx context.Context, userID uint, event Event) error {
	if n.rdb == nil {
		if n.local != nil {
			observability.EventsPublished.WithLabelValues(event.Event).Inc()
			n.local.Broadcast(userID, string(event.Encode()))
		}
		return nil
	}
	observability.EventsPublished.WithLabelValues(event.Event).Inc()
	return n.rdb.Publish(ctx, UserChannel(userID), event.Encode()).Err()
}

// PublishBroadcast sends an event payload to all connected users.
func (n *Notifier) PublishBroadcast(ctx context.Context, event Event) error {
	if n.rdb == nil {
		if n.local != nil {
			observability.EventsPublished.WithLabelValues(event.Event).Inc()
			n.local.BroadcastAll(string(event.Encode()))
		}
		return nil
	}
	observability.EventsPublished.WithLabelValues(event.Event).Inc()
	return n.rdb.Publish(ctx, BroadcastChannel, event.Encode()).Err()
}

// StartPatternSubscriber subscribes to the per-user pattern and the broadcast
// channel, calling onMessage for each incoming message.
func (n *Notifier) StartPatternSubscriber(
	ctx context.Context, onMessage func(channel string, payload string),
) error {
	if n.rdb == nil {
		return nil
	}
	sub := n.rdb.PSubscribe(ctx, "events:user:*", BroadcastChannel)
	ch := sub.Channel()

	go func() {
		defer func() { _ = sub.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				func() {
					defer func() {
						if r := recover(); r != nil {
							log.Printf("PANIC in PatternSubscriber: %v\n%s", r, debug.Stack())
						}
					}()
					onMessage(msg.Channel, msg.Payload)
				}()
			}
		}
	}()

	return nil
}

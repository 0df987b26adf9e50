package realtime

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifier_PublishUser(t *testing.T) {
	// Notifier with nil Redis should return nil error (fail-open/noop)
	n := NewNotifier(nil)
	err := n.PublishUser(context.Background(), 1, Event{Event: EventNotification})
	assert.NoError(t, err)
}

func TestNotifier_LocalFallbackDeliversUserEvents(t *testing.T) {
	hub := NewHub()
	n := NewNotifier(nil)
	n.SetLocalHub(hub)

	recipient, err := hub.Register(7, nil)
	require.NoError(t, err)
	bystander, err := hub.Register(8, nil)
	require.NoError(t, err)

	require.NoError(t, n.PublishUser(context.Background(), 7, Event{Event: EventMessage, Payload: map[string]any{"text": "hi"}}))

	select {
	case raw := <-recipient.Send:
		var decoded struct {
			Event string `json:"event"`
		}
		require.NoError(t, json.Unmarshal(raw, &decoded))
		assert.Equal(t, EventMessage, decoded.Event)
	case <-time.After(time.Second):
		t.Fatal("recipient never received the user event without Redis")
	}

	select {
	case <-bystander.Send:
		t.Fatal("user event leaked to another user's connection")
	default:
	}

	require.NoError(t, n.PublishBroadcast(context.Background(), Event{Event: EventOnlineUsers}))
	select {
	case <-bystander.Send:
	case <-time.After(time.Second):
		t.Fatal("broadcast never reached connected clients without Redis")
	}
}

func TestUserChannel(t *testing.T) {
	t.Parallel()
	tests := []struct {
		userID   uint
		expected string
	}{
		{1, "events:user:1"},
		{100, "events:user:100"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, UserChannel(tt.userID))
	}
}

func TestEventEncode(t *testing.T) {
	t.Parallel()

	raw := Event{Event: EventMessage, Payload: map[string]any{"text": "hi"}}.Encode()

	var decoded struct {
		Event   string         `json:"event"`
		Payload map[string]any `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, EventMessage, decoded.Event)
	assert.Equal(t, "hi", decoded.Payload["text"])
}

func TestNotifier_PatternSubscriberDeliversUserEvents(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = rdb.Close() }()

	n := NewNotifier(rdb)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	channels := make(chan string, 4)
	require.NoError(t, n.StartPatternSubscriber(ctx, func(channel, _ string) {
		channels <- channel
	}))

	require.NoError(t, n.PublishUser(context.Background(), 7, Event{Event: EventNotification}))
	require.NoError(t, n.PublishBroadcast(context.Background(), Event{Event: EventOnlineUsers}))

	got := map[string]bool{}
	for i := 0; i < 2; i++ {
		select {
		case ch := <-channels:
			got[ch] = true
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for subscriber delivery")
		}
	}
	assert.True(t, got["events:user:7"])
	assert.True(t, got[BroadcastChannel])
}

func TestNotifier_SubscriberStopsOnCancel(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = rdb.Close() }()

	n := NewNotifier(rdb)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var received int32
	payloads := make(chan string, 2)
	require.NoError(t, n.StartPatternSubscriber(ctx, func(_ string, payload string) {
		atomic.AddInt32(&received, 1)
		payloads <- payload
	}))

	require.NoError(t, n.PublishUser(context.Background(), 1, Event{Event: "before-cancel"}))
	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&received) >= 1
	}, time.Second, 10*time.Millisecond)

	cancel()
	time.Sleep(20 * time.Millisecond)

	// Drain the pre-cancel message to avoid false positives.
	select {
	case <-payloads:
	default:
	}

	require.NoError(t, n.PublishUser(context.Background(), 1, Event{Event: "after-cancel"}))
	assert.Never(t, func() bool {
		select {
		case payload := <-payloads:
			var e Event
			_ = json.Unmarshal([]byte(payload), &e)
			return e.Event == "after-cancel"
		default:
			return false
		}
	}, 200*time.Millisecond, 10*time.Millisecond)
}

package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"socialpulse/internal/observability"

	"github.com/redis/go-redis/v9"
)

const (
	UserKeyPrefix     = "user:%d"
	PostKeyPrefix     = "post:%d"
	TimelineKeyPrefix = "timeline:%d"
	ChatListKeyPrefix = "chats:%d"
	StoriesKeyPrefix  = "stories:%d"
)

const (
	UserTTL     = 5 * time.Minute
	PostTTL     = 30 * time.Minute
	TimelineTTL = 1 * time.Minute
	ChatListTTL = 2 * time.Minute
	StoriesTTL  = 1 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func PostKey(postID uint) string {
	return fmt.Sprintf(PostKeyPrefix, postID)
}

func TimelineKey(userID uint) string {
	return fmt.Sprintf(TimelineKeyPrefix, userID)
}

func ChatListKey(userID uint) string {
	return fmt.Sprintf(ChatListKeyPrefix, userID)
}

func StoriesKey(userID uint) string {
	return fmt.Sprintf(StoriesKeyPrefix, userID)
}

// GetJSON unmarshals the cached value at key into dest. Returns false on a
// miss, a nil client, or any Redis error so callers fall through to the
// database.
func GetJSON(ctx context.Context, key string, kind string, dest interface{}) bool {
	if client == nil {
		return false
	}
	raw, err := client.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			observability.Logger.Warn("cache read failed", "key", key, "error", err)
		}
		observability.CacheMisses.WithLabelValues(kind).Inc()
		return false
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		observability.CacheMisses.WithLabelValues(kind).Inc()
		return false
	}
	observability.CacheHits.WithLabelValues(kind).Inc()
	return true
}

// SetJSON stores value at key with the given TTL. Failures are logged and
// ignored.
func SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if client == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := client.Set(ctx, key, raw, ttl).Err(); err != nil {
		observability.Logger.Warn("cache write failed", "key", key, "error", err)
	}
}

// Aside implements the cache-aside pattern: return the cached value at key
// when present, otherwise run loader to populate dest and write it back with
// the given TTL. Loader errors are returned unchanged; cache failures never
// surface to the caller.
func Aside(ctx context.Context, key string, dest interface{}, ttl time.Duration, loader func() error) error {
	kind := key
	if i := strings.IndexByte(key, ':'); i > 0 {
		kind = key[:i]
	}
	if GetJSON(ctx, key, kind, dest) {
		return nil
	}
	if err := loader(); err != nil {
		return err
	}
	SetJSON(ctx, key, dest, ttl)
	return nil
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
	Invalidate(ctx, TimelineKey(userID))
}

func InvalidatePost(ctx context.Context, postID uint) {
	Invalidate(ctx, PostKey(postID))
}

func InvalidateChatList(ctx context.Context, userID uint) {
	Invalidate(ctx, ChatListKey(userID))
}

func InvalidateStories(ctx context.Context, userID uint) {
	Invalidate(ctx, StoriesKey(userID))
}

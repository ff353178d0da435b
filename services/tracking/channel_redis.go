package tracking

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// locationTTL bounds how long a stale record survives a provider that
// stopped publishing.
const locationTTL = 24 * time.Hour

// RedisChannel implements RealtimeChannel on Redis: the current value lives
// under the key itself, change notifications ride pub/sub on the same name.
type RedisChannel struct {
	Client *redis.Client
}

// NewRedisChannel builds a RealtimeChannel over the given client.
func NewRedisChannel(client *redis.Client) *RedisChannel {
	return &RedisChannel{Client: client}
}

// Publish overwrites the current value for key and notifies subscribers.
func (c *RedisChannel) Publish(key string, value []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := c.Client.Set(ctx, key, value, locationTTL).Err(); err != nil {
		return fmt.Errorf("failed to store value for %s: %w", key, err)
	}
	if err := c.Client.Publish(ctx, key, value).Err(); err != nil {
		return fmt.Errorf("failed to publish update for %s: %w", key, err)
	}
	return nil
}

// Current returns the latest value for key.
func (c *RedisChannel) Current(key string) ([]byte, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	value, err := c.Client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read value for %s: %w", key, err)
	}
	return value, true, nil
}

// Subscribe registers a handler for future publishes on key. Each call owns
// its own pub/sub connection, so cancelling one subscriber leaves the rest
// untouched.
func (c *RedisChannel) Subscribe(key string, handler func([]byte)) (func(), error) {
	pubsub := c.Client.Subscribe(context.Background(), key)
	// Force the subscription handshake so a broken connection surfaces here
	// instead of as a silently dead feed.
	if _, err := pubsub.Receive(context.Background()); err != nil {
		pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe to %s: %w", key, err)
	}

	go func() {
		for msg := range pubsub.Channel() {
			handler([]byte(msg.Payload))
		}
	}()

	var once sync.Once
	cancel := func() {
		once.Do(func() { pubsub.Close() })
	}
	return cancel, nil
}

// internal/store/redis.go
package store

import (
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"golang.org/x/net/context"

	"github.com/eventcast/live-session-service/internal/config"
)

// RedisCache fronts the durable store for event reads. Status polling hits
// the event record every 2-3 seconds per client, so reads are served from
// cache whenever possible.
type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(cfg *config.Config) *RedisCache {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	return &RedisCache{
		client: rdb,
	}
}

func (r *RedisCache) SetEventData(eventID, data string, expiration time.Duration) error {
	ctx := context.Background()
	key := fmt.Sprintf("event:%s", eventID)

	err := r.client.Set(ctx, key, data, expiration).Err()
	if err != nil {
		return fmt.Errorf("failed to set event data: %w", err)
	}

	return nil
}

func (r *RedisCache) GetEventData(eventID string) (string, error) {
	ctx := context.Background()
	key := fmt.Sprintf("event:%s", eventID)

	data, err := r.client.Get(ctx, key).Result()
	if err != nil {
		return "", fmt.Errorf("failed to get event data: %w", err)
	}

	return data, nil
}

func (r *RedisCache) DeleteEventData(eventID string) error {
	ctx := context.Background()
	key := fmt.Sprintf("event:%s", eventID)

	err := r.client.Del(ctx, key).Err()
	if err != nil {
		return fmt.Errorf("failed to delete event data: %w", err)
	}

	return nil
}

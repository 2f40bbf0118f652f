package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"reserva-api/internal/pkg/config"
	"reserva-api/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// AvailabilityCache keeps computed day grids in Redis under
// availability:<resource_id>:<date>. Entries are short-lived; writes
// invalidate the touched days eagerly and the TTL catches the rest.
type AvailabilityCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewAvailabilityCache(client *redis.Client, cfg config.RedisConfig) *AvailabilityCache {
	return &AvailabilityCache{client: client, ttl: cfg.CacheTTL}
}

func NewRedisClient(cfg config.RedisConfig) (*redis.Client, func(), error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	cleanup := func() {
		_ = client.Close()
	}

	return client, cleanup, nil
}

func (c *AvailabilityCache) Get(ctx context.Context, resourceID uuid.UUID, date string) (*queries.ResourceAvailabilityView, error) {
	raw, err := c.client.Get(ctx, cacheKey(resourceID, date)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read availability cache: %w", err)
	}

	var view queries.ResourceAvailabilityView
	if err := json.Unmarshal(raw, &view); err != nil {
		return nil, fmt.Errorf("failed to decode cached availability: %w", err)
	}

	return &view, nil
}

func (c *AvailabilityCache) Set(ctx context.Context, view *queries.ResourceAvailabilityView) error {
	raw, err := json.Marshal(view)
	if err != nil {
		return fmt.Errorf("failed to encode availability: %w", err)
	}

	if err := c.client.Set(ctx, cacheKey(view.ResourceID, view.Date), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write availability cache: %w", err)
	}
	return nil
}

func (c *AvailabilityCache) InvalidateDay(ctx context.Context, resourceID uuid.UUID, days ...time.Time) error {
	if len(days) == 0 {
		return nil
	}

	keys := make([]string, 0, len(days))
	for _, d := range days {
		keys = append(keys, cacheKey(resourceID, d.Format("2006-01-02")))
	}

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to invalidate availability cache: %w", err)
	}
	return nil
}

func cacheKey(resourceID uuid.UUID, date string) string {
	return fmt.Sprintf("availability:%s:%s", resourceID, date)
}

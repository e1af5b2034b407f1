package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/zvrva/shareit/config"
	"github.com/zvrva/shareit/internal/domain"
)

// RedisCache keeps item search results warm. Writes to the catalog are rare
// compared to searches, so a short TTL is enough to keep results fresh.
type RedisCache struct {
	client    *redis.Client
	searchTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, searchTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:    redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		searchTTL: searchTTL,
	}
}

func (c *RedisCache) GetSearch(ctx context.Context, text string) ([]domain.Item, error) {
	data, err := c.client.Get(ctx, searchKey(text)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var items []domain.Item
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *RedisCache) SetSearch(ctx context.Context, text string, items []domain.Item) error {
	payload, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, searchKey(text), payload, c.searchTTL).Err()
}

func searchKey(text string) string {
	return fmt.Sprintf("cache:items:search:%s", strings.ToLower(text))
}

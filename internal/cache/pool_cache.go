package cache

import (
	"context"
	"dyslexiatutor/internal/model"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// PoolCache handles Redis operations for per-mode question pools
type PoolCache interface {
	SetPool(ctx context.Context, mode model.Mode, questions []model.Question) error
	GetPool(ctx context.Context, mode model.Mode) ([]model.Question, error)
	DeletePool(ctx context.Context, mode model.Mode) error
}

type poolCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPoolCache creates a new pool cache
func NewPoolCache(client *redis.Client, ttl time.Duration) PoolCache {
	return &poolCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *poolCache) key(mode model.Mode) string {
	return "pool:mode:" + string(mode)
}

func (c *poolCache) SetPool(ctx context.Context, mode model.Mode, questions []model.Question) error {
	data, err := json.Marshal(questions)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(mode), data, c.ttl).Err()
}

func (c *poolCache) GetPool(ctx context.Context, mode model.Mode) ([]model.Question, error) {
	data, err := c.client.Get(ctx, c.key(mode)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var questions []model.Question
	if err := json.Unmarshal([]byte(data), &questions); err != nil {
		return nil, err
	}
	return questions, nil
}

func (c *poolCache) DeletePool(ctx context.Context, mode model.Mode) error {
	return c.client.Del(ctx, c.key(mode)).Err()
}

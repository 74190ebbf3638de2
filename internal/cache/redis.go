package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Redis struct {
	Client *redis.Client
}

func NewRedis(ctx context.Context, addr, password string, db int) (*Redis, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		zap.S().Errorw("Failed to ping Redis", "error", err)
		if cerr := rdb.Close(); cerr != nil {
			return nil, cerr
		}
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	zap.S().Info("Connected to Redis successfully")

	return &Redis{Client: rdb}, nil
}

func (r *Redis) Ping(ctx context.Context) error {
	return r.Client.Ping(ctx).Err()
}

func (r *Redis) Close() error {
	return r.Client.Close()
}

// RankingCache stores LLM-ranked challenge id lists.
type RankingCache struct {
	client *redis.Client
	prefix string
}

func NewRankingCache(r *Redis) *RankingCache {
	return &RankingCache{
		client: r.Client,
		prefix: "recommendations:",
	}
}

// GetRanking returns nil, nil on a cache miss.
func (c *RankingCache) GetRanking(ctx context.Context, key string) ([]string, error) {
	data, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

func (c *RankingCache) SetRanking(ctx context.Context, key string, ids []string, ttl time.Duration) error {
	b, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.prefix+key, b, ttl).Err()
}

package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/khoahotran/pictag/internal/config"
	"github.com/khoahotran/pictag/internal/domain/tag"
	"github.com/khoahotran/pictag/pkg/logger"
)

func NewRedisClient(cfg config.Config, log logger.Logger) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       0,
	})

	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("can not connect Redis: %w", err)
	}

	log.Info("Connect Redis successfully.")
	return rdb, nil
}

const (
	tagListKey = "pictag:tags:all"
	tagListTTL = 10 * time.Minute
)

// redisTagCache holds the full tag listing. The core image query never reads
// it; only the tag listing endpoint does, and every tag mutation drops it.
type redisTagCache struct {
	rdb    *redis.Client
	logger logger.Logger
}

func NewRedisTagCache(rdb *redis.Client, log logger.Logger) tag.Cache {
	return &redisTagCache{rdb: rdb, logger: log}
}

func (c *redisTagCache) GetList(ctx context.Context) ([]tag.Tag, error) {
	payload, err := c.rdb.Get(ctx, tagListKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("tag cache read failed: %w", err)
	}

	var tags []tag.Tag
	if err := json.Unmarshal(payload, &tags); err != nil {
		// A corrupt entry counts as a miss; the next SetList overwrites it.
		return nil, fmt.Errorf("tag cache entry is corrupt: %w", err)
	}
	return tags, nil
}

func (c *redisTagCache) SetList(ctx context.Context, tags []tag.Tag) error {
	payload, err := json.Marshal(tags)
	if err != nil {
		return fmt.Errorf("failed to marshal tag list: %w", err)
	}
	if err := c.rdb.Set(ctx, tagListKey, payload, tagListTTL).Err(); err != nil {
		return fmt.Errorf("tag cache write failed: %w", err)
	}
	return nil
}

func (c *redisTagCache) Invalidate(ctx context.Context) error {
	if err := c.rdb.Del(ctx, tagListKey).Err(); err != nil {
		return fmt.Errorf("tag cache invalidation failed: %w", err)
	}
	return nil
}

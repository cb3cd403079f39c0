package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/aman-zulfiqar/solana-sniper-engine/internal/constants"
	"github.com/aman-zulfiqar/solana-sniper-engine/internal/models"
)

// RedisCache keeps a bounded list of recent executions and publishes live
// events for subscribers
type RedisCache struct {
	client *redis.Client
}

type RedisConfig struct {
	Addr string
	DB   int
}

func NewRedisCache(ctx context.Context, cfg RedisConfig) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr: cfg.Addr,
		DB:   cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisCache{client: client}, nil
}

// Client exposes the underlying connection for collaborators that share it
// (the feature flag store)
func (r *RedisCache) Client() *redis.Client {
	return r.client
}

func (r *RedisCache) AddRecentExecution(ctx context.Context, ev *models.ExecutionEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal execution: %w", err)
	}

	pipe := r.client.Pipeline()
	pipe.LPush(ctx, constants.RedisKeyRecentExecutions, data)
	pipe.LTrim(ctx, constants.RedisKeyRecentExecutions, 0, constants.MaxRecentExecutions-1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("push recent execution: %w", err)
	}

	return nil
}

func (r *RedisCache) GetRecentExecutions(ctx context.Context, limit int64) ([]*models.ExecutionEvent, error) {
	if limit <= 0 || limit > constants.MaxRecentExecutions {
		limit = constants.MaxRecentExecutions
	}

	vals, err := r.client.LRange(ctx, constants.RedisKeyRecentExecutions, 0, limit-1).Result()
	if err != nil {
		return nil, fmt.Errorf("fetch recent executions: %w", err)
	}

	out := make([]*models.ExecutionEvent, 0, len(vals))
	for _, v := range vals {
		var ev models.ExecutionEvent
		if err := json.Unmarshal([]byte(v), &ev); err != nil {
			continue
		}
		out = append(out, &ev)
	}

	return out, nil
}

func (r *RedisCache) PublishExecution(ctx context.Context, ev *models.ExecutionEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal execution: %w", err)
	}

	channels := []string{
		constants.PubSubChannelExecutions,
		fmt.Sprintf("executions:pair:%s", ev.Pair),
		fmt.Sprintf("executions:provider:%s", ev.Provider),
	}

	pipe := r.client.Pipeline()
	for _, channel := range channels {
		pipe.Publish(ctx, channel, data)
	}

	_, err = pipe.Exec(ctx)
	return err
}

func (r *RedisCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisCache) Close() error {
	return r.client.Close()
}

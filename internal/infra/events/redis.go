package events

import (
	"context"
	"encoding/json"
	"fmt"

	"app/internal/events"

	"github.com/go-redis/redis/v8"
)

// Redis PUB/SUBで購読レイヤーへJSONを流す
type RedisPublisher struct {
	rdb *redis.Client
}

func NewRedisPublisher(redisURL string) (*RedisPublisher, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	rdb := redis.NewClient(opt)

	//接続確認
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisPublisher{rdb: rdb}, nil
}

func (p *RedisPublisher) Publish(ctx context.Context, topic events.Topic, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}
	return p.rdb.Publish(ctx, string(topic), data).Err()
}

func (p *RedisPublisher) Close() error {
	return p.rdb.Close()
}

package alerts

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"github.com/kumohax/platform/pkg/common/logger"
	"github.com/kumohax/platform/pkg/common/models"
)

// RedisBridge fans alerts out through a Redis channel so every service
// instance delivers the same stream to its local subscribers. When installed
// as the generator's publisher, alerts flow generator -> Redis -> bridge ->
// local broadcast.
type RedisBridge struct {
	client  *redis.Client
	channel string
}

// NewRedisBridge returns nil when no Redis client is configured, which keeps
// the single-instance local broadcast path in use.
func NewRedisBridge(client *redis.Client, channel string) *RedisBridge {
	if client == nil {
		return nil
	}
	if channel == "" {
		channel = "alerts.stream"
	}
	return &RedisBridge{client: client, channel: channel}
}

func (b *RedisBridge) Publish(ctx context.Context, alert models.AlertEvent) error {
	payload, err := json.Marshal(alert)
	if err != nil {
		return err
	}
	return b.client.Publish(ctx, b.channel, payload).Err()
}

// Run consumes the Redis channel and re-broadcasts each alert to the local
// generator's subscribers until the context is cancelled.
func (b *RedisBridge) Run(ctx context.Context, g *Generator) {
	sub := b.client.Subscribe(ctx, b.channel)
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, open := <-ch:
			if !open {
				return
			}
			var alert models.AlertEvent
			if err := json.Unmarshal([]byte(msg.Payload), &alert); err != nil {
				logger.Log.WithError(err).Warn("discarding malformed alert from redis")
				continue
			}
			g.Broadcast(alert)
		}
	}
}

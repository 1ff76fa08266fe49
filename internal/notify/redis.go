package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Event is the JSON payload published on the notification channel.
type Event struct {
	UserID    uint      `json:"user_id"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// RedisPublisher publishes notifications for live consumers (websocket
// gateways, push workers). Nobody listening is not an error.
type RedisPublisher struct {
	client  *redis.Client
	channel string
}

// NewRedisPublisher connects to redisURL and verifies the connection.
func NewRedisPublisher(redisURL, channel string) (*RedisPublisher, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return NewRedisPublisherWithClient(client, channel), nil
}

func NewRedisPublisherWithClient(client *redis.Client, channel string) *RedisPublisher {
	return &RedisPublisher{client: client, channel: channel}
}

func (p *RedisPublisher) Emit(ctx context.Context, userID uint, message string) error {
	payload, err := json.Marshal(Event{UserID: userID, Message: message, CreatedAt: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}
	if err := p.client.Publish(ctx, p.channel, payload).Err(); err != nil {
		return fmt.Errorf("publish notification: %w", err)
	}
	return nil
}

func (p *RedisPublisher) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

func (p *RedisPublisher) Close() error {
	return p.client.Close()
}

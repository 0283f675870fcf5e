package eventdedup

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultTTL covers Slack's retry window for an undelivered event
const DefaultTTL = 1 * time.Hour

const keyPrefix = "simplesurvey:event:"

// redisClient is the subset of redis.Cmdable the service uses
type redisClient interface {
	SetNX(ctx context.Context, key string, value any, expiration time.Duration) *redis.BoolCmd
}

type EventDedupService struct {
	client redisClient
	ttl    time.Duration
}

func NewEventDedupService(client redisClient, ttl time.Duration) *EventDedupService {
	return &EventDedupService{client: client, ttl: ttl}
}

// NewRedisClient parses a redis:// URL and verifies the connection
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return client, nil
}

func (s *EventDedupService) MarkProcessed(ctx context.Context, eventID string) (bool, error) {
	if eventID == "" {
		return true, nil
	}

	first, err := s.client.SetNX(ctx, keyPrefix+eventID, time.Now().Unix(), s.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to mark event %s as processed: %w", eventID, err)
	}

	if !first {
		log.Printf("⏭️ Skipping already processed Slack event: %s", eventID)
	}
	return first, nil
}

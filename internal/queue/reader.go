package queue

import (
	"context"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"
)

// Message represents a message read from a Redis stream.
type Message struct {
	ID    string // Redis message ID (e.g., "1702000000000-0")
	Event Event
}

// Reader reads back recently published events, newest first.
type Reader interface {
	Recent(ctx context.Context, stream string, count int64) ([]Message, error)
}

type RedisReader struct {
	client *redis.Client
}

func NewReader(client *redis.Client) Reader {
	return &RedisReader{client: client}
}

// Recent returns up to count events using XREVRANGE. Malformed entries are skipped.
func (r *RedisReader) Recent(ctx context.Context, stream string, count int64) ([]Message, error) {
	entries, err := r.client.XRevRangeN(ctx, stream, "+", "-", count).Result()
	if err != nil {
		return nil, fmt.Errorf("xrevrange: %w", err)
	}

	messages := make([]Message, 0, len(entries))
	for _, entry := range entries {
		event, err := ParseEvent(entry.Values)
		if err != nil {
			log.Printf("[Reader] parse error: msgID=%s err=%v", entry.ID, err)
			continue
		}
		messages = append(messages, Message{ID: entry.ID, Event: event})
	}
	return messages, nil
}

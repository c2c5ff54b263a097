// internal/journal/journal.go
package journal

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/promptfall/promptfall/internal/game"
)

// DefaultQueueName is the Redis list (queue) name for finished rounds.
const DefaultQueueName = "promptfall_rounds"

// Journal pushes finished round records onto a Redis list so downstream
// consumers can process them out of band. It never reads them back; the
// in-memory room state stays authoritative.
type Journal struct {
	rdb   *redis.Client
	queue string
}

// Connect dials Redis and verifies the connection with a ping. An empty
// queue name falls back to DefaultQueueName.
func Connect(addr string, db int, queue string) (*Journal, error) {
	if queue == "" {
		queue = DefaultQueueName
	}
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}
	return &Journal{rdb: rdb, queue: queue}, nil
}

// PublishRound serializes the record to JSON and pushes it to the queue.
// This does not block the calling logic (other than a quick network send).
func (j *Journal) PublishRound(ctx context.Context, rec game.RoundRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal RoundRecord: %w", err)
	}
	if err := j.rdb.RPush(ctx, j.queue, data).Err(); err != nil {
		return fmt.Errorf("failed to RPush to Redis list '%s': %w", j.queue, err)
	}
	return nil
}

func (j *Journal) Close() error {
	return j.rdb.Close()
}

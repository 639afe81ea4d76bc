package state

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Higherpines/SkoreBot/pkg/models"
)

const stateKeyPattern = "game:*:state"

// RedisWriter persists GameState records so restarts never duplicate
// notifications. Records carry a TTL slightly past the final retention so
// Redis cleans up anything the in-memory eviction missed.
type RedisWriter struct {
	client    *redis.Client
	retention time.Duration
}

// NewRedisWriter creates a new state persistence writer
func NewRedisWriter(client *redis.Client, retention time.Duration) *RedisWriter {
	return &RedisWriter{
		client:    client,
		retention: retention,
	}
}

func stateKey(gameID string) string {
	return fmt.Sprintf("game:%s:state", gameID)
}

// Save writes one GameState record
func (w *RedisWriter) Save(ctx context.Context, st models.GameState) error {
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("marshaling game state: %w", err)
	}

	ttl := 24 * time.Hour
	if st.Game.Status == models.StatusFinal {
		ttl = w.retention + time.Hour
	}

	return w.client.Set(ctx, stateKey(st.Game.GameID), data, ttl).Err()
}

// Delete removes a persisted record after eviction or retirement
func (w *RedisWriter) Delete(ctx context.Context, gameID string) error {
	return w.client.Del(ctx, stateKey(gameID)).Err()
}

// LoadAll reads every persisted GameState record, preserving flag values
// exactly. Unreadable records are skipped rather than failing startup.
func (w *RedisWriter) LoadAll(ctx context.Context) ([]models.GameState, error) {
	var states []models.GameState

	iter := w.client.Scan(ctx, 0, stateKeyPattern, 100).Iterator()
	for iter.Next(ctx) {
		data, err := w.client.Get(ctx, iter.Val()).Result()
		if err != nil {
			continue
		}

		var st models.GameState
		if err := json.Unmarshal([]byte(data), &st); err != nil {
			continue
		}
		states = append(states, st)
	}

	if err := iter.Err(); err != nil {
		return states, fmt.Errorf("scanning persisted state: %w", err)
	}

	return states, nil
}

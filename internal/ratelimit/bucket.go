package ratelimit

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenBucket caps chat sends using a Redis-backed token bucket, refilled
// to capacity once per minute. Limited sends are dropped by the caller, not
// queued, so a scoring flurry can never wedge a poll cycle.
type TokenBucket struct {
	client       *redis.Client
	key          string
	maxTokens    int
	refillPeriod time.Duration
}

// NewTokenBucket creates a token bucket rate limiter and starts its refill
// goroutine on ctx. The refill runs unconditionally: a bucket key left
// behind by a previous process (drained or not) still recovers tokens.
func NewTokenBucket(ctx context.Context, client *redis.Client, maxTokens int) *TokenBucket {
	return newTokenBucket(ctx, client, maxTokens, 1*time.Minute)
}

func newTokenBucket(ctx context.Context, client *redis.Client, maxTokens int, refillPeriod time.Duration) *TokenBucket {
	tb := &TokenBucket{
		client:       client,
		key:          "skorebot:ratelimit:tokens",
		maxTokens:    maxTokens,
		refillPeriod: refillPeriod,
	}

	go tb.refillLoop(ctx)
	return tb
}

// Allow returns true if a notification can be sent (token available)
func (tb *TokenBucket) Allow(ctx context.Context) (bool, error) {
	if err := tb.initialize(ctx); err != nil {
		return false, err
	}

	tokens, err := tb.client.Decr(ctx, tb.key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to decrement tokens: %w", err)
	}

	if tokens < 0 {
		// Restore the token we tried to take
		tb.client.Incr(ctx, tb.key)
		return false, nil
	}

	return true, nil
}

// initialize sets up the token bucket key if it doesn't exist
func (tb *TokenBucket) initialize(ctx context.Context) error {
	exists, err := tb.client.Exists(ctx, tb.key).Result()
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	if exists == 0 {
		if err := tb.client.Set(ctx, tb.key, tb.maxTokens, 0).Err(); err != nil {
			return fmt.Errorf("failed to initialize bucket: %w", err)
		}
	}

	return nil
}

// refillLoop refills the token bucket every refill period until ctx ends
func (tb *TokenBucket) refillLoop(ctx context.Context) {
	ticker := time.NewTicker(tb.refillPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := tb.client.Set(ctx, tb.key, tb.maxTokens, 0).Err(); err != nil {
				log.Printf("error refilling token bucket: %v", err)
			}
		}
	}
}

// Tokens returns the current token count (for monitoring)
func (tb *TokenBucket) Tokens(ctx context.Context) (int, error) {
	tokens, err := tb.client.Get(ctx, tb.key).Int()
	if err != nil {
		if err == redis.Nil {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get tokens: %w", err)
	}

	return tokens, nil
}

// Reset resets the bucket to max tokens (for testing)
func (tb *TokenBucket) Reset(ctx context.Context) error {
	return tb.client.Set(ctx, tb.key, tb.maxTokens, 0).Err()
}

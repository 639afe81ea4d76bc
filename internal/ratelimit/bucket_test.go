package ratelimit

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func testClient(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return client
}

func TestAllowConsumesTokens(t *testing.T) {
	client := testClient(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tb := newTokenBucket(ctx, client, 2, time.Hour)

	for i := 0; i < 2; i++ {
		ok, err := tb.Allow(ctx)
		if err != nil {
			t.Fatalf("Allow %d: %v", i+1, err)
		}
		if !ok {
			t.Fatalf("Allow %d = false, want true", i+1)
		}
	}

	ok, err := tb.Allow(ctx)
	if err != nil {
		t.Fatalf("Allow over capacity: %v", err)
	}
	if ok {
		t.Error("Allow over capacity = true, want false")
	}

	tokens, err := tb.Tokens(ctx)
	if err != nil {
		t.Fatalf("Tokens: %v", err)
	}
	if tokens != 0 {
		t.Errorf("tokens = %d, want 0", tokens)
	}
}

func TestDrainedBucketFromPreviousProcessRefills(t *testing.T) {
	client := testClient(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// A previous process left the key behind fully drained; the new process
	// must still refill it or every send stays blocked forever
	if err := client.Set(ctx, "skorebot:ratelimit:tokens", strconv.Itoa(0), 0).Err(); err != nil {
		t.Fatalf("seeding drained bucket: %v", err)
	}

	tb := newTokenBucket(ctx, client, 20, 20*time.Millisecond)

	deadline := time.After(2 * time.Second)
	for {
		ok, err := tb.Allow(ctx)
		if err != nil {
			t.Fatalf("Allow: %v", err)
		}
		if ok {
			return
		}
		select {
		case <-deadline:
			t.Fatal("drained bucket never refilled; all sends would be dropped")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestRefillStopsWhenContextEnds(t *testing.T) {
	client := testClient(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := client.Set(context.Background(), "skorebot:ratelimit:tokens", strconv.Itoa(0), 0).Err(); err != nil {
		t.Fatalf("seeding drained bucket: %v", err)
	}

	tb := newTokenBucket(ctx, client, 20, 10*time.Millisecond)

	time.Sleep(50 * time.Millisecond)

	ok, err := tb.Allow(context.Background())
	if err != nil {
		t.Fatalf("Allow: %v", err)
	}
	if ok {
		t.Error("refill ran after its context was cancelled")
	}
}

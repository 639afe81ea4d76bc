package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Higherpines/SkoreBot/internal/api"
	"github.com/Higherpines/SkoreBot/internal/config"
	"github.com/Higherpines/SkoreBot/internal/notifier"
	"github.com/Higherpines/SkoreBot/internal/poller"
	"github.com/Higherpines/SkoreBot/internal/providers/espn"
	"github.com/Higherpines/SkoreBot/internal/publisher"
	"github.com/Higherpines/SkoreBot/internal/ratelimit"
	"github.com/Higherpines/SkoreBot/internal/registry"
	"github.com/Higherpines/SkoreBot/internal/state"
)

func main() {
	log.Println("Starting SkoreBot...")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Redis is optional; without it the scheduler runs purely in memory
	// (restart-safe persistence, intent stream, and rate limiting disabled)
	var (
		persist      *state.RedisWriter
		intentStream poller.IntentPublisher
		sendLimiter  poller.Limiter
	)
	if cfg.Redis.URL != "" {
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			log.Fatalf("Configuration error: invalid REDIS_URL: %v", err)
		}

		redisClient := redis.NewClient(opts)
		defer redisClient.Close()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		log.Println("Connected to Redis")

		persist = state.NewRedisWriter(redisClient, cfg.Scheduler.FinalRetention)
		intentStream = publisher.NewStreamPublisher(redisClient)
		sendLimiter = ratelimit.NewTokenBucket(ctx, redisClient, cfg.Notifier.AlertsPerMinute)
	}

	sportRegistry := registry.New(cfg.School)
	adapters := sportRegistry.Enabled(cfg.Scheduler.Sports)
	if len(adapters) == 0 {
		log.Fatalf("Configuration error: no known sports in SPORTS=%v (registered: %v)",
			cfg.Scheduler.Sports, sportRegistry.AllSportKeys())
	}

	sportNames := make(map[string]string, len(adapters))
	for _, adapter := range adapters {
		sportNames[adapter.SportKey()] = adapter.DisplayName()
	}

	gameStore := state.NewStore()
	if persist != nil {
		states, err := persist.LoadAll(ctx)
		if err != nil {
			log.Printf("Warning: could not load persisted state: %v", err)
		}
		gameStore.Restore(states)
		log.Printf("Restored %d persisted game states", len(states))
	}

	espnClient := espn.New(cfg.Scheduler.FetchTimeout)
	discord := notifier.NewDiscordNotifier(cfg.Notifier.DiscordWebhookURL, sportNames)

	if err := discord.SendStartupNotification(ctx, cfg.School, cfg.Scheduler.Sports); err != nil {
		log.Printf("Warning: startup notification failed: %v", err)
	}

	// Avoid handing the orchestrator a typed-nil interface when Redis is off
	var stateWriter poller.StateWriter
	if persist != nil {
		stateWriter = persist
	}

	orch := poller.NewOrchestrator(adapters, espnClient, gameStore, stateWriter, discord, intentStream, sendLimiter, poller.Config{
		PollInterval:           cfg.Scheduler.PollInterval,
		PreGameLead:            cfg.Scheduler.PreGameLead,
		FinalRetention:         cfg.Scheduler.FinalRetention,
		MissingGameGraceCycles: cfg.Scheduler.MissingGameGraceCycles,
		FeedFailureAlertCycles: cfg.Scheduler.FeedFailureAlertCycles,
		FetchTimeout:           cfg.Scheduler.FetchTimeout,
	})

	// Query API
	apiHandler := api.NewHandler(gameStore, sportNames)
	server := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: api.NewRouter(apiHandler),
	}

	go func() {
		log.Printf("Query API listening on %s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("Query API error: %v", err)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Println("Received shutdown signal")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("Query API shutdown error: %v", err)
		}

		cancel()
	}()

	log.Printf("Monitoring %s across %d sports", cfg.School, len(adapters))
	orch.Start(ctx)

	log.Println("SkoreBot stopped")
}

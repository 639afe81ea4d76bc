package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// SchedulerConfig controls the poll loop and notification windows
type SchedulerConfig struct {
	Sports                 []string
	PollInterval           time.Duration
	PreGameLead            time.Duration
	FinalRetention         time.Duration
	MissingGameGraceCycles int
	FeedFailureAlertCycles int
	FetchTimeout           time.Duration
}

// NotifierConfig holds chat delivery configuration
type NotifierConfig struct {
	DiscordWebhookURL string
	AlertsPerMinute   int
}

// ServerConfig holds the query API configuration
type ServerConfig struct {
	Addr string
}

// RedisConfig holds Redis connection configuration.
// An empty URL disables persistence, the intent stream, and rate limiting.
type RedisConfig struct {
	URL string
}

// Config holds all application configuration
type Config struct {
	School    string
	Scheduler SchedulerConfig
	Notifier  NotifierConfig
	Server    ServerConfig
	Redis     RedisConfig

	// parseProblems collects malformed env values seen during Load;
	// Validate reports them so a typo never silently becomes a default
	parseProblems []string
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first if present.
func Load() *Config {
	_ = godotenv.Load()

	var problems []string
	return &Config{
		School: getEnv("SCHOOL_NAME", "South Carolina"),
		Scheduler: SchedulerConfig{
			Sports:                 splitList(getEnv("SPORTS", "football_college,basketball_college")),
			PollInterval:           time.Duration(getEnvInt("POLL_INTERVAL_SECONDS", 60, &problems)) * time.Second,
			PreGameLead:            time.Duration(getEnvInt("PRE_GAME_MINUTES", 30, &problems)) * time.Minute,
			FinalRetention:         time.Duration(getEnvInt("FINAL_RETENTION_SECONDS", 21600, &problems)) * time.Second,
			MissingGameGraceCycles: getEnvInt("MISSING_GAME_GRACE_CYCLES", 10, &problems),
			FeedFailureAlertCycles: getEnvInt("FEED_FAILURE_ALERT_CYCLES", 10, &problems),
			FetchTimeout:           time.Duration(getEnvInt("FETCH_TIMEOUT_SECONDS", 15, &problems)) * time.Second,
		},
		Notifier: NotifierConfig{
			DiscordWebhookURL: getEnv("DISCORD_WEBHOOK_URL", ""),
			AlertsPerMinute:   getEnvInt("ALERTS_PER_MINUTE", 20, &problems),
		},
		Server: ServerConfig{
			Addr: getEnv("SERVER_ADDR", ":8080"),
		},
		Redis: RedisConfig{
			URL: getEnv("REDIS_URL", ""),
		},
		parseProblems: problems,
	}
}

// Validate reports configuration errors. These are fatal at startup only;
// nothing mid-run re-validates.
func (c *Config) Validate() error {
	problems := append([]string(nil), c.parseProblems...)

	if c.School == "" {
		problems = append(problems, "SCHOOL_NAME must not be empty")
	}
	if len(c.Scheduler.Sports) == 0 {
		problems = append(problems, "SPORTS must list at least one sport")
	}
	if c.Scheduler.PollInterval < time.Second {
		problems = append(problems, "POLL_INTERVAL_SECONDS must be at least 1")
	}
	if c.Scheduler.PreGameLead <= 0 {
		problems = append(problems, "PRE_GAME_MINUTES must be positive")
	}
	if c.Scheduler.FinalRetention <= 0 {
		problems = append(problems, "FINAL_RETENTION_SECONDS must be positive")
	}
	if c.Scheduler.MissingGameGraceCycles < 1 {
		problems = append(problems, "MISSING_GAME_GRACE_CYCLES must be at least 1")
	}
	if c.Scheduler.FeedFailureAlertCycles < 1 {
		problems = append(problems, "FEED_FAILURE_ALERT_CYCLES must be at least 1")
	}
	if c.Notifier.DiscordWebhookURL == "" {
		problems = append(problems, "DISCORD_WEBHOOK_URL is required")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer environment variable or returns a default
// value. A set-but-malformed value is recorded in problems; the default is
// used only so Load can finish building the struct before Validate fails.
func getEnvInt(key string, defaultValue int, problems *[]string) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		*problems = append(*problems, fmt.Sprintf("%s must be an integer, got %q", key, value))
		return defaultValue
	}
	return i
}

// splitList splits a comma-separated value, trimming blanks
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

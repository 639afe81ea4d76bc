package config_test

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/Higherpines/SkoreBot/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	os.Clearenv()

	cfg := config.Load()

	if cfg.School != "South Carolina" {
		t.Errorf("Expected default school 'South Carolina', got '%s'", cfg.School)
	}

	if len(cfg.Scheduler.Sports) != 2 {
		t.Fatalf("Expected 2 default sports, got %d", len(cfg.Scheduler.Sports))
	}
	if cfg.Scheduler.Sports[0] != "football_college" {
		t.Errorf("Expected first default sport 'football_college', got '%s'", cfg.Scheduler.Sports[0])
	}

	if cfg.Scheduler.PollInterval != 60*time.Second {
		t.Errorf("Expected default poll interval 60s, got %s", cfg.Scheduler.PollInterval)
	}
	if cfg.Scheduler.PreGameLead != 30*time.Minute {
		t.Errorf("Expected default pre-game lead 30m, got %s", cfg.Scheduler.PreGameLead)
	}
	if cfg.Scheduler.FinalRetention != 6*time.Hour {
		t.Errorf("Expected default final retention 6h, got %s", cfg.Scheduler.FinalRetention)
	}
	if cfg.Scheduler.MissingGameGraceCycles != 10 {
		t.Errorf("Expected default grace cycles 10, got %d", cfg.Scheduler.MissingGameGraceCycles)
	}

	if cfg.Server.Addr != ":8080" {
		t.Errorf("Expected default server addr ':8080', got '%s'", cfg.Server.Addr)
	}
	if cfg.Redis.URL != "" {
		t.Errorf("Expected empty default redis URL, got '%s'", cfg.Redis.URL)
	}
}

func TestLoadCustomValues(t *testing.T) {
	os.Setenv("SCHOOL_NAME", "Michigan")
	os.Setenv("SPORTS", "basketball_college")
	os.Setenv("POLL_INTERVAL_SECONDS", "30")
	os.Setenv("PRE_GAME_MINUTES", "45")
	os.Setenv("DISCORD_WEBHOOK_URL", "https://discord.com/api/webhooks/x/y")
	os.Setenv("REDIS_URL", "redis://localhost:6379")
	defer os.Clearenv()

	cfg := config.Load()

	if cfg.School != "Michigan" {
		t.Errorf("Expected school 'Michigan', got '%s'", cfg.School)
	}
	if len(cfg.Scheduler.Sports) != 1 || cfg.Scheduler.Sports[0] != "basketball_college" {
		t.Errorf("Expected sports [basketball_college], got %v", cfg.Scheduler.Sports)
	}
	if cfg.Scheduler.PollInterval != 30*time.Second {
		t.Errorf("Expected poll interval 30s, got %s", cfg.Scheduler.PollInterval)
	}
	if cfg.Scheduler.PreGameLead != 45*time.Minute {
		t.Errorf("Expected pre-game lead 45m, got %s", cfg.Scheduler.PreGameLead)
	}
	if cfg.Redis.URL != "redis://localhost:6379" {
		t.Errorf("Expected redis URL set, got '%s'", cfg.Redis.URL)
	}
}

func TestSportsListTrimsBlanks(t *testing.T) {
	os.Setenv("SPORTS", " football_college , ,basketball_college,")
	defer os.Clearenv()

	cfg := config.Load()
	if len(cfg.Scheduler.Sports) != 2 {
		t.Fatalf("Expected 2 sports, got %v", cfg.Scheduler.Sports)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *config.Config {
		os.Clearenv()
		os.Setenv("DISCORD_WEBHOOK_URL", "https://discord.com/api/webhooks/x/y")
		return config.Load()
	}
	defer os.Clearenv()

	if err := valid().Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantSub string
	}{
		{"missing webhook", func(c *config.Config) { c.Notifier.DiscordWebhookURL = "" }, "DISCORD_WEBHOOK_URL"},
		{"empty school", func(c *config.Config) { c.School = "" }, "SCHOOL_NAME"},
		{"no sports", func(c *config.Config) { c.Scheduler.Sports = nil }, "SPORTS"},
		{"zero interval", func(c *config.Config) { c.Scheduler.PollInterval = 0 }, "POLL_INTERVAL_SECONDS"},
		{"zero lead", func(c *config.Config) { c.Scheduler.PreGameLead = 0 }, "PRE_GAME_MINUTES"},
		{"zero retention", func(c *config.Config) { c.Scheduler.FinalRetention = 0 }, "FINAL_RETENTION_SECONDS"},
		{"zero grace", func(c *config.Config) { c.Scheduler.MissingGameGraceCycles = 0 }, "MISSING_GAME_GRACE_CYCLES"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("error %q does not mention %s", err, tt.wantSub)
			}
		})
	}
}

func TestMalformedIntFailsValidation(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"POLL_INTERVAL_SECONDS", "abc"},
		{"PRE_GAME_MINUTES", "30m"},
		{"ALERTS_PER_MINUTE", "twenty"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			os.Clearenv()
			os.Setenv("DISCORD_WEBHOOK_URL", "https://discord.com/api/webhooks/x/y")
			os.Setenv(tt.key, tt.value)
			defer os.Clearenv()

			err := config.Load().Validate()
			if err == nil {
				t.Fatal("expected validation error for malformed value, got nil")
			}
			if !strings.Contains(err.Error(), tt.key) {
				t.Errorf("error %q does not mention %s", err, tt.key)
			}
		})
	}
}

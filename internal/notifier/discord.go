package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/Higherpines/SkoreBot/pkg/models"
)

// Embed colors per notification class
const (
	colorPreGame = 0x2ecc71
	colorScoring = 0x91268f
	colorFinal   = 0x1a8cff
	colorAlert   = 0xe74c3c
)

// DiscordNotifier delivers notification intents to a Discord channel via
// webhook. It owns rendering; the scheduler owns what and once.
type DiscordNotifier struct {
	webhookURL string
	httpClient *http.Client
	sportNames map[string]string
}

// embed mirrors the subset of Discord's embed object we use
type embed struct {
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Color       int          `json:"color"`
	Fields      []embedField `json:"fields,omitempty"`
	Timestamp   string       `json:"timestamp"`
}

type embedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type webhookPayload struct {
	Embeds []embed `json:"embeds"`
}

// NewDiscordNotifier creates a webhook notifier. sportNames maps sport keys
// to display names used in embed titles.
func NewDiscordNotifier(webhookURL string, sportNames map[string]string) *DiscordNotifier {
	return &DiscordNotifier{
		webhookURL: webhookURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		sportNames: sportNames,
	}
}

// Notify renders and sends one intent
func (n *DiscordNotifier) Notify(ctx context.Context, intent models.NotificationIntent) error {
	payload := webhookPayload{
		Embeds: []embed{n.buildEmbed(intent)},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", n.webhookURL, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("creating webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("discord webhook returned status %d", resp.StatusCode)
	}

	return nil
}

// buildEmbed renders an intent into a Discord embed
func (n *DiscordNotifier) buildEmbed(intent models.NotificationIntent) embed {
	sportName := n.sportName(intent.SportKey)
	game := intent.Game

	switch intent.Class {
	case models.IntentPreGame:
		return embed{
			Title:       fmt.Sprintf("Upcoming: %s", sportName),
			Description: fmt.Sprintf("%s at %s %s.", game.AwayTeam, game.HomeTeam, intent.Detail),
			Color:       colorPreGame,
			Fields: []embedField{
				{Name: "Starts", Value: game.ScheduledStart.Format("2006-01-02 15:04 MST"), Inline: false},
			},
			Timestamp: intent.CreatedAt.UTC().Format(time.RFC3339),
		}

	case models.IntentScoring:
		e := embed{
			Title:     fmt.Sprintf("%s — Scoring Play", sportName),
			Color:     colorScoring,
			Timestamp: intent.CreatedAt.UTC().Format(time.RFC3339),
		}
		if intent.Event != nil {
			e.Fields = []embedField{
				{Name: "Play", Value: intent.Event.Text, Inline: false},
				{Name: "Team", Value: intent.Event.Team, Inline: true},
				{Name: "Score", Value: fmt.Sprintf("%d - %d", intent.Event.AwayScore, intent.Event.HomeScore), Inline: true},
			}
		}
		return e

	case models.IntentFinal:
		return embed{
			Title: fmt.Sprintf("%s — Final Score", sportName),
			Color: colorFinal,
			Fields: []embedField{
				{Name: game.AwayTeam, Value: fmt.Sprintf("%d", game.AwayScore), Inline: true},
				{Name: game.HomeTeam, Value: fmt.Sprintf("%d", game.HomeScore), Inline: true},
			},
			Timestamp: intent.CreatedAt.UTC().Format(time.RFC3339),
		}

	case models.IntentFeedDown:
		return embed{
			Title:       fmt.Sprintf("%s feed degraded", sportName),
			Description: intent.Detail,
			Color:       colorAlert,
			Timestamp:   intent.CreatedAt.UTC().Format(time.RFC3339),
		}

	default:
		return embed{
			Title:       fmt.Sprintf("%s — %s", sportName, intent.Class),
			Description: intent.Detail,
			Color:       colorAlert,
			Timestamp:   intent.CreatedAt.UTC().Format(time.RFC3339),
		}
	}
}

// SendStartupNotification announces that monitoring is active
func (n *DiscordNotifier) SendStartupNotification(ctx context.Context, school string, sports []string) error {
	payload := webhookPayload{
		Embeds: []embed{{
			Title:       "SkoreBot monitoring active",
			Description: fmt.Sprintf("Watching %s across %d sports.", school, len(sports)),
			Color:       colorPreGame,
			Timestamp:   time.Now().UTC().Format(time.RFC3339),
		}},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", n.webhookURL, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("creating webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("discord webhook returned status %d", resp.StatusCode)
	}

	return nil
}

func (n *DiscordNotifier) sportName(sportKey string) string {
	if name, ok := n.sportNames[sportKey]; ok {
		return name
	}
	return sportKey
}

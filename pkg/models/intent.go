package models

import "time"

// IntentClass tags a NotificationIntent variant
type IntentClass string

const (
	IntentPreGame  IntentClass = "pre_game"
	IntentScoring  IntentClass = "scoring"
	IntentFinal    IntentClass = "final"
	IntentFeedDown IntentClass = "feed_down" // operator alert, not a game notification
)

// NotificationIntent is a decided-but-not-yet-delivered notification.
// The scheduler guarantees correct tag, game, ordering, and at-most-once
// per (game, class) for pre-game/final and per (game, event) for scoring;
// the notifier owns rendering and channel routing.
type NotificationIntent struct {
	ID        string        `json:"id"`
	Class     IntentClass   `json:"class"`
	SportKey  string        `json:"sport_key"`
	Game      Game          `json:"game"`
	Event     *ScoringEvent `json:"event,omitempty"` // set for IntentScoring only
	Detail    string        `json:"detail,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
}

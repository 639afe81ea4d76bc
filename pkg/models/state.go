package models

import "time"

// NotificationFlags is the per-game idempotency ledger.
// Both flags are monotonic: once true they are never reset for the same
// game, except pre_game_notified on a legitimate postponement.
type NotificationFlags struct {
	PreGameNotified bool `json:"pre_game_notified"`
	FinalNotified   bool `json:"final_notified"`
}

// GameState is a Game plus its notification ledger, owned by the state store
type GameState struct {
	Game  Game              `json:"game"`
	Flags NotificationFlags `json:"flags"`

	// LastSeenEventID identifies the newest scoring event already notified
	LastSeenEventID string `json:"last_seen_event_id"`
	// SeenEventCount counts scoring events notified so far, used when the
	// feed's sliding window has dropped LastSeenEventID
	SeenEventCount int `json:"seen_event_count"`

	// FinalAt records when the game was first observed final, for eviction
	FinalAt time.Time `json:"final_at,omitempty"`
	// MissingCycles counts consecutive polls where the feed omitted this game
	MissingCycles int `json:"missing_cycles"`
}

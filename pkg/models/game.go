package models

import "time"

// GameStatus represents the lifecycle state of a game
type GameStatus string

const (
	StatusScheduled GameStatus = "scheduled"
	StatusLive      GameStatus = "live"
	StatusFinal     GameStatus = "final"
)

// Game is the universal model for any tracked contest
type Game struct {
	GameID         string     `json:"game_id"`
	SportKey       string     `json:"sport_key"` // "football_college"
	Status         GameStatus `json:"status"`
	HomeTeam       string     `json:"home_team"`
	HomeTeamAbbr   string     `json:"home_team_abbr"`
	AwayTeam       string     `json:"away_team"`
	AwayTeamAbbr   string     `json:"away_team_abbr"`
	HomeScore      int        `json:"home_score"`
	AwayScore      int        `json:"away_score"`
	ScheduledStart time.Time  `json:"scheduled_start"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// ScoringEvent is one scoring play as reported by the feed.
// Ordinal is the event's position in the feed's (possibly sliding) window;
// EventID is the feed's stable identifier for the play.
type ScoringEvent struct {
	EventID   string `json:"event_id"`
	Ordinal   int    `json:"ordinal"`
	Text      string `json:"text"`
	Team      string `json:"team"`
	HomeScore int    `json:"home_score"`
	AwayScore int    `json:"away_score"`
}

// GameSnapshot is the feed's reported state of a game at one poll instant
type GameSnapshot struct {
	Game          Game           `json:"game"`
	ScoringEvents []ScoringEvent `json:"scoring_events"`
}

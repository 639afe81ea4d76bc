package contracts

import "github.com/Higherpines/SkoreBot/pkg/models"

// SportAdapter is the pluggable interface for adding new sports.
// Adapters own all ESPN JSON quirks and hand the scheduler one normalized
// GameSnapshot shape; the diff engine and poll loop are sport-agnostic.
type SportAdapter interface {
	// Identification
	SportKey() string      // "football_college", "basketball_college"
	DisplayName() string   // "College Football"
	ESPNSportPath() string // "football/college-football"

	IsEnabled() bool

	// ParseScoreboard converts a raw ESPN scoreboard payload into snapshots
	// for the tracked school only. Scoring events on the returned snapshots
	// are empty; ParseScoringPlays fills them from the summary payload.
	ParseScoreboard(rawData map[string]interface{}) ([]models.GameSnapshot, error)

	// ParseScoringPlays extracts ordered scoring events from a raw ESPN
	// game summary payload
	ParseScoringPlays(rawData map[string]interface{}) ([]models.ScoringEvent, error)
}

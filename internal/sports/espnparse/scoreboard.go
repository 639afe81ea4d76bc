package espnparse

import (
	"fmt"
	"time"

	"github.com/Higherpines/SkoreBot/pkg/models"
)

// ParseScoreboard converts a raw ESPN scoreboard payload into normalized
// snapshots for the tracked school. Events without the school, or without a
// parseable competition, are skipped rather than treated as errors.
func ParseScoreboard(rawData map[string]interface{}, sportKey, school string) ([]models.GameSnapshot, error) {
	events := ExtractArray(rawData, "events")

	var snapshots []models.GameSnapshot
	for _, eventInterface := range events {
		event, ok := eventInterface.(map[string]interface{})
		if !ok {
			continue
		}

		snap, ok := parseEvent(event, sportKey, school)
		if !ok {
			continue
		}
		snapshots = append(snapshots, snap)
	}

	return snapshots, nil
}

// parseEvent parses one scoreboard event; ok is false when the event does
// not involve the tracked school or lacks the fields we need
func parseEvent(event map[string]interface{}, sportKey, school string) (models.GameSnapshot, bool) {
	game := models.Game{
		GameID:    ExtractString(event, "id"),
		SportKey:  sportKey,
		UpdatedAt: time.Now().UTC(),
	}
	if game.GameID == "" {
		return models.GameSnapshot{}, false
	}

	game.ScheduledStart = ParseStartTime(ExtractString(event, "date"))

	competitions := ExtractArray(event, "competitions")
	if len(competitions) == 0 {
		return models.GameSnapshot{}, false
	}
	comp, ok := competitions[0].(map[string]interface{})
	if !ok {
		return models.GameSnapshot{}, false
	}

	status := ExtractMap(comp, "status")
	game.Status = ParseStatus(ExtractMap(status, "type"))

	tracked := false
	for _, compInterface := range ExtractArray(comp, "competitors") {
		competitor, ok := compInterface.(map[string]interface{})
		if !ok {
			continue
		}

		team := ExtractMap(competitor, "team")
		teamName := ExtractString(team, "displayName")
		teamAbbr := ExtractString(team, "abbreviation")
		score := ExtractInt(competitor, "score")

		if MatchesTeam(teamName, school) {
			tracked = true
		}

		switch ExtractString(competitor, "homeAway") {
		case "home":
			game.HomeTeam = teamName
			game.HomeTeamAbbr = teamAbbr
			game.HomeScore = score
		case "away":
			game.AwayTeam = teamName
			game.AwayTeamAbbr = teamAbbr
			game.AwayScore = score
		}
	}

	if !tracked || game.HomeTeam == "" || game.AwayTeam == "" {
		return models.GameSnapshot{}, false
	}

	return models.GameSnapshot{Game: game}, true
}

// ParseScoringPlays extracts ordered scoring events from an ESPN game
// summary payload. The ordinal is the play's position in the feed window,
// not a global sequence number.
func ParseScoringPlays(rawData map[string]interface{}) ([]models.ScoringEvent, error) {
	plays := ExtractArray(rawData, "scoringPlays")

	events := make([]models.ScoringEvent, 0, len(plays))
	for i, playInterface := range plays {
		play, ok := playInterface.(map[string]interface{})
		if !ok {
			continue
		}

		ev := models.ScoringEvent{
			EventID:   ExtractString(play, "id"),
			Ordinal:   i,
			Text:      ExtractString(play, "text"),
			Team:      ExtractString(ExtractMap(play, "team"), "displayName"),
			HomeScore: ExtractInt(play, "homeScore"),
			AwayScore: ExtractInt(play, "awayScore"),
		}
		if ev.EventID == "" {
			// Some feeds omit play ids; fall back to a positional id so the
			// seen-event ledger still has something stable within the window
			ev.EventID = fmt.Sprintf("ordinal-%d", i)
		}
		events = append(events, ev)
	}

	return events, nil
}

// Package diff decides what to notify for one game given its previous
// state and a fresh feed snapshot. Compute is a pure state transition: it
// never touches the store, and the same inputs always produce the same
// intents, which is what makes the at-most-once guarantees testable.
package diff

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/Higherpines/SkoreBot/pkg/models"
)

// Config carries the notification-window settings the engine needs
type Config struct {
	PreGameLead  time.Duration
	PollInterval time.Duration
}

// Compute compares a snapshot against the previous state and returns the
// updated state plus the intents to dispatch, in dispatch order: pre-game,
// scoring events oldest first, then final. prev is nil the first time a
// game id appears in the feed.
func Compute(prev *models.GameState, snap models.GameSnapshot, now time.Time, cfg Config) (models.GameState, []models.NotificationIntent) {
	var st models.GameState
	firstSight := prev == nil
	if firstSight {
		st = models.GameState{Game: snap.Game}
	} else {
		st = *prev
		checkAnomalies(prev, snap)
		if postponed(prev, snap) {
			log.Printf("[%s] game %s postponed: %s -> %s, re-arming pre-game reminder",
				snap.Game.SportKey, snap.Game.GameID,
				prev.Game.ScheduledStart.Format(time.RFC3339),
				snap.Game.ScheduledStart.Format(time.RFC3339))
			st.Flags.PreGameNotified = false
		}
	}

	prevStatus := st.Game.Status
	// The store reflects ground truth even when no rule below matches
	st.Game = snap.Game

	var intents []models.NotificationIntent

	if intent, ok := preGameIntent(&st, now, cfg); ok {
		intents = append(intents, intent)
	}

	discoveredFinal := firstSight && snap.Game.Status == models.StatusFinal
	if discoveredFinal {
		// A game first seen already final (restart after the game ended)
		// gets its final summary but no stale scoring backfill
		markEventsSeen(&st, snap.ScoringEvents)
	} else {
		intents = append(intents, scoringIntents(&st, snap.ScoringEvents, now)...)
	}

	if intent, ok := finalIntent(&st, prevStatus, firstSight, now); ok {
		intents = append(intents, intent)
	}

	return st, intents
}

// preGameIntent applies the pre-game reminder rule. A window missed by more
// than the lead time plus one poll interval is logged and written off rather
// than backfilled, so a restart after a long outage cannot flood the channel
// with stale reminders.
func preGameIntent(st *models.GameState, now time.Time, cfg Config) (models.NotificationIntent, bool) {
	if st.Game.Status != models.StatusScheduled || st.Flags.PreGameNotified {
		return models.NotificationIntent{}, false
	}

	windowOpen := st.Game.ScheduledStart.Add(-cfg.PreGameLead)
	windowClose := st.Game.ScheduledStart.Add(cfg.PreGameLead + cfg.PollInterval)

	if now.Before(windowOpen) {
		return models.NotificationIntent{}, false
	}

	if now.After(windowClose) {
		log.Printf("[%s] game %s pre-game window missed (start %s), not backfilling",
			st.Game.SportKey, st.Game.GameID, st.Game.ScheduledStart.Format(time.RFC3339))
		st.Flags.PreGameNotified = true
		return models.NotificationIntent{}, false
	}

	st.Flags.PreGameNotified = true

	minutes := int(st.Game.ScheduledStart.Sub(now).Minutes())
	detail := fmt.Sprintf("starts in %d minutes", minutes)
	if minutes <= 0 {
		detail = "starting now"
	}

	return newIntent(models.IntentPreGame, st.Game, nil, detail, now), true
}

// scoringIntents emits one intent per scoring event strictly newer than the
// last event already notified, oldest first, then advances the seen ledger.
func scoringIntents(st *models.GameState, events []models.ScoringEvent, now time.Time) []models.NotificationIntent {
	fresh := newEvents(st, events)
	if len(fresh) == 0 {
		return nil
	}

	intents := make([]models.NotificationIntent, 0, len(fresh))
	for i := range fresh {
		ev := fresh[i]
		detail := fmt.Sprintf("%s %d - %s %d", st.Game.AwayTeamAbbr, ev.AwayScore, st.Game.HomeTeamAbbr, ev.HomeScore)
		intents = append(intents, newIntent(models.IntentScoring, st.Game, &ev, detail, now))
	}

	markEventsSeen(st, events)
	return intents
}

// newEvents selects the snapshot events not yet notified. The feed's event
// list can be a sliding window, so a vanished last-seen id is not an error:
// when the id is gone the seen count stands in for position, mirroring how
// the feed appends plays in order.
func newEvents(st *models.GameState, events []models.ScoringEvent) []models.ScoringEvent {
	if len(events) == 0 {
		return nil
	}

	if st.LastSeenEventID != "" {
		for i := range events {
			if events[i].EventID == st.LastSeenEventID {
				return events[i+1:]
			}
		}
	}

	if st.SeenEventCount >= len(events) {
		return nil
	}
	return events[st.SeenEventCount:]
}

// markEventsSeen advances the seen-event ledger to the newest event
func markEventsSeen(st *models.GameState, events []models.ScoringEvent) {
	if len(events) == 0 {
		return
	}
	st.LastSeenEventID = events[len(events)-1].EventID
	if len(events) > st.SeenEventCount {
		st.SeenEventCount = len(events)
	}
}

// finalIntent applies the final summary rule: fire on an observed
// transition into final, or immediately for a game discovered already final
func finalIntent(st *models.GameState, prevStatus models.GameStatus, firstSight bool, now time.Time) (models.NotificationIntent, bool) {
	if st.Game.Status != models.StatusFinal || st.Flags.FinalNotified {
		return models.NotificationIntent{}, false
	}

	transitioned := prevStatus != models.StatusFinal
	if !transitioned && !firstSight {
		return models.NotificationIntent{}, false
	}

	st.Flags.FinalNotified = true
	if st.FinalAt.IsZero() {
		st.FinalAt = now
	}

	detail := fmt.Sprintf("final: %s %d - %s %d", st.Game.AwayTeamAbbr, st.Game.AwayScore, st.Game.HomeTeamAbbr, st.Game.HomeScore)
	return newIntent(models.IntentFinal, st.Game, nil, detail, now), true
}

// checkAnomalies logs score or status regressions. Anomalous data is
// overwritten silently and never re-fires a cleared flag or crashes a cycle.
func checkAnomalies(prev *models.GameState, snap models.GameSnapshot) {
	if snap.Game.HomeScore < prev.Game.HomeScore || snap.Game.AwayScore < prev.Game.AwayScore {
		log.Printf("[%s] anomaly: score regression for game %s (%d-%d -> %d-%d), overwriting",
			snap.Game.SportKey, snap.Game.GameID,
			prev.Game.AwayScore, prev.Game.HomeScore,
			snap.Game.AwayScore, snap.Game.HomeScore)
	}

	if prev.Game.Status == models.StatusFinal && snap.Game.Status != models.StatusFinal {
		log.Printf("[%s] anomaly: status regression for game %s (%s -> %s), overwriting",
			snap.Game.SportKey, snap.Game.GameID, prev.Game.Status, snap.Game.Status)
	}
}

// postponed reports a legitimate start-time change on a not-yet-started game
func postponed(prev *models.GameState, snap models.GameSnapshot) bool {
	if prev.Game.Status != models.StatusScheduled || snap.Game.Status != models.StatusScheduled {
		return false
	}
	if prev.Game.ScheduledStart.IsZero() || snap.Game.ScheduledStart.IsZero() {
		return false
	}
	return !prev.Game.ScheduledStart.Equal(snap.Game.ScheduledStart)
}

func newIntent(class models.IntentClass, game models.Game, event *models.ScoringEvent, detail string, now time.Time) models.NotificationIntent {
	return models.NotificationIntent{
		ID:        uuid.New().String(),
		Class:     class,
		SportKey:  game.SportKey,
		Game:      game,
		Event:     event,
		Detail:    detail,
		CreatedAt: now,
	}
}

package state_test

import (
	"testing"
	"time"

	"github.com/Higherpines/SkoreBot/internal/state"
	"github.com/Higherpines/SkoreBot/pkg/models"
)

func gameState(id, sport string, status models.GameStatus, start time.Time) models.GameState {
	return models.GameState{
		Game: models.Game{
			GameID:         id,
			SportKey:       sport,
			Status:         status,
			ScheduledStart: start,
		},
	}
}

func TestUpsertAndGet(t *testing.T) {
	store := state.NewStore()

	st := gameState("g1", "football_college", models.StatusScheduled, time.Now())
	store.Upsert(st)

	got, ok := store.Get("g1")
	if !ok {
		t.Fatal("game not found after upsert")
	}
	if got.Game.GameID != "g1" {
		t.Errorf("got game id %s, want g1", got.Game.GameID)
	}

	if _, ok := store.Get("missing"); ok {
		t.Error("unknown game id reported present")
	}
}

func TestFlagsNeverRegress(t *testing.T) {
	store := state.NewStore()
	start := time.Date(2025, 11, 15, 19, 0, 0, 0, time.UTC)

	st := gameState("g1", "football_college", models.StatusScheduled, start)
	st.Flags.PreGameNotified = true
	st.Flags.FinalNotified = true
	store.Upsert(st)

	// A later upsert with cleared flags and the same start must not win
	cleared := gameState("g1", "football_college", models.StatusFinal, start)
	store.Upsert(cleared)

	got, _ := store.Get("g1")
	if !got.Flags.PreGameNotified {
		t.Error("pre_game_notified regressed true -> false")
	}
	if !got.Flags.FinalNotified {
		t.Error("final_notified regressed true -> false")
	}
}

func TestPostponementMayRearmPreGameFlag(t *testing.T) {
	store := state.NewStore()
	start := time.Date(2025, 11, 15, 19, 0, 0, 0, time.UTC)

	st := gameState("g1", "football_college", models.StatusScheduled, start)
	st.Flags.PreGameNotified = true
	store.Upsert(st)

	moved := gameState("g1", "football_college", models.StatusScheduled, start.Add(24*time.Hour))
	store.Upsert(moved)

	got, _ := store.Get("g1")
	if got.Flags.PreGameNotified {
		t.Error("postponement re-arm rejected by store")
	}
}

func TestAccountMissingRetiresAfterGrace(t *testing.T) {
	store := state.NewStore()
	store.Upsert(gameState("g1", "football_college", models.StatusScheduled, time.Now()))
	store.Upsert(gameState("g2", "football_college", models.StatusFinal, time.Now()))
	store.Upsert(gameState("g3", "basketball_college", models.StatusScheduled, time.Now()))

	grace := 2
	empty := map[string]struct{}{}

	// Grace cycles: present games stay
	for i := 0; i < grace; i++ {
		if retired := store.AccountMissing("football_college", empty, grace); len(retired) != 0 {
			t.Fatalf("cycle %d: retired %v before grace expired", i+1, retired)
		}
	}

	retired := store.AccountMissing("football_college", empty, grace)
	if len(retired) != 1 || retired[0] != "g1" {
		t.Fatalf("got retired %v, want [g1]", retired)
	}

	// Final games and other sports are untouched
	if _, ok := store.Get("g2"); !ok {
		t.Error("final game retired by missing accounting")
	}
	if _, ok := store.Get("g3"); !ok {
		t.Error("other sport's game retired")
	}
}

func TestAccountMissingResetsWhenSeen(t *testing.T) {
	store := state.NewStore()
	st := gameState("g1", "football_college", models.StatusScheduled, time.Now())
	store.Upsert(st)

	empty := map[string]struct{}{}
	store.AccountMissing("football_college", empty, 3)
	store.AccountMissing("football_college", empty, 3)

	// Game reappears: upsert resets the missing counter
	store.Upsert(st)

	got, _ := store.Get("g1")
	if got.MissingCycles != 0 {
		t.Errorf("missing cycles = %d after reappearing, want 0", got.MissingCycles)
	}
}

func TestEvictFinalBefore(t *testing.T) {
	store := state.NewStore()
	now := time.Now()

	old := gameState("old", "football_college", models.StatusFinal, now.Add(-8*time.Hour))
	old.FinalAt = now.Add(-7 * time.Hour)
	store.Upsert(old)

	fresh := gameState("fresh", "football_college", models.StatusFinal, now.Add(-2*time.Hour))
	fresh.FinalAt = now.Add(-30 * time.Minute)
	store.Upsert(fresh)

	live := gameState("live", "football_college", models.StatusLive, now)
	store.Upsert(live)

	evicted := store.EvictFinalBefore(now.Add(-6 * time.Hour))
	if len(evicted) != 1 || evicted[0] != "old" {
		t.Fatalf("got evicted %v, want [old]", evicted)
	}
	if _, ok := store.Get("fresh"); !ok {
		t.Error("recently final game evicted early")
	}
	if _, ok := store.Get("live"); !ok {
		t.Error("live game evicted")
	}
}

func TestUpcomingForSortsByStart(t *testing.T) {
	store := state.NewStore()
	base := time.Date(2025, 11, 15, 12, 0, 0, 0, time.UTC)

	store.Upsert(gameState("late", "football_college", models.StatusScheduled, base.Add(6*time.Hour)))
	store.Upsert(gameState("early", "football_college", models.StatusScheduled, base))
	store.Upsert(gameState("done", "football_college", models.StatusFinal, base.Add(-6*time.Hour)))
	store.Upsert(gameState("hoops", "basketball_college", models.StatusScheduled, base.Add(time.Hour)))

	upcoming := store.UpcomingFor("football_college")
	if len(upcoming) != 2 {
		t.Fatalf("got %d upcoming games, want 2", len(upcoming))
	}
	if upcoming[0].Game.GameID != "early" || upcoming[1].Game.GameID != "late" {
		t.Errorf("got order [%s %s], want [early late]", upcoming[0].Game.GameID, upcoming[1].Game.GameID)
	}
}

func TestRestorePreservesFlags(t *testing.T) {
	store := state.NewStore()

	persisted := gameState("g1", "football_college", models.StatusFinal, time.Now())
	persisted.Flags.PreGameNotified = true
	persisted.Flags.FinalNotified = true
	persisted.LastSeenEventID = "e9"
	persisted.SeenEventCount = 9

	store.Restore([]models.GameState{persisted})

	got, ok := store.Get("g1")
	if !ok {
		t.Fatal("restored game missing")
	}
	if !got.Flags.PreGameNotified || !got.Flags.FinalNotified {
		t.Error("flags not preserved across restore")
	}
	if got.LastSeenEventID != "e9" || got.SeenEventCount != 9 {
		t.Error("seen-event ledger not preserved across restore")
	}
}

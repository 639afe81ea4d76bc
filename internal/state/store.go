package state

import (
	"sort"
	"sync"
	"time"

	"github.com/Higherpines/SkoreBot/pkg/models"
)

// Store is the in-memory mapping from game id to GameState. The scheduler
// loop is the single writer; the query API only reads copies. All mutation
// of one game's state is serialized under the store mutex so the monotonic
// flag invariant holds even with sports polled concurrently.
type Store struct {
	mu    sync.RWMutex
	games map[string]models.GameState
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		games: make(map[string]models.GameState),
	}
}

// Restore seeds the store from persisted records at startup. Flags are
// taken exactly as persisted so a restart never duplicates notifications.
func (s *Store) Restore(states []models.GameState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, st := range states {
		s.games[st.Game.GameID] = st
	}
}

// Get returns a copy of the state for a game id
func (s *Store) Get(gameID string) (models.GameState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.games[gameID]
	return st, ok
}

// Upsert commits a diff-engine result. Notification flags never transition
// true to false here, with one exception: pre_game_notified may reset when
// the scheduled start moved (a postponement), which the diff engine signals
// by changing the start time in the committed state.
func (s *Store) Upsert(st models.GameState) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.games[st.Game.GameID]; ok {
		sameStart := prev.Game.ScheduledStart.Equal(st.Game.ScheduledStart)
		if prev.Flags.PreGameNotified && !st.Flags.PreGameNotified && sameStart {
			st.Flags.PreGameNotified = true
		}
		if prev.Flags.FinalNotified {
			st.Flags.FinalNotified = true
		}
	}

	st.MissingCycles = 0
	s.games[st.Game.GameID] = st
}

// AccountMissing increments the missing counter for every non-final game of
// the sport that the feed omitted this cycle, and retires games absent for
// more than graceCycles consecutive cycles. Retired game ids are returned;
// retirement never triggers a notification (the game never reached final).
func (s *Store) AccountMissing(sportKey string, seen map[string]struct{}, graceCycles int) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var retired []string
	for id, st := range s.games {
		if st.Game.SportKey != sportKey || st.Game.Status == models.StatusFinal {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}

		st.MissingCycles++
		if st.MissingCycles > graceCycles {
			delete(s.games, id)
			retired = append(retired, id)
			continue
		}
		s.games[id] = st
	}

	return retired
}

// EvictFinalBefore removes final games whose final was observed before the
// cutoff, bounding memory. Eviction does not re-trigger notifications.
func (s *Store) EvictFinalBefore(cutoff time.Time) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var evicted []string
	for id, st := range s.games {
		if st.Game.Status != models.StatusFinal || st.FinalAt.IsZero() {
			continue
		}
		if st.FinalAt.Before(cutoff) {
			delete(s.games, id)
			evicted = append(evicted, id)
		}
	}

	return evicted
}

// UpcomingFor returns scheduled games for a sport sorted by start time
func (s *Store) UpcomingFor(sportKey string) []models.GameState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var upcoming []models.GameState
	for _, st := range s.games {
		if st.Game.SportKey == sportKey && st.Game.Status == models.StatusScheduled {
			upcoming = append(upcoming, st)
		}
	}

	sort.Slice(upcoming, func(i, j int) bool {
		return upcoming[i].Game.ScheduledStart.Before(upcoming[j].Game.ScheduledStart)
	})

	return upcoming
}

// AllFor returns every tracked game for a sport sorted by start time
func (s *Store) AllFor(sportKey string) []models.GameState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var all []models.GameState
	for _, st := range s.games {
		if st.Game.SportKey == sportKey {
			all = append(all, st)
		}
	}

	sort.Slice(all, func(i, j int) bool {
		return all[i].Game.ScheduledStart.Before(all[j].Game.ScheduledStart)
	})

	return all
}

// Len returns the number of tracked games
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.games)
}

package poller

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/Higherpines/SkoreBot/internal/diff"
	"github.com/Higherpines/SkoreBot/internal/state"
	"github.com/Higherpines/SkoreBot/pkg/contracts"
	"github.com/Higherpines/SkoreBot/pkg/models"
)

// Feed is the scoreboard/summary source consumed by the poll loop
type Feed interface {
	FetchScoreboard(ctx context.Context, sportPath string) (map[string]interface{}, error)
	FetchSummary(ctx context.Context, sportPath string, gameID string) (map[string]interface{}, error)
}

// Notifier consumes dispatched intents
type Notifier interface {
	Notify(ctx context.Context, intent models.NotificationIntent) error
}

// IntentPublisher mirrors dispatched intents to a stream; may be nil
type IntentPublisher interface {
	PublishIntent(ctx context.Context, intent models.NotificationIntent) error
}

// Limiter caps outbound sends; may be nil
type Limiter interface {
	Allow(ctx context.Context) (bool, error)
}

// StateWriter persists game state across restarts; may be nil
type StateWriter interface {
	Save(ctx context.Context, st models.GameState) error
	Delete(ctx context.Context, gameID string) error
}

// Config carries the scheduler settings one poller needs
type Config struct {
	PollInterval           time.Duration
	PreGameLead            time.Duration
	FinalRetention         time.Duration
	MissingGameGraceCycles int
	FeedFailureAlertCycles int
	FetchTimeout           time.Duration
}

// SportPoller drives the poll -> diff -> commit -> notify cycle for one
// sport. Sports touch disjoint game ids, so pollers run concurrently while
// the store serializes per-game mutation.
type SportPoller struct {
	adapter   contracts.SportAdapter
	feed      Feed
	store     *state.Store
	persist   StateWriter
	notifier  Notifier
	publisher IntentPublisher
	limiter   Limiter
	cfg       Config

	consecutiveFailures int
	feedDownAlerted     bool
}

// NewSportPoller creates a poller for one sport. persist, publisher, and
// limiter are optional.
func NewSportPoller(
	adapter contracts.SportAdapter,
	feed Feed,
	store *state.Store,
	persist StateWriter,
	notifier Notifier,
	publisher IntentPublisher,
	limiter Limiter,
	cfg Config,
) *SportPoller {
	return &SportPoller{
		adapter:   adapter,
		feed:      feed,
		store:     store,
		persist:   persist,
		notifier:  notifier,
		publisher: publisher,
		limiter:   limiter,
		cfg:       cfg,
	}
}

// Run starts the polling loop for this sport. Failed cycles back off
// exponentially (capped) and recover to the configured interval on the
// first success.
func (p *SportPoller) Run(ctx context.Context) {
	sportKey := p.adapter.SportKey()
	log.Printf("[%s] starting poller (interval %s)", sportKey, p.cfg.PollInterval)

	delay := p.cfg.PollInterval
	p.cycle(ctx, time.Now().UTC())

	for {
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			log.Printf("[%s] stopping poller", sportKey)
			return
		case <-timer.C:
		}

		if err := p.cycle(ctx, time.Now().UTC()); err != nil {
			delay = nextBackoff(delay, p.cfg.PollInterval)
		} else {
			delay = p.cfg.PollInterval
		}
	}
}

// nextBackoff grows the delay by 1.5x, capped at 8x the poll interval
func nextBackoff(current, base time.Duration) time.Duration {
	next := time.Duration(float64(current) * 1.5)
	if max := 8 * base; next > max {
		next = max
	}
	if next < base {
		next = base
	}
	return next
}

// cycle performs one poll cycle. A returned error means the whole cycle was
// skipped for this sport (feed failure); per-game problems are logged and
// never abort the remaining games.
func (p *SportPoller) cycle(ctx context.Context, now time.Time) error {
	sportKey := p.adapter.SportKey()

	fetchCtx, cancel := context.WithTimeout(ctx, p.cfg.FetchTimeout)
	defer cancel()

	scoreboard, err := p.feed.FetchScoreboard(fetchCtx, p.adapter.ESPNSportPath())
	if err != nil {
		return p.recordFailure(ctx, now, err)
	}

	snapshots, err := p.adapter.ParseScoreboard(scoreboard)
	if err != nil {
		return p.recordFailure(ctx, now, err)
	}

	p.recordSuccess()

	seen := make(map[string]struct{}, len(snapshots))
	for _, snap := range snapshots {
		seen[snap.Game.GameID] = struct{}{}
		p.processGame(ctx, snap, now)
	}

	retired := p.store.AccountMissing(sportKey, seen, p.cfg.MissingGameGraceCycles)
	for _, id := range retired {
		log.Printf("[%s] retiring game %s: absent from feed past grace period", sportKey, id)
		p.deletePersisted(ctx, id)
	}

	evicted := p.store.EvictFinalBefore(now.Add(-p.cfg.FinalRetention))
	for _, id := range evicted {
		p.deletePersisted(ctx, id)
	}

	return nil
}

// processGame runs one game through the diff engine and commits the result.
// The state update and intent dispatch happen as one sequential step so an
// intent is never dispatched without its state committed first.
func (p *SportPoller) processGame(ctx context.Context, snap models.GameSnapshot, now time.Time) {
	sportKey := p.adapter.SportKey()

	if snap.Game.Status != models.StatusScheduled {
		events, err := p.fetchScoringEvents(ctx, snap.Game.GameID)
		if err != nil {
			// No diff without the play list; this game retries next cycle
			log.Printf("[%s] error fetching summary for game %s: %v", sportKey, snap.Game.GameID, err)
			return
		}
		snap.ScoringEvents = events
	}

	var prev *models.GameState
	if st, ok := p.store.Get(snap.Game.GameID); ok {
		prev = &st
	}

	updated, intents := diff.Compute(prev, snap, now, diff.Config{
		PreGameLead:  p.cfg.PreGameLead,
		PollInterval: p.cfg.PollInterval,
	})

	p.store.Upsert(updated)
	if p.persist != nil {
		if err := p.persist.Save(ctx, updated); err != nil {
			log.Printf("[%s] error persisting game %s: %v", sportKey, updated.Game.GameID, err)
		}
	}

	for _, intent := range intents {
		p.dispatch(ctx, intent)
	}
}

// fetchScoringEvents pulls the game summary and extracts its scoring plays
func (p *SportPoller) fetchScoringEvents(ctx context.Context, gameID string) ([]models.ScoringEvent, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, p.cfg.FetchTimeout)
	defer cancel()

	summary, err := p.feed.FetchSummary(fetchCtx, p.adapter.ESPNSportPath(), gameID)
	if err != nil {
		return nil, err
	}

	return p.adapter.ParseScoringPlays(summary)
}

// dispatch forwards one intent to the notifier and the intent stream.
// Delivery failures are logged and never fatal; flags stay set either way
// (at-most-once, not exactly-once).
func (p *SportPoller) dispatch(ctx context.Context, intent models.NotificationIntent) {
	sportKey := p.adapter.SportKey()

	if p.limiter != nil {
		allowed, err := p.limiter.Allow(ctx)
		if err != nil {
			log.Printf("[%s] rate limiter error: %v", sportKey, err)
		} else if !allowed {
			log.Printf("[%s] rate limited, dropping %s intent for game %s", sportKey, intent.Class, intent.Game.GameID)
			return
		}
	}

	if err := p.notifier.Notify(ctx, intent); err != nil {
		log.Printf("[%s] error notifying %s intent for game %s: %v", sportKey, intent.Class, intent.Game.GameID, err)
	}

	if p.publisher != nil {
		if err := p.publisher.PublishIntent(ctx, intent); err != nil {
			log.Printf("[%s] error publishing %s intent for game %s: %v", sportKey, intent.Class, intent.Game.GameID, err)
		}
	}
}

// recordFailure logs a skipped cycle and escalates to a single operator
// alert once the consecutive-failure threshold is crossed. Silence in the
// channel is the default; one alert covers the whole outage.
func (p *SportPoller) recordFailure(ctx context.Context, now time.Time, err error) error {
	sportKey := p.adapter.SportKey()
	p.consecutiveFailures++
	log.Printf("[%s] skipping cycle (%d consecutive failures): %v", sportKey, p.consecutiveFailures, err)

	if p.consecutiveFailures >= p.cfg.FeedFailureAlertCycles && !p.feedDownAlerted {
		p.feedDownAlerted = true
		alert := models.NotificationIntent{
			ID:        uuid.New().String(),
			Class:     models.IntentFeedDown,
			SportKey:  sportKey,
			Detail:    fmt.Sprintf("feed has failed %d consecutive cycles; last error: %v", p.consecutiveFailures, err),
			CreatedAt: now,
		}
		if nerr := p.notifier.Notify(ctx, alert); nerr != nil {
			log.Printf("[%s] error sending feed-down alert: %v", sportKey, nerr)
		}
	}

	return err
}

// recordSuccess resets failure tracking after a good cycle
func (p *SportPoller) recordSuccess() {
	if p.consecutiveFailures > 0 {
		log.Printf("[%s] feed recovered after %d failed cycles", p.adapter.SportKey(), p.consecutiveFailures)
	}
	p.consecutiveFailures = 0
	p.feedDownAlerted = false
}

// deletePersisted removes a persisted record if persistence is enabled
func (p *SportPoller) deletePersisted(ctx context.Context, gameID string) {
	if p.persist == nil {
		return
	}
	if err := p.persist.Delete(ctx, gameID); err != nil {
		log.Printf("[%s] error deleting persisted state for game %s: %v", p.adapter.SportKey(), gameID, err)
	}
}

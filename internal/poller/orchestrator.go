package poller

import (
	"context"
	"log"
	"sync"

	"github.com/Higherpines/SkoreBot/internal/state"
	"github.com/Higherpines/SkoreBot/pkg/contracts"
)

// Orchestrator manages pollers for all configured sports
type Orchestrator struct {
	adapters  []contracts.SportAdapter
	feed      Feed
	store     *state.Store
	persist   StateWriter
	notifier  Notifier
	publisher IntentPublisher
	limiter   Limiter
	cfg       Config
	pollers   map[string]*SportPoller
}

// NewOrchestrator creates a new polling orchestrator
func NewOrchestrator(
	adapters []contracts.SportAdapter,
	feed Feed,
	store *state.Store,
	persist StateWriter,
	notifier Notifier,
	publisher IntentPublisher,
	limiter Limiter,
	cfg Config,
) *Orchestrator {
	return &Orchestrator{
		adapters:  adapters,
		feed:      feed,
		store:     store,
		persist:   persist,
		notifier:  notifier,
		publisher: publisher,
		limiter:   limiter,
		cfg:       cfg,
		pollers:   make(map[string]*SportPoller),
	}
}

// Start launches one poller goroutine per sport and blocks until all stop.
// Each sport schedules independently, so a hung fetch for one sport never
// stalls the others.
func (o *Orchestrator) Start(ctx context.Context) {
	var wg sync.WaitGroup

	log.Printf("starting pollers for %d sports", len(o.adapters))

	for _, adapter := range o.adapters {
		sportKey := adapter.SportKey()

		poller := NewSportPoller(adapter, o.feed, o.store, o.persist, o.notifier, o.publisher, o.limiter, o.cfg)
		o.pollers[sportKey] = poller

		wg.Add(1)
		go func(p *SportPoller) {
			defer wg.Done()
			p.Run(ctx)
		}(poller)

		log.Printf("started poller for %s", sportKey)
	}

	wg.Wait()
	log.Println("all pollers stopped")
}

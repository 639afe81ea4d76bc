package registry

import (
	"fmt"

	"github.com/Higherpines/SkoreBot/internal/sports/basketball_college"
	"github.com/Higherpines/SkoreBot/internal/sports/football_college"
	"github.com/Higherpines/SkoreBot/pkg/contracts"
)

// Registry manages available sport adapters
type Registry struct {
	adapters map[string]contracts.SportAdapter
}

// New creates a registry with all known sports for the given school
func New(school string) *Registry {
	r := &Registry{
		adapters: make(map[string]contracts.SportAdapter),
	}

	r.Register(football_college.New(school))
	r.Register(basketball_college.New(school))

	// Future sports (uncomment when ready):
	// r.Register(baseball_college.New(school))

	return r
}

// Register adds a sport adapter to the registry
func (r *Registry) Register(adapter contracts.SportAdapter) {
	r.adapters[adapter.SportKey()] = adapter
}

// Get retrieves a sport adapter by key
func (r *Registry) Get(sportKey string) (contracts.SportAdapter, error) {
	adapter, ok := r.adapters[sportKey]
	if !ok {
		return nil, fmt.Errorf("sport adapter not found: %s", sportKey)
	}
	return adapter, nil
}

// Enabled returns the adapters for the requested sport keys that exist and
// are enabled. Unknown keys are skipped; config validation reports them.
func (r *Registry) Enabled(sportKeys []string) []contracts.SportAdapter {
	var enabled []contracts.SportAdapter
	for _, key := range sportKeys {
		if adapter, ok := r.adapters[key]; ok && adapter.IsEnabled() {
			enabled = append(enabled, adapter)
		}
	}
	return enabled
}

// AllSportKeys returns all registered sport keys
func (r *Registry) AllSportKeys() []string {
	keys := make([]string, 0, len(r.adapters))
	for key := range r.adapters {
		keys = append(keys, key)
	}
	return keys
}

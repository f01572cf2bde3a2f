package plan

import (
	"context"
	"fmt"
	"maps"
	"sync"
)

// Source defines how plans are loaded into the catalog.
type Source interface {
	Load(ctx context.Context) (map[ID]Plan, error)
}

type inMemSource struct {
	mu    sync.RWMutex
	plans map[ID]Plan
}

// NewInMemSource returns an in-memory Source holding a copy of the given
// plans. Panics on an empty or duplicated plan set so a misconfigured
// service fails at startup instead of at the first lookup.
func NewInMemSource(plans ...Plan) Source {
	if len(plans) == 0 {
		panic("plan: at least one plan is required")
	}
	copied := make(map[ID]Plan, len(plans))
	for _, p := range plans {
		if _, ok := copied[p.ID]; ok {
			panic(fmt.Errorf("%w: %s", ErrDuplicatePlanDefinition, p.ID))
		}
		copied[p.ID] = p
	}
	return &inMemSource{plans: copied}
}

// Load returns a copy of the plans so callers cannot mutate the source.
func (s *inMemSource) Load(ctx context.Context) (map[ID]Plan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.plans), nil
}

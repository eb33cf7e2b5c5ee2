package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/dmoloney/lastmanstanding/internal/domain/pick"
)

// PickRepository needs round metadata for cycle-scoped and
// sequence-ordered queries, so it holds the round repository the way the
// relational implementation joins the rounds table.
type PickRepository struct {
	mu     sync.RWMutex
	items  map[string]pick.Pick
	rounds *RoundRepository
}

func NewPickRepository(picks []pick.Pick, rounds *RoundRepository) *PickRepository {
	items := make(map[string]pick.Pick, len(picks))
	for _, p := range picks {
		items[p.ID] = p
	}

	return &PickRepository{items: items, rounds: rounds}
}

func (r *PickRepository) GetByPlayerAndRound(_ context.Context, playerID, roundID string) (pick.Pick, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.items {
		if item.PlayerID == playerID && item.RoundID == roundID {
			return item, true, nil
		}
	}
	return pick.Pick{}, false, nil
}

func (r *PickRepository) ListByRound(_ context.Context, roundID string) ([]pick.Pick, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]pick.Pick, 0)
	for _, item := range r.items {
		if item.RoundID == roundID {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PlayerID < out[j].PlayerID })
	return out, nil
}

func (r *PickRepository) ListByPlayer(ctx context.Context, playerID string) ([]pick.Pick, error) {
	r.mu.RLock()
	picks := make([]pick.Pick, 0)
	for _, item := range r.items {
		if item.PlayerID == playerID {
			picks = append(picks, item)
		}
	}
	r.mu.RUnlock()

	sequences := make(map[string]int, len(picks))
	for _, p := range picks {
		if item, ok, err := r.rounds.GetByID(ctx, p.RoundID); err == nil && ok {
			sequences[p.RoundID] = item.SequenceNumber
		}
	}
	sort.Slice(picks, func(i, j int) bool {
		return sequences[picks[i].RoundID] > sequences[picks[j].RoundID]
	})
	return picks, nil
}

func (r *PickRepository) ListByPlayerAndCycle(ctx context.Context, playerID string, cycle int) ([]pick.Pick, error) {
	picks, err := r.ListByPlayer(ctx, playerID)
	if err != nil {
		return nil, err
	}

	out := make([]pick.Pick, 0, len(picks))
	for _, p := range picks {
		item, ok, err := r.rounds.GetByID(ctx, p.RoundID)
		if err != nil {
			return nil, err
		}
		if ok && item.CycleNumber == cycle {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *PickRepository) CountByPlayer(_ context.Context, playerID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, item := range r.items {
		if item.PlayerID == playerID {
			count++
		}
	}
	return count, nil
}

func (r *PickRepository) Create(_ context.Context, item pick.Pick) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[item.ID] = item
	return nil
}

func (r *PickRepository) Update(_ context.Context, item pick.Pick) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[item.ID] = item
	return nil
}

func (r *PickRepository) DeleteAll(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := len(r.items)
	r.items = make(map[string]pick.Pick)
	return count, nil
}

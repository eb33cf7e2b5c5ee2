package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/dmoloney/lastmanstanding/internal/domain/fixture"
)

type FixtureRepository struct {
	mu    sync.RWMutex
	items map[string]fixture.Fixture
}

func NewFixtureRepository(fixtures []fixture.Fixture) *FixtureRepository {
	items := make(map[string]fixture.Fixture, len(fixtures))
	for _, f := range fixtures {
		items[f.ID] = f
	}

	return &FixtureRepository{items: items}
}

func (r *FixtureRepository) ListByRound(_ context.Context, roundID string) ([]fixture.Fixture, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]fixture.Fixture, 0)
	for _, item := range r.items {
		if item.RoundID == roundID {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].KickoffAt.Equal(out[j].KickoffAt) {
			return out[i].KickoffAt.Before(out[j].KickoffAt)
		}
		return out[i].HomeTeam < out[j].HomeTeam
	})
	return out, nil
}

func (r *FixtureRepository) GetByRoundAndEvent(_ context.Context, roundID, eventID string) (fixture.Fixture, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.items {
		if item.RoundID == roundID && item.EventID == eventID {
			return item, true, nil
		}
	}
	return fixture.Fixture{}, false, nil
}

func (r *FixtureRepository) CreateBatch(_ context.Context, items []fixture.Fixture) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range items {
		r.items[item.ID] = item
	}
	return nil
}

func (r *FixtureRepository) UpdateResult(_ context.Context, id string, homeScore, awayScore int, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[id]
	if !ok {
		return nil
	}
	home, away := homeScore, awayScore
	item.HomeScore, item.AwayScore = &home, &away
	item.Status = status
	r.items[id] = item
	return nil
}

func (r *FixtureRepository) DeleteAll(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := len(r.items)
	r.items = make(map[string]fixture.Fixture)
	return count, nil
}

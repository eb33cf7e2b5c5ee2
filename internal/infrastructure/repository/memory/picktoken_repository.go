package memory

import (
	"context"
	"sync"

	"github.com/dmoloney/lastmanstanding/internal/domain/picktoken"
)

type PickTokenRepository struct {
	mu    sync.RWMutex
	items map[string]picktoken.Token
}

func NewPickTokenRepository(tokens []picktoken.Token) *PickTokenRepository {
	items := make(map[string]picktoken.Token, len(tokens))
	for _, t := range tokens {
		items[t.ID] = t
	}

	return &PickTokenRepository{items: items}
}

func (r *PickTokenRepository) GetByValue(_ context.Context, value string) (picktoken.Token, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.items {
		if item.Token == value {
			return item, true, nil
		}
	}
	return picktoken.Token{}, false, nil
}

func (r *PickTokenRepository) GetUsableByPlayerAndRound(_ context.Context, playerID, roundID string) (picktoken.Token, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.items {
		if item.PlayerID == playerID && item.RoundID == roundID && item.EditCount < picktoken.EditLimit {
			return item, true, nil
		}
	}
	return picktoken.Token{}, false, nil
}

func (r *PickTokenRepository) Create(_ context.Context, item picktoken.Token) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[item.ID] = item
	return nil
}

func (r *PickTokenRepository) Update(_ context.Context, item picktoken.Token) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[item.ID] = item
	return nil
}

func (r *PickTokenRepository) DeleteAll(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := len(r.items)
	r.items = make(map[string]picktoken.Token)
	return count, nil
}

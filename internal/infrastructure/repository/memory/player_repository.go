package memory

import (
	"context"
	"sync"

	"github.com/dmoloney/lastmanstanding/internal/domain/player"
)

type PlayerRepository struct {
	mu    sync.RWMutex
	items map[string]player.Player
	order []string
}

func NewPlayerRepository(players []player.Player) *PlayerRepository {
	items := make(map[string]player.Player, len(players))
	order := make([]string, 0, len(players))
	for _, p := range players {
		items[p.ID] = p
		order = append(order, p.ID)
	}

	return &PlayerRepository{items: items, order: order}
}

func (r *PlayerRepository) GetByID(_ context.Context, id string) (player.Player, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[id]
	return item, ok, nil
}

func (r *PlayerRepository) GetByPhone(_ context.Context, phone string) (player.Player, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, id := range r.order {
		if r.items[id].Phone == phone {
			return r.items[id], true, nil
		}
	}
	return player.Player{}, false, nil
}

func (r *PlayerRepository) List(_ context.Context) ([]player.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]player.Player, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.items[id])
	}
	return out, nil
}

func (r *PlayerRepository) ListByStatus(_ context.Context, status string) ([]player.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]player.Player, 0)
	for _, id := range r.order {
		if r.items[id].Status == status {
			out = append(out, r.items[id])
		}
	}
	return out, nil
}

func (r *PlayerRepository) CountByStatus(_ context.Context, status string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, item := range r.items {
		if item.Status == status {
			count++
		}
	}
	return count, nil
}

func (r *PlayerRepository) Create(_ context.Context, item player.Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[item.ID]; !exists {
		r.order = append(r.order, item.ID)
	}
	r.items[item.ID] = item
	return nil
}

func (r *PlayerRepository) UpdateStatus(_ context.Context, id string, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[id]
	if !ok {
		return nil
	}
	item.Status = status
	r.items[id] = item
	return nil
}

func (r *PlayerRepository) UpdateStatusAll(_ context.Context, fromStatus, toStatus string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := 0
	for id, item := range r.items {
		if item.Status == fromStatus {
			item.Status = toStatus
			r.items[id] = item
			count++
		}
	}
	return count, nil
}

func (r *PlayerRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.items, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

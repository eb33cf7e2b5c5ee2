package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/dmoloney/lastmanstanding/internal/domain/round"
)

type RoundRepository struct {
	mu    sync.RWMutex
	items map[string]round.Round
}

func NewRoundRepository(rounds []round.Round) *RoundRepository {
	items := make(map[string]round.Round, len(rounds))
	for _, r := range rounds {
		items[r.ID] = r
	}

	return &RoundRepository{items: items}
}

func (r *RoundRepository) GetByID(_ context.Context, id string) (round.Round, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[id]
	return item, ok, nil
}

func (r *RoundRepository) GetBySequenceAndCycle(_ context.Context, sequence, cycle int) (round.Round, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.items {
		if item.SequenceNumber == sequence && item.CycleNumber == cycle {
			return item, true, nil
		}
	}
	return round.Round{}, false, nil
}

func (r *RoundRepository) ListActive(_ context.Context) ([]round.Round, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]round.Round, 0)
	for _, item := range r.items {
		if item.Status == round.StatusActive && !item.IsTerminated() {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CycleNumber != out[j].CycleNumber {
			return out[i].CycleNumber > out[j].CycleNumber
		}
		return out[i].SequenceNumber > out[j].SequenceNumber
	})
	return out, nil
}

func (r *RoundRepository) ListPendingOrActiveAfter(_ context.Context, sequence int) ([]round.Round, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]round.Round, 0)
	for _, item := range r.items {
		if item.SequenceNumber <= sequence {
			continue
		}
		if item.Status == round.StatusPending || item.Status == round.StatusActive {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].SequenceNumber < out[j].SequenceNumber
	})
	return out, nil
}

func (r *RoundRepository) LatestCompleted(_ context.Context) (round.Round, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var latest round.Round
	found := false
	for _, item := range r.items {
		if item.Status != round.StatusCompleted {
			continue
		}
		if !found || item.SequenceNumber > latest.SequenceNumber {
			latest = item
			found = true
		}
	}
	return latest, found, nil
}

func (r *RoundRepository) List(_ context.Context) ([]round.Round, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]round.Round, 0, len(r.items))
	for _, item := range r.items {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].SequenceNumber < out[j].SequenceNumber
	})
	return out, nil
}

func (r *RoundRepository) MaxSequence(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	max := 0
	for _, item := range r.items {
		if item.SequenceNumber > max {
			max = item.SequenceNumber
		}
	}
	return max, nil
}

func (r *RoundRepository) MaxCycle(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	max := 0
	for _, item := range r.items {
		if item.CycleNumber > max {
			max = item.CycleNumber
		}
	}
	return max, nil
}

func (r *RoundRepository) MatchdaysInUse(_ context.Context) ([]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[int]struct{})
	for _, item := range r.items {
		if item.Matchday != nil {
			seen[*item.Matchday] = struct{}{}
		}
	}
	out := make([]int, 0, len(seen))
	for md := range seen {
		out = append(out, md)
	}
	sort.Ints(out)
	return out, nil
}

func (r *RoundRepository) Create(_ context.Context, item round.Round) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[item.ID] = item
	return nil
}

func (r *RoundRepository) Update(_ context.Context, item round.Round) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[item.ID] = item
	return nil
}

func (r *RoundRepository) UpdateStatus(_ context.Context, id string, status string) error {
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

func (r *RoundRepository) RestampCycleAfter(_ context.Context, sequence, cycle int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := 0
	for id, item := range r.items {
		if item.SequenceNumber <= sequence {
			continue
		}
		if item.Status != round.StatusPending && item.Status != round.StatusActive {
			continue
		}
		if item.CycleNumber != cycle {
			item.CycleNumber = cycle
			r.items[id] = item
			count++
		}
	}
	return count, nil
}

func (r *RoundRepository) DeleteAll(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := len(r.items)
	r.items = make(map[string]round.Round)
	return count, nil
}

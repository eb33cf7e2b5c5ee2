package pick

import "context"

// Repository exposes pick persistence operations.
type Repository interface {
	GetByPlayerAndRound(ctx context.Context, playerID, roundID string) (Pick, bool, error)
	ListByRound(ctx context.Context, roundID string) ([]Pick, error)
	// ListByPlayer returns the player's picks ordered by round sequence
	// descending (most recent first).
	ListByPlayer(ctx context.Context, playerID string) ([]Pick, error)
	// ListByPlayerAndCycle returns the player's picks whose round belongs
	// to the given cycle. Team uniqueness is enforced over this set.
	ListByPlayerAndCycle(ctx context.Context, playerID string, cycle int) ([]Pick, error)
	CountByPlayer(ctx context.Context, playerID string) (int, error)
	Create(ctx context.Context, item Pick) error
	Update(ctx context.Context, item Pick) error
	DeleteAll(ctx context.Context) (int, error)
}

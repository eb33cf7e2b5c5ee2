package picktoken

import "context"

// Repository exposes pick token persistence operations.
type Repository interface {
	GetByValue(ctx context.Context, value string) (Token, bool, error)
	// GetUsableByPlayerAndRound returns the player's token for the round
	// that still has edits remaining, if any.
	GetUsableByPlayerAndRound(ctx context.Context, playerID, roundID string) (Token, bool, error)
	Create(ctx context.Context, item Token) error
	Update(ctx context.Context, item Token) error
	DeleteAll(ctx context.Context) (int, error)
}

package fixture

import "context"

// Repository exposes fixture persistence operations.
type Repository interface {
	ListByRound(ctx context.Context, roundID string) ([]Fixture, error)
	GetByRoundAndEvent(ctx context.Context, roundID, eventID string) (Fixture, bool, error)
	CreateBatch(ctx context.Context, items []Fixture) error
	UpdateResult(ctx context.Context, id string, homeScore, awayScore int, status string) error
	DeleteAll(ctx context.Context) (int, error)
}

package player

import "context"

// Repository exposes player persistence operations.
type Repository interface {
	GetByID(ctx context.Context, id string) (Player, bool, error)
	GetByPhone(ctx context.Context, phone string) (Player, bool, error)
	List(ctx context.Context) ([]Player, error)
	ListByStatus(ctx context.Context, status string) ([]Player, error)
	CountByStatus(ctx context.Context, status string) (int, error)
	Create(ctx context.Context, item Player) error
	UpdateStatus(ctx context.Context, id string, status string) error
	UpdateStatusAll(ctx context.Context, fromStatus, toStatus string) (int, error)
	Delete(ctx context.Context, id string) error
}

package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/dmoloney/lastmanstanding/internal/domain/player"
)

type PlayerRepository struct {
	db *sqlx.DB
}

func NewPlayerRepository(db *sqlx.DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

const playerColumns = `id, name, phone, status, unreachable, created_at, updated_at`

func (r *PlayerRepository) GetByID(ctx context.Context, id string) (player.Player, bool, error) {
	query := `SELECT ` + playerColumns + ` FROM players WHERE id = $1`

	var row playerTableModel
	if err := q(ctx, r.db).GetContext(ctx, &row, query, id); err != nil {
		if isNotFound(err) {
			return player.Player{}, false, nil
		}
		return player.Player{}, false, fmt.Errorf("get player: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *PlayerRepository) GetByPhone(ctx context.Context, phone string) (player.Player, bool, error) {
	query := `SELECT ` + playerColumns + ` FROM players WHERE phone = $1`

	var row playerTableModel
	if err := q(ctx, r.db).GetContext(ctx, &row, query, phone); err != nil {
		if isNotFound(err) {
			return player.Player{}, false, nil
		}
		return player.Player{}, false, fmt.Errorf("get player by phone: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *PlayerRepository) List(ctx context.Context) ([]player.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players ORDER BY name, id`

	var rows []playerTableModel
	if err := q(ctx, r.db).SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}

	out := make([]player.Player, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *PlayerRepository) ListByStatus(ctx context.Context, status string) ([]player.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players WHERE status = $1 ORDER BY name, id`

	var rows []playerTableModel
	if err := q(ctx, r.db).SelectContext(ctx, &rows, query, status); err != nil {
		return nil, fmt.Errorf("list players by status: %w", err)
	}

	out := make([]player.Player, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *PlayerRepository) CountByStatus(ctx context.Context, status string) (int, error) {
	query := `SELECT COUNT(*) FROM players WHERE status = $1`

	var count int
	if err := q(ctx, r.db).GetContext(ctx, &count, query, status); err != nil {
		return 0, fmt.Errorf("count players by status: %w", err)
	}
	return count, nil
}

func (r *PlayerRepository) Create(ctx context.Context, item player.Player) error {
	const query = `
INSERT INTO players (id, name, phone, status, unreachable)
VALUES (:id, :name, :phone, :status, :unreachable)`

	args := map[string]any{
		"id":          item.ID,
		"name":        item.Name,
		"phone":       item.Phone,
		"status":      item.Status,
		"unreachable": item.Unreachable,
	}
	sqlStr, sqlArgs, err := sqlx.Named(query, args)
	if err != nil {
		return fmt.Errorf("bind create player query: %w", err)
	}
	db := q(ctx, r.db)
	if _, err := db.ExecContext(ctx, db.Rebind(sqlStr), sqlArgs...); err != nil {
		return fmt.Errorf("create player: %w", err)
	}
	return nil
}

func (r *PlayerRepository) UpdateStatus(ctx context.Context, id string, status string) error {
	query := `UPDATE players SET status = $1, updated_at = now() WHERE id = $2`

	if _, err := q(ctx, r.db).ExecContext(ctx, query, status, id); err != nil {
		return fmt.Errorf("update player status: %w", err)
	}
	return nil
}

func (r *PlayerRepository) UpdateStatusAll(ctx context.Context, fromStatus, toStatus string) (int, error) {
	query := `UPDATE players SET status = $1, updated_at = now() WHERE status = $2`

	res, err := q(ctx, r.db).ExecContext(ctx, query, toStatus, fromStatus)
	if err != nil {
		return 0, fmt.Errorf("update player statuses: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("count updated players: %w", err)
	}
	return int(affected), nil
}

func (r *PlayerRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM players WHERE id = $1`

	if _, err := q(ctx, r.db).ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete player: %w", err)
	}
	return nil
}

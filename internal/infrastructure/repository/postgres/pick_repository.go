package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/dmoloney/lastmanstanding/internal/domain/pick"
)

type PickRepository struct {
	db *sqlx.DB
}

func NewPickRepository(db *sqlx.DB) *PickRepository {
	return &PickRepository{db: db}
}

const pickColumns = `p.id, p.player_id, p.round_id, p.team_picked, p.is_winner, p.is_eliminated, p.auto_assigned, p.auto_reason, p.submitted_at, p.last_edited_at`

func (r *PickRepository) GetByPlayerAndRound(ctx context.Context, playerID, roundID string) (pick.Pick, bool, error) {
	query := `SELECT ` + pickColumns + ` FROM picks p WHERE p.player_id = $1 AND p.round_id = $2`

	var row pickTableModel
	if err := q(ctx, r.db).GetContext(ctx, &row, query, playerID, roundID); err != nil {
		if isNotFound(err) {
			return pick.Pick{}, false, nil
		}
		return pick.Pick{}, false, fmt.Errorf("get pick: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *PickRepository) ListByRound(ctx context.Context, roundID string) ([]pick.Pick, error) {
	query := `SELECT ` + pickColumns + ` FROM picks p WHERE p.round_id = $1 ORDER BY p.player_id`

	var rows []pickTableModel
	if err := q(ctx, r.db).SelectContext(ctx, &rows, query, roundID); err != nil {
		return nil, fmt.Errorf("list picks by round: %w", err)
	}
	return picksToDomain(rows), nil
}

func (r *PickRepository) ListByPlayer(ctx context.Context, playerID string) ([]pick.Pick, error) {
	query := `
SELECT ` + pickColumns + `
FROM picks p
JOIN rounds r ON r.id = p.round_id
WHERE p.player_id = $1
ORDER BY r.sequence_number DESC`

	var rows []pickTableModel
	if err := q(ctx, r.db).SelectContext(ctx, &rows, query, playerID); err != nil {
		return nil, fmt.Errorf("list picks by player: %w", err)
	}
	return picksToDomain(rows), nil
}

func (r *PickRepository) ListByPlayerAndCycle(ctx context.Context, playerID string, cycle int) ([]pick.Pick, error) {
	query := `
SELECT ` + pickColumns + `
FROM picks p
JOIN rounds r ON r.id = p.round_id
WHERE p.player_id = $1
  AND r.cycle_number = $2
ORDER BY r.sequence_number DESC`

	var rows []pickTableModel
	if err := q(ctx, r.db).SelectContext(ctx, &rows, query, playerID, cycle); err != nil {
		return nil, fmt.Errorf("list picks by player and cycle: %w", err)
	}
	return picksToDomain(rows), nil
}

func (r *PickRepository) CountByPlayer(ctx context.Context, playerID string) (int, error) {
	query := `SELECT COUNT(*) FROM picks WHERE player_id = $1`

	var count int
	if err := q(ctx, r.db).GetContext(ctx, &count, query, playerID); err != nil {
		return 0, fmt.Errorf("count picks by player: %w", err)
	}
	return count, nil
}

func (r *PickRepository) Create(ctx context.Context, item pick.Pick) error {
	const query = `
INSERT INTO picks (id, player_id, round_id, team_picked, is_winner, is_eliminated, auto_assigned, auto_reason, submitted_at, last_edited_at)
VALUES (:id, :player_id, :round_id, :team_picked, :is_winner, :is_eliminated, :auto_assigned, :auto_reason, :submitted_at, :last_edited_at)`

	sqlStr, sqlArgs, err := sqlx.Named(query, pickArgs(item))
	if err != nil {
		return fmt.Errorf("bind create pick query: %w", err)
	}
	db := q(ctx, r.db)
	if _, err := db.ExecContext(ctx, db.Rebind(sqlStr), sqlArgs...); err != nil {
		return fmt.Errorf("create pick: %w", err)
	}
	return nil
}

func (r *PickRepository) Update(ctx context.Context, item pick.Pick) error {
	const query = `
UPDATE picks
SET team_picked = :team_picked,
    is_winner = :is_winner,
    is_eliminated = :is_eliminated,
    auto_assigned = :auto_assigned,
    auto_reason = :auto_reason,
    last_edited_at = :last_edited_at
WHERE id = :id`

	sqlStr, sqlArgs, err := sqlx.Named(query, pickArgs(item))
	if err != nil {
		return fmt.Errorf("bind update pick query: %w", err)
	}
	db := q(ctx, r.db)
	if _, err := db.ExecContext(ctx, db.Rebind(sqlStr), sqlArgs...); err != nil {
		return fmt.Errorf("update pick: %w", err)
	}
	return nil
}

func (r *PickRepository) DeleteAll(ctx context.Context) (int, error) {
	res, err := q(ctx, r.db).ExecContext(ctx, `DELETE FROM picks`)
	if err != nil {
		return 0, fmt.Errorf("delete picks: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("count deleted picks: %w", err)
	}
	return int(affected), nil
}

func picksToDomain(rows []pickTableModel) []pick.Pick {
	out := make([]pick.Pick, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out
}

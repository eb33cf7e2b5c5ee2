package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/dmoloney/lastmanstanding/internal/domain/picktoken"
)

type PickTokenRepository struct {
	db *sqlx.DB
}

func NewPickTokenRepository(db *sqlx.DB) *PickTokenRepository {
	return &PickTokenRepository{db: db}
}

const pickTokenColumns = `id, player_id, round_id, token, edit_count, expires_at, created_at, used_at`

func (r *PickTokenRepository) GetByValue(ctx context.Context, value string) (picktoken.Token, bool, error) {
	query := `SELECT ` + pickTokenColumns + ` FROM pick_tokens WHERE token = $1`

	var row pickTokenTableModel
	if err := q(ctx, r.db).GetContext(ctx, &row, query, value); err != nil {
		if isNotFound(err) {
			return picktoken.Token{}, false, nil
		}
		return picktoken.Token{}, false, fmt.Errorf("get pick token: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *PickTokenRepository) GetUsableByPlayerAndRound(ctx context.Context, playerID, roundID string) (picktoken.Token, bool, error) {
	query := `
SELECT ` + pickTokenColumns + `
FROM pick_tokens
WHERE player_id = $1
  AND round_id = $2
  AND edit_count < $3
ORDER BY created_at DESC
LIMIT 1`

	var row pickTokenTableModel
	if err := q(ctx, r.db).GetContext(ctx, &row, query, playerID, roundID, picktoken.EditLimit); err != nil {
		if isNotFound(err) {
			return picktoken.Token{}, false, nil
		}
		return picktoken.Token{}, false, fmt.Errorf("get usable pick token: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *PickTokenRepository) Create(ctx context.Context, item picktoken.Token) error {
	const query = `
INSERT INTO pick_tokens (id, player_id, round_id, token, edit_count, expires_at, created_at, used_at)
VALUES (:id, :player_id, :round_id, :token, :edit_count, :expires_at, :created_at, :used_at)`

	args := map[string]any{
		"id":         item.ID,
		"player_id":  item.PlayerID,
		"round_id":   item.RoundID,
		"token":      item.Token,
		"edit_count": item.EditCount,
		"expires_at": item.ExpiresAt,
		"created_at": item.CreatedAt,
		"used_at":    item.UsedAt,
	}
	sqlStr, sqlArgs, err := sqlx.Named(query, args)
	if err != nil {
		return fmt.Errorf("bind create pick token query: %w", err)
	}
	db := q(ctx, r.db)
	if _, err := db.ExecContext(ctx, db.Rebind(sqlStr), sqlArgs...); err != nil {
		return fmt.Errorf("create pick token: %w", err)
	}
	return nil
}

func (r *PickTokenRepository) Update(ctx context.Context, item picktoken.Token) error {
	query := `UPDATE pick_tokens SET edit_count = $1, used_at = $2 WHERE id = $3`

	if _, err := q(ctx, r.db).ExecContext(ctx, query, item.EditCount, item.UsedAt, item.ID); err != nil {
		return fmt.Errorf("update pick token: %w", err)
	}
	return nil
}

func (r *PickTokenRepository) DeleteAll(ctx context.Context) (int, error) {
	res, err := q(ctx, r.db).ExecContext(ctx, `DELETE FROM pick_tokens`)
	if err != nil {
		return 0, fmt.Errorf("delete pick tokens: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("count deleted pick tokens: %w", err)
	}
	return int(affected), nil
}

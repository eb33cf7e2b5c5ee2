package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/dmoloney/lastmanstanding/internal/domain/fixture"
)

type FixtureRepository struct {
	db *sqlx.DB
}

func NewFixtureRepository(db *sqlx.DB) *FixtureRepository {
	return &FixtureRepository{db: db}
}

const fixtureColumns = `id, round_id, event_id, home_team, away_team, kickoff_at, home_score, away_score, status`

func (r *FixtureRepository) ListByRound(ctx context.Context, roundID string) ([]fixture.Fixture, error) {
	query := `SELECT ` + fixtureColumns + ` FROM fixtures WHERE round_id = $1 ORDER BY kickoff_at, home_team`

	var rows []fixtureTableModel
	if err := q(ctx, r.db).SelectContext(ctx, &rows, query, roundID); err != nil {
		return nil, fmt.Errorf("list fixtures by round: %w", err)
	}

	out := make([]fixture.Fixture, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *FixtureRepository) GetByRoundAndEvent(ctx context.Context, roundID, eventID string) (fixture.Fixture, bool, error) {
	query := `SELECT ` + fixtureColumns + ` FROM fixtures WHERE round_id = $1 AND event_id = $2`

	var row fixtureTableModel
	if err := q(ctx, r.db).GetContext(ctx, &row, query, roundID, eventID); err != nil {
		if isNotFound(err) {
			return fixture.Fixture{}, false, nil
		}
		return fixture.Fixture{}, false, fmt.Errorf("get fixture by event: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *FixtureRepository) CreateBatch(ctx context.Context, items []fixture.Fixture) error {
	if len(items) == 0 {
		return nil
	}

	const query = `
INSERT INTO fixtures (id, round_id, event_id, home_team, away_team, kickoff_at, home_score, away_score, status)
VALUES (:id, :round_id, :event_id, :home_team, :away_team, :kickoff_at, :home_score, :away_score, :status)`

	db := q(ctx, r.db)
	for _, item := range items {
		var home, away sql.NullInt64
		if item.HomeScore != nil {
			home = sql.NullInt64{Int64: int64(*item.HomeScore), Valid: true}
		}
		if item.AwayScore != nil {
			away = sql.NullInt64{Int64: int64(*item.AwayScore), Valid: true}
		}
		args := map[string]any{
			"id":         item.ID,
			"round_id":   item.RoundID,
			"event_id":   item.EventID,
			"home_team":  item.HomeTeam,
			"away_team":  item.AwayTeam,
			"kickoff_at": item.KickoffAt,
			"home_score": home,
			"away_score": away,
			"status":     item.Status,
		}
		sqlStr, sqlArgs, err := sqlx.Named(query, args)
		if err != nil {
			return fmt.Errorf("bind create fixture query: %w", err)
		}
		if _, err := db.ExecContext(ctx, db.Rebind(sqlStr), sqlArgs...); err != nil {
			return fmt.Errorf("create fixture %s vs %s: %w", item.HomeTeam, item.AwayTeam, err)
		}
	}
	return nil
}

func (r *FixtureRepository) UpdateResult(ctx context.Context, id string, homeScore, awayScore int, status string) error {
	query := `UPDATE fixtures SET home_score = $1, away_score = $2, status = $3 WHERE id = $4`

	if _, err := q(ctx, r.db).ExecContext(ctx, query, homeScore, awayScore, status, id); err != nil {
		return fmt.Errorf("update fixture result: %w", err)
	}
	return nil
}

func (r *FixtureRepository) DeleteAll(ctx context.Context) (int, error) {
	res, err := q(ctx, r.db).ExecContext(ctx, `DELETE FROM fixtures`)
	if err != nil {
		return 0, fmt.Errorf("delete fixtures: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("count deleted fixtures: %w", err)
	}
	return int(affected), nil
}

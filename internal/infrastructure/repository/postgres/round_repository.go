package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/dmoloney/lastmanstanding/internal/domain/round"
)

type RoundRepository struct {
	db *sqlx.DB
}

func NewRoundRepository(db *sqlx.DB) *RoundRepository {
	return &RoundRepository{db: db}
}

const roundColumns = `id, sequence_number, cycle_number, matchday, status, special_measure, first_kickoff_at, deadline_at, note, created_at, updated_at`

func (r *RoundRepository) GetByID(ctx context.Context, id string) (round.Round, bool, error) {
	query := `SELECT ` + roundColumns + ` FROM rounds WHERE id = $1`

	var row roundTableModel
	if err := q(ctx, r.db).GetContext(ctx, &row, query, id); err != nil {
		if isNotFound(err) {
			return round.Round{}, false, nil
		}
		return round.Round{}, false, fmt.Errorf("get round: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *RoundRepository) GetBySequenceAndCycle(ctx context.Context, sequence, cycle int) (round.Round, bool, error) {
	query := `SELECT ` + roundColumns + ` FROM rounds WHERE sequence_number = $1 AND cycle_number = $2`

	var row roundTableModel
	if err := q(ctx, r.db).GetContext(ctx, &row, query, sequence, cycle); err != nil {
		if isNotFound(err) {
			return round.Round{}, false, nil
		}
		return round.Round{}, false, fmt.Errorf("get round by sequence and cycle: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *RoundRepository) ListActive(ctx context.Context) ([]round.Round, error) {
	query := `
SELECT ` + roundColumns + `
FROM rounds
WHERE status = $1
  AND special_measure <> $2
ORDER BY cycle_number DESC, sequence_number DESC`

	var rows []roundTableModel
	if err := q(ctx, r.db).SelectContext(ctx, &rows, query, round.StatusActive, round.MeasureEarlyTerminated); err != nil {
		return nil, fmt.Errorf("list active rounds: %w", err)
	}
	return roundsToDomain(rows), nil
}

func (r *RoundRepository) ListPendingOrActiveAfter(ctx context.Context, sequence int) ([]round.Round, error) {
	query := `
SELECT ` + roundColumns + `
FROM rounds
WHERE sequence_number > $1
  AND status IN ($2, $3)
ORDER BY sequence_number`

	var rows []roundTableModel
	if err := q(ctx, r.db).SelectContext(ctx, &rows, query, sequence, round.StatusPending, round.StatusActive); err != nil {
		return nil, fmt.Errorf("list rounds after sequence: %w", err)
	}
	return roundsToDomain(rows), nil
}

func (r *RoundRepository) LatestCompleted(ctx context.Context) (round.Round, bool, error) {
	query := `
SELECT ` + roundColumns + `
FROM rounds
WHERE status = $1
ORDER BY sequence_number DESC
LIMIT 1`

	var row roundTableModel
	if err := q(ctx, r.db).GetContext(ctx, &row, query, round.StatusCompleted); err != nil {
		if isNotFound(err) {
			return round.Round{}, false, nil
		}
		return round.Round{}, false, fmt.Errorf("latest completed round: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *RoundRepository) List(ctx context.Context) ([]round.Round, error) {
	query := `SELECT ` + roundColumns + ` FROM rounds ORDER BY sequence_number`

	var rows []roundTableModel
	if err := q(ctx, r.db).SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list rounds: %w", err)
	}
	return roundsToDomain(rows), nil
}

func (r *RoundRepository) MaxSequence(ctx context.Context) (int, error) {
	query := `SELECT COALESCE(MAX(sequence_number), 0) FROM rounds`

	var max int
	if err := q(ctx, r.db).GetContext(ctx, &max, query); err != nil {
		return 0, fmt.Errorf("max round sequence: %w", err)
	}
	return max, nil
}

func (r *RoundRepository) MaxCycle(ctx context.Context) (int, error) {
	query := `SELECT COALESCE(MAX(cycle_number), 0) FROM rounds`

	var max int
	if err := q(ctx, r.db).GetContext(ctx, &max, query); err != nil {
		return 0, fmt.Errorf("max cycle number: %w", err)
	}
	return max, nil
}

func (r *RoundRepository) MatchdaysInUse(ctx context.Context) ([]int, error) {
	query := `SELECT DISTINCT matchday FROM rounds WHERE matchday IS NOT NULL ORDER BY matchday`

	var matchdays []int
	if err := q(ctx, r.db).SelectContext(ctx, &matchdays, query); err != nil {
		return nil, fmt.Errorf("matchdays in use: %w", err)
	}
	return matchdays, nil
}

func (r *RoundRepository) Create(ctx context.Context, item round.Round) error {
	const query = `
INSERT INTO rounds (id, sequence_number, cycle_number, matchday, status, special_measure, first_kickoff_at, deadline_at, note)
VALUES (:id, :sequence_number, :cycle_number, :matchday, :status, :special_measure, :first_kickoff_at, :deadline_at, :note)`

	sqlStr, sqlArgs, err := sqlx.Named(query, roundArgs(item))
	if err != nil {
		return fmt.Errorf("bind create round query: %w", err)
	}
	db := q(ctx, r.db)
	if _, err := db.ExecContext(ctx, db.Rebind(sqlStr), sqlArgs...); err != nil {
		return fmt.Errorf("create round: %w", err)
	}
	return nil
}

func (r *RoundRepository) Update(ctx context.Context, item round.Round) error {
	const query = `
UPDATE rounds
SET cycle_number = :cycle_number,
    matchday = :matchday,
    status = :status,
    special_measure = :special_measure,
    first_kickoff_at = :first_kickoff_at,
    deadline_at = :deadline_at,
    note = :note,
    updated_at = now()
WHERE id = :id`

	sqlStr, sqlArgs, err := sqlx.Named(query, roundArgs(item))
	if err != nil {
		return fmt.Errorf("bind update round query: %w", err)
	}
	db := q(ctx, r.db)
	if _, err := db.ExecContext(ctx, db.Rebind(sqlStr), sqlArgs...); err != nil {
		return fmt.Errorf("update round: %w", err)
	}
	return nil
}

func (r *RoundRepository) UpdateStatus(ctx context.Context, id string, status string) error {
	query := `UPDATE rounds SET status = $1, updated_at = now() WHERE id = $2`

	if _, err := q(ctx, r.db).ExecContext(ctx, query, status, id); err != nil {
		return fmt.Errorf("update round status: %w", err)
	}
	return nil
}

func (r *RoundRepository) RestampCycleAfter(ctx context.Context, sequence, cycle int) (int, error) {
	query := `
UPDATE rounds
SET cycle_number = $1, updated_at = now()
WHERE sequence_number > $2
  AND status IN ($3, $4)
  AND cycle_number <> $1`

	res, err := q(ctx, r.db).ExecContext(ctx, query, cycle, sequence, round.StatusPending, round.StatusActive)
	if err != nil {
		return 0, fmt.Errorf("restamp round cycles: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("count restamped rounds: %w", err)
	}
	return int(affected), nil
}

func (r *RoundRepository) DeleteAll(ctx context.Context) (int, error) {
	res, err := q(ctx, r.db).ExecContext(ctx, `DELETE FROM rounds`)
	if err != nil {
		return 0, fmt.Errorf("delete rounds: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("count deleted rounds: %w", err)
	}
	return int(affected), nil
}

func roundsToDomain(rows []roundTableModel) []round.Round {
	out := make([]round.Round, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out
}

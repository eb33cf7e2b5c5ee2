package postgres

import (
	"database/sql"
	"time"

	"github.com/dmoloney/lastmanstanding/internal/domain/round"
)

type roundTableModel struct {
	ID             string        `db:"id"`
	SequenceNumber int           `db:"sequence_number"`
	CycleNumber    int           `db:"cycle_number"`
	Matchday       sql.NullInt64 `db:"matchday"`
	Status         string        `db:"status"`
	SpecialMeasure string        `db:"special_measure"`
	FirstKickoffAt *time.Time    `db:"first_kickoff_at"`
	DeadlineAt     *time.Time    `db:"deadline_at"`
	Note           string        `db:"note"`
	CreatedAt      time.Time     `db:"created_at"`
	UpdatedAt      time.Time     `db:"updated_at"`
}

func (m roundTableModel) toDomain() round.Round {
	item := round.Round{
		ID:             m.ID,
		SequenceNumber: m.SequenceNumber,
		CycleNumber:    m.CycleNumber,
		Status:         m.Status,
		SpecialMeasure: m.SpecialMeasure,
		FirstKickoffAt: m.FirstKickoffAt,
		DeadlineAt:     m.DeadlineAt,
		Note:           m.Note,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
	if m.Matchday.Valid {
		md := int(m.Matchday.Int64)
		item.Matchday = &md
	}
	return item
}

func roundArgs(item round.Round) map[string]any {
	var matchday sql.NullInt64
	if item.Matchday != nil {
		matchday = sql.NullInt64{Int64: int64(*item.Matchday), Valid: true}
	}
	return map[string]any{
		"id":               item.ID,
		"sequence_number":  item.SequenceNumber,
		"cycle_number":     item.CycleNumber,
		"matchday":         matchday,
		"status":           item.Status,
		"special_measure":  item.SpecialMeasure,
		"first_kickoff_at": item.FirstKickoffAt,
		"deadline_at":      item.DeadlineAt,
		"note":             item.Note,
	}
}

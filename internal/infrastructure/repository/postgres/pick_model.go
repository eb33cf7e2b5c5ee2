package postgres

import (
	"database/sql"
	"time"

	"github.com/dmoloney/lastmanstanding/internal/domain/pick"
)

type pickTableModel struct {
	ID           string       `db:"id"`
	PlayerID     string       `db:"player_id"`
	RoundID      string       `db:"round_id"`
	TeamPicked   string       `db:"team_picked"`
	IsWinner     sql.NullBool `db:"is_winner"`
	IsEliminated bool         `db:"is_eliminated"`
	AutoAssigned bool         `db:"auto_assigned"`
	AutoReason   string       `db:"auto_reason"`
	SubmittedAt  time.Time    `db:"submitted_at"`
	LastEditedAt *time.Time   `db:"last_edited_at"`
}

func (m pickTableModel) toDomain() pick.Pick {
	item := pick.Pick{
		ID:           m.ID,
		PlayerID:     m.PlayerID,
		RoundID:      m.RoundID,
		TeamPicked:   m.TeamPicked,
		IsEliminated: m.IsEliminated,
		AutoAssigned: m.AutoAssigned,
		AutoReason:   m.AutoReason,
		SubmittedAt:  m.SubmittedAt,
		LastEditedAt: m.LastEditedAt,
	}
	if m.IsWinner.Valid {
		won := m.IsWinner.Bool
		item.IsWinner = &won
	}
	return item
}

func pickArgs(item pick.Pick) map[string]any {
	var isWinner sql.NullBool
	if item.IsWinner != nil {
		isWinner = sql.NullBool{Bool: *item.IsWinner, Valid: true}
	}
	return map[string]any{
		"id":             item.ID,
		"player_id":      item.PlayerID,
		"round_id":       item.RoundID,
		"team_picked":    item.TeamPicked,
		"is_winner":      isWinner,
		"is_eliminated":  item.IsEliminated,
		"auto_assigned":  item.AutoAssigned,
		"auto_reason":    item.AutoReason,
		"submitted_at":   item.SubmittedAt,
		"last_edited_at": item.LastEditedAt,
	}
}

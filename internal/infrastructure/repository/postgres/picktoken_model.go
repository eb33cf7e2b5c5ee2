package postgres

import (
	"time"

	"github.com/dmoloney/lastmanstanding/internal/domain/picktoken"
)

type pickTokenTableModel struct {
	ID        string     `db:"id"`
	PlayerID  string     `db:"player_id"`
	RoundID   string     `db:"round_id"`
	Token     string     `db:"token"`
	EditCount int        `db:"edit_count"`
	ExpiresAt time.Time  `db:"expires_at"`
	CreatedAt time.Time  `db:"created_at"`
	UsedAt    *time.Time `db:"used_at"`
}

func (m pickTokenTableModel) toDomain() picktoken.Token {
	return picktoken.Token{
		ID:        m.ID,
		PlayerID:  m.PlayerID,
		RoundID:   m.RoundID,
		Token:     m.Token,
		EditCount: m.EditCount,
		ExpiresAt: m.ExpiresAt,
		CreatedAt: m.CreatedAt,
		UsedAt:    m.UsedAt,
	}
}

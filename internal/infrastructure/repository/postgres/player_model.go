package postgres

import (
	"time"

	"github.com/dmoloney/lastmanstanding/internal/domain/player"
)

type playerTableModel struct {
	ID          string    `db:"id"`
	Name        string    `db:"name"`
	Phone       string    `db:"phone"`
	Status      string    `db:"status"`
	Unreachable bool      `db:"unreachable"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (m playerTableModel) toDomain() player.Player {
	return player.Player{
		ID:          m.ID,
		Name:        m.Name,
		Phone:       m.Phone,
		Status:      m.Status,
		Unreachable: m.Unreachable,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

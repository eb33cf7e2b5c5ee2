package postgres

import (
	"database/sql"
	"time"

	"github.com/dmoloney/lastmanstanding/internal/domain/fixture"
)

type fixtureTableModel struct {
	ID        string        `db:"id"`
	RoundID   string        `db:"round_id"`
	EventID   string        `db:"event_id"`
	HomeTeam  string        `db:"home_team"`
	AwayTeam  string        `db:"away_team"`
	KickoffAt time.Time     `db:"kickoff_at"`
	HomeScore sql.NullInt64 `db:"home_score"`
	AwayScore sql.NullInt64 `db:"away_score"`
	Status    string        `db:"status"`
}

func (m fixtureTableModel) toDomain() fixture.Fixture {
	item := fixture.Fixture{
		ID:        m.ID,
		RoundID:   m.RoundID,
		EventID:   m.EventID,
		HomeTeam:  m.HomeTeam,
		AwayTeam:  m.AwayTeam,
		KickoffAt: m.KickoffAt,
		Status:    m.Status,
	}
	if m.HomeScore.Valid {
		score := int(m.HomeScore.Int64)
		item.HomeScore = &score
	}
	if m.AwayScore.Valid {
		score := int(m.AwayScore.Int64)
		item.AwayScore = &score
	}
	return item
}

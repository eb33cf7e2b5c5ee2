package usecase

import (
	"fmt"
	"time"

	"github.com/dmoloney/lastmanstanding/internal/domain/fixture"
)

// fallbackPairings is the static fixture set used when the provider is down
// or returns nothing for a matchday. A round opened in degraded mode still
// has teams to pick from; results are entered manually later.
var fallbackPairings = [][2]string{
	{"Arsenal", "Chelsea"},
	{"Liverpool", "Everton"},
	{"Manchester City", "Manchester United"},
	{"Tottenham Hotspur", "West Ham United"},
	{"Newcastle United", "Aston Villa"},
}

// fallbackFixtures builds the degraded-mode fixture list. Kickoffs are
// staggered from the next Saturday 15:00 UTC after now so deadline
// derivation keeps working. Each fixture gets a synthetic event id so
// manually entered results can address it like a provider fixture.
func fallbackFixtures(roundID string, now time.Time, gen idGenerator) ([]fixture.Fixture, error) {
	kickoff := nextSaturdayAfternoon(now)

	out := make([]fixture.Fixture, 0, len(fallbackPairings))
	for i, pair := range fallbackPairings {
		fid, err := gen.NewID()
		if err != nil {
			return nil, err
		}
		out = append(out, fixture.Fixture{
			ID:        fid,
			RoundID:   roundID,
			EventID:   fmt.Sprintf("fallback-%d", i+1),
			HomeTeam:  pair[0],
			AwayTeam:  pair[1],
			KickoffAt: kickoff.Add(time.Duration(i%2) * 135 * time.Minute),
			Status:    fixture.StatusScheduled,
		})
	}

	return out, nil
}

func nextSaturdayAfternoon(now time.Time) time.Time {
	t := now.UTC()
	daysAhead := (int(time.Saturday) - int(t.Weekday()) + 7) % 7
	if daysAhead == 0 {
		daysAhead = 7
	}
	day := t.AddDate(0, 0, daysAhead)
	return time.Date(day.Year(), day.Month(), day.Day(), 15, 0, 0, 0, time.UTC)
}

type idGenerator interface {
	NewID() (string, error)
}

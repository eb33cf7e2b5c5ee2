package fixture

import (
	"sort"
	"strings"
	"time"
)

const (
	StatusScheduled = "scheduled"
	StatusLive      = "live"
	StatusCompleted = "completed"
	StatusPostponed = "postponed"
)

// Fixture is one match inside a round. Scores stay nil until the match has
// been played; result application is the only mutation path.
type Fixture struct {
	ID        string
	RoundID   string
	EventID   string
	HomeTeam  string
	AwayTeam  string
	KickoffAt time.Time
	HomeScore *int
	AwayScore *int
	Status    string
}

// NormalizeStatus maps provider status strings onto the four states stored
// here. Unknown values fall back to scheduled.
func NormalizeStatus(value string) string {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "LIVE", "IN_PLAY", "PAUSED":
		return StatusLive
	case "FINISHED", "COMPLETED", "FT", "AET":
		return StatusCompleted
	case "POSTPONED", "SUSPENDED", "CANCELLED":
		return StatusPostponed
	default:
		return StatusScheduled
	}
}

// WinningTeam returns the team with the higher score. The second return is
// false for a draw or an unplayed fixture.
func (f Fixture) WinningTeam() (string, bool) {
	if f.HomeScore == nil || f.AwayScore == nil {
		return "", false
	}
	switch {
	case *f.HomeScore > *f.AwayScore:
		return f.HomeTeam, true
	case *f.AwayScore > *f.HomeScore:
		return f.AwayTeam, true
	default:
		return "", false
	}
}

func (f Fixture) Involves(team string) bool {
	return f.HomeTeam == team || f.AwayTeam == team
}

// Opponent returns the other side of the fixture, or "" when the team is
// not part of it.
func (f Fixture) Opponent(team string) string {
	switch team {
	case f.HomeTeam:
		return f.AwayTeam
	case f.AwayTeam:
		return f.HomeTeam
	default:
		return ""
	}
}

// Teams returns the distinct team names across the fixtures, sorted.
func Teams(fixtures []Fixture) []string {
	seen := make(map[string]struct{}, len(fixtures)*2)
	out := make([]string, 0, len(fixtures)*2)
	for _, f := range fixtures {
		for _, team := range []string{f.HomeTeam, f.AwayTeam} {
			if team == "" {
				continue
			}
			if _, ok := seen[team]; ok {
				continue
			}
			seen[team] = struct{}{}
			out = append(out, team)
		}
	}
	sort.Strings(out)
	return out
}

// EarliestKickoff returns the minimum kickoff time over the fixtures.
func EarliestKickoff(fixtures []Fixture) (time.Time, bool) {
	var earliest time.Time
	found := false
	for _, f := range fixtures {
		if f.KickoffAt.IsZero() {
			continue
		}
		if !found || f.KickoffAt.Before(earliest) {
			earliest = f.KickoffAt
			found = true
		}
	}
	return earliest, found
}

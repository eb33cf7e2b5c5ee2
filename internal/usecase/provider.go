package usecase

import (
	"context"
	"time"
)

// ExternalFixture is one match as reported by the schedule/result provider.
type ExternalFixture struct {
	EventID   string
	Matchday  int
	HomeTeam  string
	AwayTeam  string
	KickoffAt time.Time
	HomeScore *int
	AwayScore *int
	Status    string
}

// FixtureProvider is the external schedule/result source. It may return
// empty sets or errors freely; callers degrade to the fallback fixture list
// or to a season break and never let a provider failure abort round
// creation or rollover.
type FixtureProvider interface {
	FixturesByMatchday(ctx context.Context, matchday int) ([]ExternalFixture, error)
	UpcomingFixtures(ctx context.Context, horizon time.Duration) ([]ExternalFixture, error)
	AvailableMatchdays(ctx context.Context) ([]int, error)
}

package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/dmoloney/lastmanstanding/internal/domain/fixture"
	"github.com/dmoloney/lastmanstanding/internal/domain/round"
)

type seqIDGenerator struct {
	prefix string
	next   int
}

func (g *seqIDGenerator) NewID() (string, error) {
	g.next++
	return fmt.Sprintf("%s-%03d", g.prefix, g.next), nil
}

func (g *seqIDGenerator) NewToken(length int) (string, error) {
	g.next++
	value := fmt.Sprintf("tok%s%03d", g.prefix, g.next)
	for len(value) < length {
		value += "x"
	}
	return value[:length], nil
}

type fakeProvider struct {
	byMatchday func(ctx context.Context, matchday int) ([]ExternalFixture, error)
	upcoming   func(ctx context.Context, horizon time.Duration) ([]ExternalFixture, error)
	matchdays  func(ctx context.Context) ([]int, error)
}

func (p *fakeProvider) FixturesByMatchday(ctx context.Context, matchday int) ([]ExternalFixture, error) {
	if p.byMatchday == nil {
		return nil, nil
	}
	return p.byMatchday(ctx, matchday)
}

func (p *fakeProvider) UpcomingFixtures(ctx context.Context, horizon time.Duration) ([]ExternalFixture, error) {
	if p.upcoming == nil {
		return nil, nil
	}
	return p.upcoming(ctx, horizon)
}

func (p *fakeProvider) AvailableMatchdays(ctx context.Context) ([]int, error) {
	if p.matchdays == nil {
		return nil, nil
	}
	return p.matchdays(ctx)
}

func intPtr(v int) *int { return &v }

func timePtr(v time.Time) *time.Time { return &v }

func activeRound(id string, sequence, cycle int, kickoff time.Time) round.Round {
	return round.Round{
		ID:             id,
		SequenceNumber: sequence,
		CycleNumber:    cycle,
		Matchday:       intPtr(sequence),
		Status:         round.StatusActive,
		FirstKickoffAt: timePtr(kickoff),
	}
}

func roundFixture(id, roundID, event, home, away string, kickoff time.Time) fixture.Fixture {
	return fixture.Fixture{
		ID:        id,
		RoundID:   roundID,
		EventID:   event,
		HomeTeam:  home,
		AwayTeam:  away,
		KickoffAt: kickoff,
		Status:    fixture.StatusScheduled,
	}
}

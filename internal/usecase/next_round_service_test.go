package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmoloney/lastmanstanding/internal/domain/round"
	"github.com/dmoloney/lastmanstanding/internal/infrastructure/repository/memory"
	"github.com/dmoloney/lastmanstanding/internal/platform/logging"
)

func TestNextRoundService_EnsureNextRound_CreatesActiveRound(t *testing.T) {
	kickoff := time.Date(2026, 3, 21, 15, 0, 0, 0, time.UTC)
	ref := round.Round{ID: "r1", SequenceNumber: 1, CycleNumber: 1, Matchday: intPtr(28), Status: round.StatusCompleted, SpecialMeasure: round.MeasureEarlyTerminated}
	roundRepo := memory.NewRoundRepository([]round.Round{ref})
	fixtureRepo := memory.NewFixtureRepository(nil)
	provider := &fakeProvider{
		upcoming: func(_ context.Context, _ time.Duration) ([]ExternalFixture, error) {
			return []ExternalFixture{
				{EventID: "ev-30a", Matchday: 30, HomeTeam: "Spurs", AwayTeam: "West Ham", KickoffAt: kickoff.AddDate(0, 0, 7)},
				{EventID: "ev-29a", Matchday: 29, HomeTeam: "Brighton", AwayTeam: "Wolves", KickoffAt: kickoff},
				{EventID: "ev-28a", Matchday: 28, HomeTeam: "Arsenal", AwayTeam: "Chelsea", KickoffAt: kickoff.AddDate(0, 0, -7)},
			}, nil
		},
	}

	service := NewNextRoundService(roundRepo, fixtureRepo, provider, NopTxManager{}, &seqIDGenerator{prefix: "nxt"}, logging.NewNop(), 0)

	next, err := service.EnsureNextRound(t.Context(), ref, 2)
	if err != nil {
		t.Fatalf("ensure next round: %v", err)
	}
	if next == nil {
		t.Fatalf("expected a round")
	}
	if next.SequenceNumber != 2 || next.CycleNumber != 2 {
		t.Fatalf("unexpected sequence/cycle: %d/%d", next.SequenceNumber, next.CycleNumber)
	}
	// Matchday 28 is already used by the reference round, so 29 is the
	// lowest unused candidate.
	if next.Matchday == nil || *next.Matchday != 29 {
		t.Fatalf("matchday: got=%v want=29", next.Matchday)
	}
	if next.Status != round.StatusActive {
		t.Fatalf("status: got=%s want=%s", next.Status, round.StatusActive)
	}

	fixtures, err := fixtureRepo.ListByRound(t.Context(), next.ID)
	if err != nil {
		t.Fatalf("list fixtures: %v", err)
	}
	if len(fixtures) != 1 || fixtures[0].EventID != "ev-29a" {
		t.Fatalf("wrong fixtures attached: %+v", fixtures)
	}
}

func TestNextRoundService_EnsureNextRound_ReturnsExistingSuccessor(t *testing.T) {
	ref := round.Round{ID: "r1", SequenceNumber: 1, CycleNumber: 1, Status: round.StatusCompleted, SpecialMeasure: round.MeasureEarlyTerminated}
	existing := round.Round{ID: "r2", SequenceNumber: 2, CycleNumber: 2, Status: round.StatusPending}
	roundRepo := memory.NewRoundRepository([]round.Round{ref, existing})

	service := NewNextRoundService(roundRepo, memory.NewFixtureRepository(nil), &fakeProvider{}, NopTxManager{}, &seqIDGenerator{prefix: "nxt"}, logging.NewNop(), 0)

	next, err := service.EnsureNextRound(t.Context(), ref, 2)
	if err != nil {
		t.Fatalf("ensure next round: %v", err)
	}
	if next == nil || next.ID != "r2" {
		t.Fatalf("must return the existing successor, got %+v", next)
	}
}

func TestNextRoundService_EnsureNextRound_SeasonBreakWhenCalendarEmpty(t *testing.T) {
	ref := round.Round{ID: "r1", SequenceNumber: 1, CycleNumber: 1, Status: round.StatusCompleted, SpecialMeasure: round.MeasureEarlyTerminated}
	roundRepo := memory.NewRoundRepository([]round.Round{ref})

	service := NewNextRoundService(roundRepo, memory.NewFixtureRepository(nil), &fakeProvider{}, NopTxManager{}, &seqIDGenerator{prefix: "nxt"}, logging.NewNop(), 0)

	next, err := service.EnsureNextRound(t.Context(), ref, 2)
	if err != nil {
		t.Fatalf("ensure next round: %v", err)
	}
	if next == nil {
		t.Fatalf("expected a parked round")
	}
	if next.Status != round.StatusPending || next.SpecialMeasure != round.MeasureSeasonBreak {
		t.Fatalf("expected season break, got status=%s measure=%s", next.Status, next.SpecialMeasure)
	}
	if next.Matchday != nil {
		t.Fatalf("season break round must not have a matchday")
	}
}

func TestNextRoundService_EnsureNextRound_SuspendsOnProviderError(t *testing.T) {
	ref := round.Round{ID: "r1", SequenceNumber: 1, CycleNumber: 1, Status: round.StatusCompleted, SpecialMeasure: round.MeasureEarlyTerminated}
	roundRepo := memory.NewRoundRepository([]round.Round{ref})
	provider := &fakeProvider{
		upcoming: func(_ context.Context, _ time.Duration) ([]ExternalFixture, error) {
			return nil, errors.New("upstream timeout")
		},
	}

	service := NewNextRoundService(roundRepo, memory.NewFixtureRepository(nil), provider, NopTxManager{}, &seqIDGenerator{prefix: "nxt"}, logging.NewNop(), 0)

	next, err := service.EnsureNextRound(t.Context(), ref, 2)
	if err != nil {
		t.Fatalf("provider failure must not abort: %v", err)
	}
	if next == nil || next.SpecialMeasure != round.MeasureWaitingForFixtures {
		t.Fatalf("expected waiting_for_fixtures, got %+v", next)
	}
}

func TestNextRoundService_ResumeIfFixturesAvailable(t *testing.T) {
	kickoff := time.Date(2026, 8, 15, 15, 0, 0, 0, time.UTC)
	parked := round.Round{ID: "r2", SequenceNumber: 2, CycleNumber: 2, Status: round.StatusPending, SpecialMeasure: round.MeasureSeasonBreak}
	roundRepo := memory.NewRoundRepository([]round.Round{parked})
	fixtureRepo := memory.NewFixtureRepository(nil)

	calendar := []ExternalFixture{}
	provider := &fakeProvider{
		upcoming: func(_ context.Context, _ time.Duration) ([]ExternalFixture, error) {
			return calendar, nil
		},
	}

	service := NewNextRoundService(roundRepo, fixtureRepo, provider, NopTxManager{}, &seqIDGenerator{prefix: "nxt"}, logging.NewNop(), 0)

	// Calendar still empty: the round stays parked.
	_, resumed, err := service.ResumeIfFixturesAvailable(t.Context(), "r2")
	if err != nil {
		t.Fatalf("resume attempt: %v", err)
	}
	if resumed {
		t.Fatalf("must not resume without fixtures")
	}

	calendar = []ExternalFixture{{EventID: "ev-1", Matchday: 1, HomeTeam: "Arsenal", AwayTeam: "Chelsea", KickoffAt: kickoff}}

	item, resumed, err := service.ResumeIfFixturesAvailable(t.Context(), "r2")
	if err != nil {
		t.Fatalf("resume: %v", err)
	}
	if !resumed {
		t.Fatalf("round must resume once fixtures exist")
	}
	if item.Status != round.StatusActive || item.SpecialMeasure != round.MeasureNone {
		t.Fatalf("resumed round state: status=%s measure=%q", item.Status, item.SpecialMeasure)
	}
	if item.Matchday == nil || *item.Matchday != 1 {
		t.Fatalf("resumed round matchday: %v", item.Matchday)
	}
}

func TestNextRoundService_ResumeRejectsUnsuspendedRound(t *testing.T) {
	item := activeRound("r1", 1, 1, time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC))
	service := NewNextRoundService(memory.NewRoundRepository([]round.Round{item}), memory.NewFixtureRepository(nil), &fakeProvider{}, NopTxManager{}, &seqIDGenerator{prefix: "nxt"}, logging.NewNop(), 0)

	if _, _, err := service.ResumeIfFixturesAvailable(t.Context(), "r1"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestNextRoundService_CheckNewSeason_ResumesFirstSuspended(t *testing.T) {
	kickoff := time.Date(2026, 8, 15, 15, 0, 0, 0, time.UTC)
	parked := round.Round{ID: "r3", SequenceNumber: 3, CycleNumber: 2, Status: round.StatusPending, SpecialMeasure: round.MeasureWaitingForFixtures}
	done := round.Round{ID: "r2", SequenceNumber: 2, CycleNumber: 2, Status: round.StatusCompleted}
	roundRepo := memory.NewRoundRepository([]round.Round{done, parked})
	provider := &fakeProvider{
		upcoming: func(_ context.Context, _ time.Duration) ([]ExternalFixture, error) {
			return []ExternalFixture{{EventID: "ev-1", Matchday: 5, HomeTeam: "Leeds", AwayTeam: "Luton", KickoffAt: kickoff}}, nil
		},
	}

	service := NewNextRoundService(roundRepo, memory.NewFixtureRepository(nil), provider, NopTxManager{}, &seqIDGenerator{prefix: "nxt"}, logging.NewNop(), 0)

	item, resumed, err := service.CheckNewSeason(t.Context())
	if err != nil {
		t.Fatalf("check new season: %v", err)
	}
	if !resumed || item.ID != "r3" {
		t.Fatalf("suspended round not resumed: resumed=%t item=%+v", resumed, item)
	}
}

func TestNextRoundService_AvailableMatchdays(t *testing.T) {
	used := round.Round{ID: "r1", SequenceNumber: 1, CycleNumber: 1, Matchday: intPtr(28), Status: round.StatusCompleted}
	roundRepo := memory.NewRoundRepository([]round.Round{used})
	provider := &fakeProvider{
		matchdays: func(_ context.Context) ([]int, error) {
			return []int{30, 28, 29}, nil
		},
	}

	service := NewNextRoundService(roundRepo, memory.NewFixtureRepository(nil), provider, NopTxManager{}, &seqIDGenerator{prefix: "nxt"}, logging.NewNop(), 0)

	got, err := service.AvailableMatchdays(t.Context())
	if err != nil {
		t.Fatalf("available matchdays: %v", err)
	}
	if len(got) != 2 || got[0] != 29 || got[1] != 30 {
		t.Fatalf("unexpected matchdays: %v", got)
	}
}

func TestNextRoundService_AvailableMatchdays_ProviderDown(t *testing.T) {
	provider := &fakeProvider{
		matchdays: func(_ context.Context) ([]int, error) {
			return nil, errors.New("connection refused")
		},
	}
	service := NewNextRoundService(memory.NewRoundRepository(nil), memory.NewFixtureRepository(nil), provider, NopTxManager{}, &seqIDGenerator{prefix: "nxt"}, logging.NewNop(), 0)

	if _, err := service.AvailableMatchdays(t.Context()); !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
	}
}

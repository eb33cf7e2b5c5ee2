package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/dmoloney/lastmanstanding/internal/domain/fixture"
	"github.com/dmoloney/lastmanstanding/internal/domain/pick"
	"github.com/dmoloney/lastmanstanding/internal/domain/player"
	"github.com/dmoloney/lastmanstanding/internal/domain/round"
	"github.com/dmoloney/lastmanstanding/internal/infrastructure/repository/memory"
	"github.com/dmoloney/lastmanstanding/internal/platform/logging"
)

type autoPickEnv struct {
	pickRepo *memory.PickRepository
	service  *AutoPickService
}

func newAutoPickEnv(t *testing.T, rounds []round.Round, fixtures []fixture.Fixture, players []player.Player, picks []pick.Pick, now time.Time) autoPickEnv {
	t.Helper()

	roundRepo := memory.NewRoundRepository(rounds)
	fixtureRepo := memory.NewFixtureRepository(fixtures)
	playerRepo := memory.NewPlayerRepository(players)
	pickRepo := memory.NewPickRepository(picks, roundRepo)

	service := NewAutoPickService(pickRepo, playerRepo, roundRepo, fixtureRepo, NopTxManager{}, &seqIDGenerator{prefix: "ap"}, logging.NewNop(), time.Hour)
	service.now = func() time.Time { return now }

	return autoPickEnv{pickRepo: pickRepo, service: service}
}

func TestAutoPickService_BeforeCutoffRejected(t *testing.T) {
	kickoff := time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)
	env := newAutoPickEnv(t,
		[]round.Round{activeRound("r1", 1, 1, kickoff)},
		[]fixture.Fixture{roundFixture("f1", "r1", "ev-1", "Arsenal", "Chelsea", kickoff)},
		[]player.Player{{ID: "p1", Name: "Alice", Status: player.StatusActive}},
		nil,
		kickoff.Add(-2*time.Hour),
	)

	if _, err := env.service.ApplyMissedPicks(t.Context(), "r1", false); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict before cutoff, got %v", err)
	}
}

func TestAutoPickService_PrefersLastWinningOpponent(t *testing.T) {
	// Alice's winning pick in round 1 was Arsenal, who beat Chelsea.
	// Chelsea play in round 2, so Chelsea is her auto-pick.
	prevKickoff := time.Date(2026, 3, 7, 15, 0, 0, 0, time.UTC)
	kickoff := time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)
	won := true
	env := newAutoPickEnv(t,
		[]round.Round{
			{ID: "r1", SequenceNumber: 1, CycleNumber: 1, Status: round.StatusCompleted, FirstKickoffAt: timePtr(prevKickoff)},
			activeRound("r2", 2, 1, kickoff),
		},
		[]fixture.Fixture{
			roundFixture("f1", "r1", "ev-1", "Arsenal", "Chelsea", prevKickoff),
			roundFixture("f2", "r2", "ev-2", "Chelsea", "Everton", kickoff),
			roundFixture("f3", "r2", "ev-3", "Aston Villa", "Brentford", kickoff),
		},
		[]player.Player{{ID: "p1", Name: "Alice", Status: player.StatusActive}},
		[]pick.Pick{{ID: "pk1", PlayerID: "p1", RoundID: "r1", TeamPicked: "Arsenal", IsWinner: &won}},
		kickoff.Add(-30*time.Minute),
	)

	plan, err := env.service.ApplyMissedPicks(t.Context(), "r2", false)
	if err != nil {
		t.Fatalf("apply missed picks: %v", err)
	}
	if len(plan.Assignments) != 1 {
		t.Fatalf("assignments: got=%d want=1", len(plan.Assignments))
	}
	if plan.Assignments[0].Team != "Chelsea" {
		t.Fatalf("preferred team: got=%s want=Chelsea", plan.Assignments[0].Team)
	}

	assigned, ok, err := env.pickRepo.GetByPlayerAndRound(t.Context(), "p1", "r2")
	if err != nil || !ok {
		t.Fatalf("auto pick not stored: ok=%t err=%v", ok, err)
	}
	if !assigned.AutoAssigned || assigned.AutoReason != pick.ReasonMissedDeadline {
		t.Fatalf("auto-assignment flags missing: %+v", assigned)
	}
}

func TestAutoPickService_AlphabeticalFallback(t *testing.T) {
	kickoff := time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)
	env := newAutoPickEnv(t,
		[]round.Round{activeRound("r1", 1, 1, kickoff)},
		[]fixture.Fixture{
			roundFixture("f1", "r1", "ev-1", "Wolves", "Brentford", kickoff),
			roundFixture("f2", "r1", "ev-2", "Spurs", "Everton", kickoff),
		},
		[]player.Player{{ID: "p1", Name: "Alice", Status: player.StatusActive}},
		nil,
		kickoff.Add(-30*time.Minute),
	)

	plan, err := env.service.ApplyMissedPicks(t.Context(), "r1", false)
	if err != nil {
		t.Fatalf("apply missed picks: %v", err)
	}
	if len(plan.Assignments) != 1 || plan.Assignments[0].Team != "Brentford" {
		t.Fatalf("alphabetical fallback: got=%+v want Brentford", plan.Assignments)
	}
}

func TestAutoPickService_DryRunWritesNothing(t *testing.T) {
	kickoff := time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)
	env := newAutoPickEnv(t,
		[]round.Round{activeRound("r1", 1, 1, kickoff)},
		[]fixture.Fixture{roundFixture("f1", "r1", "ev-1", "Arsenal", "Chelsea", kickoff)},
		[]player.Player{{ID: "p1", Name: "Alice", Status: player.StatusActive}},
		nil,
		kickoff.Add(-30*time.Minute),
	)

	plan, err := env.service.ApplyMissedPicks(t.Context(), "r1", true)
	if err != nil {
		t.Fatalf("dry run: %v", err)
	}
	if !plan.DryRun || len(plan.Assignments) != 1 {
		t.Fatalf("dry-run plan: %+v", plan)
	}

	if _, ok, err := env.pickRepo.GetByPlayerAndRound(t.Context(), "p1", "r1"); err != nil || ok {
		t.Fatalf("dry run must not persist picks: ok=%t err=%v", ok, err)
	}
}

func TestAutoPickService_SkipsPlayersWithPicks_FlagsUnassignable(t *testing.T) {
	kickoff := time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)
	env := newAutoPickEnv(t,
		[]round.Round{
			{ID: "r0a", SequenceNumber: 1, CycleNumber: 1, Status: round.StatusCompleted},
			{ID: "r0b", SequenceNumber: 2, CycleNumber: 1, Status: round.StatusCompleted},
			activeRound("r1", 3, 1, kickoff),
		},
		[]fixture.Fixture{roundFixture("f1", "r1", "ev-1", "Arsenal", "Chelsea", kickoff)},
		[]player.Player{
			{ID: "p1", Name: "Alice", Status: player.StatusActive},
			{ID: "p2", Name: "Bob", Status: player.StatusActive},
		},
		[]pick.Pick{
			{ID: "pk1", PlayerID: "p1", RoundID: "r1", TeamPicked: "Arsenal"},
			// Bob has burned both of this round's teams in earlier rounds
			// of the cycle.
			{ID: "pk2", PlayerID: "p2", RoundID: "r0a", TeamPicked: "Arsenal"},
			{ID: "pk3", PlayerID: "p2", RoundID: "r0b", TeamPicked: "Chelsea"},
		},
		kickoff.Add(-30*time.Minute),
	)

	plan, err := env.service.ApplyMissedPicks(t.Context(), "r1", false)
	if err != nil {
		t.Fatalf("apply missed picks: %v", err)
	}
	if len(plan.Assignments) != 0 {
		t.Fatalf("no assignable players expected: %+v", plan.Assignments)
	}
	if len(plan.Unassignable) != 1 || plan.Unassignable[0] != "p2" {
		t.Fatalf("unassignable: got=%v want=[p2]", plan.Unassignable)
	}
}

func TestAutoPickService_NoCutoffRejected(t *testing.T) {
	parked := round.Round{ID: "r1", SequenceNumber: 1, CycleNumber: 1, Status: round.StatusPending, SpecialMeasure: round.MeasureSeasonBreak}
	env := newAutoPickEnv(t, []round.Round{parked}, nil, nil, nil, time.Now())

	if _, err := env.service.ApplyMissedPicks(t.Context(), "r1", false); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput without a cutoff, got %v", err)
	}
}

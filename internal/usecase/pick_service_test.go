package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/dmoloney/lastmanstanding/internal/domain/fixture"
	"github.com/dmoloney/lastmanstanding/internal/domain/pick"
	"github.com/dmoloney/lastmanstanding/internal/domain/picktoken"
	"github.com/dmoloney/lastmanstanding/internal/domain/round"
	"github.com/dmoloney/lastmanstanding/internal/infrastructure/repository/memory"
	"github.com/dmoloney/lastmanstanding/internal/platform/logging"
)

type pickEnv struct {
	roundRepo   *memory.RoundRepository
	fixtureRepo *memory.FixtureRepository
	pickRepo    *memory.PickRepository
	tokenRepo   *memory.PickTokenRepository
	service     *PickService
	now         time.Time
}

func newPickEnv(t *testing.T, rounds []round.Round, fixtures []fixture.Fixture, picks []pick.Pick, tokens []picktoken.Token) pickEnv {
	t.Helper()

	roundRepo := memory.NewRoundRepository(rounds)
	fixtureRepo := memory.NewFixtureRepository(fixtures)
	pickRepo := memory.NewPickRepository(picks, roundRepo)
	tokenRepo := memory.NewPickTokenRepository(tokens)

	service := NewPickService(pickRepo, tokenRepo, roundRepo, fixtureRepo, NopTxManager{}, &seqIDGenerator{prefix: "pk"}, logging.NewNop())
	now := time.Date(2026, 3, 12, 10, 0, 0, 0, time.UTC)
	service.now = func() time.Time { return now }

	return pickEnv{roundRepo: roundRepo, fixtureRepo: fixtureRepo, pickRepo: pickRepo, tokenRepo: tokenRepo, service: service, now: now}
}

func pickToken(id, playerID, roundID, value string, expires time.Time) picktoken.Token {
	return picktoken.Token{ID: id, PlayerID: playerID, RoundID: roundID, Token: value, ExpiresAt: expires}
}

func TestPickService_SubmitPick_CreateThenEdit(t *testing.T) {
	kickoff := time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)
	env := newPickEnv(t,
		[]round.Round{activeRound("r1", 1, 1, kickoff)},
		[]fixture.Fixture{
			roundFixture("f1", "r1", "ev-1", "Arsenal", "Chelsea", kickoff),
			roundFixture("f2", "r1", "ev-2", "Everton", "Fulham", kickoff.Add(2*time.Hour)),
		},
		nil,
		[]picktoken.Token{pickToken("t1", "p1", "r1", "secret-token", kickoff)},
	)

	created, err := env.service.SubmitPick(t.Context(), "secret-token", "Arsenal")
	if err != nil {
		t.Fatalf("submit pick: %v", err)
	}
	if created.PlayerID != "p1" || created.RoundID != "r1" || created.TeamPicked != "Arsenal" {
		t.Fatalf("unexpected pick: %+v", created)
	}
	if created.LastEditedAt != nil {
		t.Fatalf("fresh pick must not carry an edit timestamp")
	}

	edited, err := env.service.SubmitPick(t.Context(), "secret-token", "Everton")
	if err != nil {
		t.Fatalf("edit pick: %v", err)
	}
	if edited.ID != created.ID {
		t.Fatalf("edit must reuse the pick row, got %s vs %s", edited.ID, created.ID)
	}
	if edited.TeamPicked != "Everton" {
		t.Fatalf("team not updated, got %s", edited.TeamPicked)
	}
	if edited.LastEditedAt == nil {
		t.Fatalf("edit timestamp missing")
	}

	// Two accepted submissions exhaust the token.
	if _, err := env.service.SubmitPick(t.Context(), "secret-token", "Fulham"); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid after %d uses, got %v", picktoken.EditLimit, err)
	}
}

func TestPickService_SubmitPick_ExpiredToken(t *testing.T) {
	kickoff := time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)
	env := newPickEnv(t,
		[]round.Round{activeRound("r1", 1, 1, kickoff)},
		[]fixture.Fixture{roundFixture("f1", "r1", "ev-1", "Arsenal", "Chelsea", kickoff)},
		nil,
		[]picktoken.Token{pickToken("t1", "p1", "r1", "stale-token", env0Time())},
	)

	if _, err := env.service.SubmitPick(t.Context(), "stale-token", "Arsenal"); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

// env0Time is an instant safely before every test clock in this file.
func env0Time() time.Time {
	return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
}

func TestPickService_SubmitPick_TeamNotInRound(t *testing.T) {
	kickoff := time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)
	env := newPickEnv(t,
		[]round.Round{activeRound("r1", 1, 1, kickoff)},
		[]fixture.Fixture{roundFixture("f1", "r1", "ev-1", "Arsenal", "Chelsea", kickoff)},
		nil,
		[]picktoken.Token{pickToken("t1", "p1", "r1", "secret-token", kickoff)},
	)

	if _, err := env.service.SubmitPick(t.Context(), "secret-token", "Barcelona"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestPickService_SubmitPick_TeamAlreadyUsedThisCycle(t *testing.T) {
	kickoff := time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)
	earlier := round.Round{ID: "r1", SequenceNumber: 1, CycleNumber: 1, Status: round.StatusCompleted}
	current := activeRound("r2", 2, 1, kickoff)
	env := newPickEnv(t,
		[]round.Round{earlier, current},
		[]fixture.Fixture{roundFixture("f1", "r2", "ev-1", "Arsenal", "Chelsea", kickoff)},
		[]pick.Pick{{ID: "pk0", PlayerID: "p1", RoundID: "r1", TeamPicked: "Arsenal"}},
		[]picktoken.Token{pickToken("t1", "p1", "r2", "secret-token", kickoff)},
	)

	if _, err := env.service.SubmitPick(t.Context(), "secret-token", "Arsenal"); !errors.Is(err, ErrTeamAlreadyUsed) {
		t.Fatalf("expected ErrTeamAlreadyUsed, got %v", err)
	}

	// Chelsea is untouched this cycle and goes through.
	if _, err := env.service.SubmitPick(t.Context(), "secret-token", "Chelsea"); err != nil {
		t.Fatalf("submit unused team: %v", err)
	}
}

func TestPickService_SubmitPick_RolloverUnlocksTeams(t *testing.T) {
	// The old pick sits on a cycle-1 round; the current round is cycle 2,
	// so the same team is pickable again.
	kickoff := time.Date(2026, 4, 4, 15, 0, 0, 0, time.UTC)
	terminated := round.Round{ID: "r1", SequenceNumber: 1, CycleNumber: 1, Status: round.StatusCompleted, SpecialMeasure: round.MeasureEarlyTerminated}
	current := activeRound("r2", 2, 2, kickoff)
	env := newPickEnv(t,
		[]round.Round{terminated, current},
		[]fixture.Fixture{roundFixture("f1", "r2", "ev-1", "Arsenal", "Chelsea", kickoff)},
		[]pick.Pick{{ID: "pk0", PlayerID: "p1", RoundID: "r1", TeamPicked: "Arsenal", IsEliminated: true}},
		[]picktoken.Token{pickToken("t1", "p1", "r2", "secret-token", kickoff)},
	)

	submitted, err := env.service.SubmitPick(t.Context(), "secret-token", "Arsenal")
	if err != nil {
		t.Fatalf("submit after rollover: %v", err)
	}
	if submitted.TeamPicked != "Arsenal" {
		t.Fatalf("unexpected pick: %+v", submitted)
	}
}

func TestPickService_SubmitPick_SettledPickIsImmutable(t *testing.T) {
	kickoff := time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)
	won := true
	env := newPickEnv(t,
		[]round.Round{activeRound("r1", 1, 1, kickoff)},
		[]fixture.Fixture{roundFixture("f1", "r1", "ev-1", "Arsenal", "Chelsea", kickoff)},
		[]pick.Pick{{ID: "pk0", PlayerID: "p1", RoundID: "r1", TeamPicked: "Arsenal", IsWinner: &won}},
		[]picktoken.Token{pickToken("t1", "p1", "r1", "secret-token", kickoff)},
	)

	if _, err := env.service.SubmitPick(t.Context(), "secret-token", "Chelsea"); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict for settled pick, got %v", err)
	}
}

func TestPickService_SubmitPick_TerminatedAndCompletedRounds(t *testing.T) {
	kickoff := time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)
	terminated := round.Round{ID: "r1", SequenceNumber: 1, CycleNumber: 1, Status: round.StatusCompleted, SpecialMeasure: round.MeasureEarlyTerminated}
	completed := round.Round{ID: "r2", SequenceNumber: 2, CycleNumber: 1, Status: round.StatusCompleted}
	env := newPickEnv(t,
		[]round.Round{terminated, completed},
		[]fixture.Fixture{roundFixture("f1", "r2", "ev-1", "Arsenal", "Chelsea", kickoff)},
		nil,
		[]picktoken.Token{
			pickToken("t1", "p1", "r1", "token-terminated", kickoff),
			pickToken("t2", "p1", "r2", "token-completed", kickoff),
		},
	)

	if _, err := env.service.SubmitPick(t.Context(), "token-terminated", "Arsenal"); !errors.Is(err, ErrTerminatedRound) {
		t.Fatalf("expected ErrTerminatedRound, got %v", err)
	}
	if _, err := env.service.SubmitPick(t.Context(), "token-completed", "Arsenal"); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

package usecase_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/dmoloney/lastmanstanding/internal/domain/round"
	"github.com/dmoloney/lastmanstanding/internal/infrastructure/repository/memory"
	usecasemock "github.com/dmoloney/lastmanstanding/internal/mocks/usecase"
	"github.com/dmoloney/lastmanstanding/internal/platform/id"
	"github.com/dmoloney/lastmanstanding/internal/platform/logging"
	"github.com/dmoloney/lastmanstanding/internal/usecase"
)

func TestNextRoundService_EnsureNextRound_UsingMockery(t *testing.T) {
	t.Parallel()

	provider := usecasemock.NewFixtureProvider(t)
	kickoff := time.Date(2026, 3, 21, 15, 0, 0, 0, time.UTC)
	provider.
		On("UpcomingFixtures", mock.Anything, 45*24*time.Hour).
		Return([]usecase.ExternalFixture{
			{EventID: "ev-29a", Matchday: 29, HomeTeam: "Brighton", AwayTeam: "Wolves", KickoffAt: kickoff},
		}, nil).
		Once()

	ref := round.Round{ID: "r1", SequenceNumber: 1, CycleNumber: 1, Matchday: intRef(28), Status: round.StatusCompleted, SpecialMeasure: round.MeasureEarlyTerminated}
	roundRepo := memory.NewRoundRepository([]round.Round{ref})
	fixtureRepo := memory.NewFixtureRepository(nil)

	service := usecase.NewNextRoundService(roundRepo, fixtureRepo, provider, usecase.NopTxManager{}, id.NewRandomGenerator(), logging.NewNop(), 0)

	next, err := service.EnsureNextRound(t.Context(), ref, 2)
	if err != nil {
		t.Fatalf("ensure next round: %v", err)
	}
	if next == nil || next.Matchday == nil || *next.Matchday != 29 {
		t.Fatalf("unexpected next round: %+v", next)
	}
	if next.Status != round.StatusActive {
		t.Fatalf("status: got=%s want=%s", next.Status, round.StatusActive)
	}
}

func intRef(v int) *int { return &v }

package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/dmoloney/lastmanstanding/internal/domain/pick"
	"github.com/dmoloney/lastmanstanding/internal/domain/player"
	"github.com/dmoloney/lastmanstanding/internal/domain/round"
	"github.com/dmoloney/lastmanstanding/internal/infrastructure/repository/memory"
	"github.com/dmoloney/lastmanstanding/internal/platform/logging"
)

func newPlayerService(playerRepo *memory.PlayerRepository, pickRepo *memory.PickRepository, tokenRepo *memory.PickTokenRepository, roundRepo *memory.RoundRepository, fixtureRepo *memory.FixtureRepository) *PlayerService {
	return NewPlayerService(playerRepo, pickRepo, tokenRepo, roundRepo, fixtureRepo, NopTxManager{}, &seqIDGenerator{prefix: "pl"}, logging.NewNop())
}

func TestPlayerService_CreatePlayer(t *testing.T) {
	playerRepo := memory.NewPlayerRepository(nil)
	roundRepo := memory.NewRoundRepository(nil)
	service := newPlayerService(playerRepo, memory.NewPickRepository(nil, roundRepo), memory.NewPickTokenRepository(nil), roundRepo, memory.NewFixtureRepository(nil))

	created, err := service.CreatePlayer(t.Context(), "  Dave  ", "+3538711")
	if err != nil {
		t.Fatalf("create player: %v", err)
	}
	if created.Name != "Dave" {
		t.Fatalf("name not trimmed: %q", created.Name)
	}
	if created.Status != player.StatusActive {
		t.Fatalf("new players start active, got %s", created.Status)
	}

	if _, err := service.CreatePlayer(t.Context(), "Imposter", "+3538711"); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict for duplicate phone, got %v", err)
	}
	if _, err := service.CreatePlayer(t.Context(), "   ", ""); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for blank name, got %v", err)
	}
}

func TestPlayerService_CreatePlayersBulk(t *testing.T) {
	playerRepo := memory.NewPlayerRepository([]player.Player{{ID: "p1", Name: "Alice", Phone: "+3531000", Status: player.StatusActive}})
	roundRepo := memory.NewRoundRepository(nil)
	service := newPlayerService(playerRepo, memory.NewPickRepository(nil, roundRepo), memory.NewPickTokenRepository(nil), roundRepo, memory.NewFixtureRepository(nil))

	summary, err := service.CreatePlayersBulk(t.Context(), []PlayerDraft{
		{Name: " Bob ", Phone: "+3532000"},
		{Name: "Alice"},
		{Name: "", Phone: "+3533000"},
		{Name: "Carol", Phone: "+3532000"},
		{Name: "Dave"},
	})
	if err != nil {
		t.Fatalf("bulk create: %v", err)
	}
	if len(summary.Created) != 2 {
		t.Fatalf("created: got=%d want=2 (%+v)", len(summary.Created), summary)
	}
	if summary.Created[0].Name != "Bob" || summary.Created[1].Name != "Dave" {
		t.Fatalf("unexpected created entries: %+v", summary.Created)
	}
	if len(summary.Skipped) != 3 {
		t.Fatalf("skipped: got=%d want=3 (%v)", len(summary.Skipped), summary.Skipped)
	}

	players, err := playerRepo.List(t.Context())
	if err != nil {
		t.Fatalf("list players: %v", err)
	}
	if len(players) != 3 {
		t.Fatalf("pool size after bulk create: got=%d want=3", len(players))
	}

	if _, err := service.CreatePlayersBulk(t.Context(), nil); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty batch, got %v", err)
	}
}

func TestPlayerService_UpdatePlayerStatus(t *testing.T) {
	playerRepo := memory.NewPlayerRepository([]player.Player{{ID: "p1", Name: "Alice", Status: player.StatusActive}})
	roundRepo := memory.NewRoundRepository(nil)
	service := newPlayerService(playerRepo, memory.NewPickRepository(nil, roundRepo), memory.NewPickTokenRepository(nil), roundRepo, memory.NewFixtureRepository(nil))

	updated, err := service.UpdatePlayerStatus(t.Context(), "p1", player.StatusEliminated)
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if updated.Status != player.StatusEliminated {
		t.Fatalf("status not applied: %s", updated.Status)
	}

	if _, err := service.UpdatePlayerStatus(t.Context(), "p1", "zombie"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown status, got %v", err)
	}
	if _, err := service.UpdatePlayerStatus(t.Context(), "ghost", player.StatusActive); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPlayerService_DeletePlayer_RefusesWithPicks(t *testing.T) {
	playerRepo := memory.NewPlayerRepository([]player.Player{
		{ID: "p1", Name: "Alice", Status: player.StatusActive},
		{ID: "p2", Name: "Bob", Status: player.StatusActive},
	})
	roundRepo := memory.NewRoundRepository(nil)
	pickRepo := memory.NewPickRepository([]pick.Pick{{ID: "pk1", PlayerID: "p1", RoundID: "r1", TeamPicked: "Arsenal"}}, roundRepo)
	service := newPlayerService(playerRepo, pickRepo, memory.NewPickTokenRepository(nil), roundRepo, memory.NewFixtureRepository(nil))

	if err := service.DeletePlayer(t.Context(), "p1"); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict for player with picks, got %v", err)
	}
	if err := service.DeletePlayer(t.Context(), "p2"); err != nil {
		t.Fatalf("delete pickless player: %v", err)
	}

	if _, ok, err := playerRepo.GetByID(t.Context(), "p2"); err != nil || ok {
		t.Fatalf("player not deleted: ok=%t err=%v", ok, err)
	}
}

func TestPlayerService_ResetPool(t *testing.T) {
	kickoff := time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)
	playerRepo := memory.NewPlayerRepository([]player.Player{
		{ID: "p1", Name: "Alice", Status: player.StatusWinner},
		{ID: "p2", Name: "Bob", Status: player.StatusEliminated},
	})
	roundRepo := memory.NewRoundRepository([]round.Round{activeRound("r1", 1, 1, kickoff)})
	pickRepo := memory.NewPickRepository([]pick.Pick{{ID: "pk1", PlayerID: "p1", RoundID: "r1", TeamPicked: "Arsenal"}}, roundRepo)
	fixtureRepo := memory.NewFixtureRepository(nil)
	service := newPlayerService(playerRepo, pickRepo, memory.NewPickTokenRepository(nil), roundRepo, fixtureRepo)

	if err := service.ResetPool(t.Context()); err != nil {
		t.Fatalf("reset pool: %v", err)
	}

	rounds, err := roundRepo.List(t.Context())
	if err != nil {
		t.Fatalf("list rounds: %v", err)
	}
	if len(rounds) != 0 {
		t.Fatalf("rounds must be wiped, got %d", len(rounds))
	}

	picks, err := pickRepo.ListByRound(t.Context(), "r1")
	if err != nil {
		t.Fatalf("list picks: %v", err)
	}
	if len(picks) != 0 {
		t.Fatalf("picks must be wiped, got %d", len(picks))
	}

	actives, err := playerRepo.ListByStatus(t.Context(), player.StatusActive)
	if err != nil {
		t.Fatalf("list active players: %v", err)
	}
	if len(actives) != 2 {
		t.Fatalf("every player must be reactivated, got %d", len(actives))
	}
}

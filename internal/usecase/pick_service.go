package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/dmoloney/lastmanstanding/internal/domain/fixture"
	"github.com/dmoloney/lastmanstanding/internal/domain/pick"
	"github.com/dmoloney/lastmanstanding/internal/domain/picktoken"
	"github.com/dmoloney/lastmanstanding/internal/domain/round"
	idgen "github.com/dmoloney/lastmanstanding/internal/platform/id"
	"github.com/dmoloney/lastmanstanding/internal/platform/logging"
)

// PickService records and validates player team selections. Submissions are
// authorised by pick tokens; team uniqueness is enforced per cycle, so a
// rollover deliberately unlocks previously used teams.
type PickService struct {
	pickRepo    pick.Repository
	tokenRepo   picktoken.Repository
	roundRepo   round.Repository
	fixtureRepo fixture.Repository
	tx          TxManager
	ids         idgen.Generator
	logger      *logging.Logger
	now         func() time.Time
}

func NewPickService(
	pickRepo pick.Repository,
	tokenRepo picktoken.Repository,
	roundRepo round.Repository,
	fixtureRepo fixture.Repository,
	tx TxManager,
	ids idgen.Generator,
	logger *logging.Logger,
) *PickService {
	if logger == nil {
		logger = logging.Default()
	}
	return &PickService{
		pickRepo:    pickRepo,
		tokenRepo:   tokenRepo,
		roundRepo:   roundRepo,
		fixtureRepo: fixtureRepo,
		tx:          tx,
		ids:         ids,
		logger:      logger,
		now:         time.Now,
	}
}

// SubmitPick creates or edits the token holder's pick for the token's
// round. Each accepted submission consumes one token edit; exhausting the
// edit limit makes the pick read-only for that token.
func (s *PickService) SubmitPick(ctx context.Context, tokenValue, team string) (pick.Pick, error) {
	if team == "" {
		return pick.Pick{}, fmt.Errorf("%w: team is required", ErrInvalidInput)
	}

	var submitted pick.Pick
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		now := s.now()

		tok, ok, err := s.tokenRepo.GetByValue(ctx, tokenValue)
		if err != nil {
			return fmt.Errorf("get token: %w", err)
		}
		if !ok || !tok.IsValid(now) {
			return fmt.Errorf("%w: token expired or edit limit reached", ErrTokenInvalid)
		}

		item, ok, err := s.roundRepo.GetByID(ctx, tok.RoundID)
		if err != nil {
			return fmt.Errorf("get round: %w", err)
		}
		if !ok {
			return fmt.Errorf("%w: round=%s", ErrNotFound, tok.RoundID)
		}
		if item.IsTerminated() {
			return fmt.Errorf("%w: round %d", ErrTerminatedRound, item.SequenceNumber)
		}
		if item.Status == round.StatusCompleted {
			return fmt.Errorf("%w: round %d is already completed", ErrConflict, item.SequenceNumber)
		}

		fixtures, err := s.fixtureRepo.ListByRound(ctx, item.ID)
		if err != nil {
			return fmt.Errorf("list round fixtures: %w", err)
		}
		if !teamInFixtures(team, fixtures) {
			return fmt.Errorf("%w: %q is not playing in round %d", ErrInvalidInput, team, item.SequenceNumber)
		}

		cyclePicks, err := s.pickRepo.ListByPlayerAndCycle(ctx, tok.PlayerID, item.CycleNumber)
		if err != nil {
			return fmt.Errorf("list cycle picks: %w", err)
		}
		for _, p := range cyclePicks {
			if p.RoundID != item.ID && p.TeamPicked == team {
				return fmt.Errorf("%w: %q was already picked this cycle", ErrTeamAlreadyUsed, team)
			}
		}

		existing, ok, err := s.pickRepo.GetByPlayerAndRound(ctx, tok.PlayerID, item.ID)
		if err != nil {
			return fmt.Errorf("get pick: %w", err)
		}
		if ok {
			if existing.Settled() {
				return fmt.Errorf("%w: pick already settled", ErrConflict)
			}
			existing.TeamPicked = team
			existing.AutoAssigned = false
			existing.AutoReason = ""
			existing.LastEditedAt = &now
			if err := s.pickRepo.Update(ctx, existing); err != nil {
				return fmt.Errorf("update pick: %w", err)
			}
			submitted = existing
		} else {
			id, err := s.ids.NewID()
			if err != nil {
				return fmt.Errorf("generate pick id: %w", err)
			}
			created := pick.Pick{
				ID:          id,
				PlayerID:    tok.PlayerID,
				RoundID:     item.ID,
				TeamPicked:  team,
				SubmittedAt: now,
			}
			if err := s.pickRepo.Create(ctx, created); err != nil {
				return fmt.Errorf("create pick: %w", err)
			}
			submitted = created
		}

		tok.MarkUsed(now)
		if err := s.tokenRepo.Update(ctx, tok); err != nil {
			return fmt.Errorf("consume token edit: %w", err)
		}

		s.logger.InfoContext(ctx, "pick submitted",
			"player_id", tok.PlayerID, "round_sequence", item.SequenceNumber,
			"team", team, "edits_used", tok.EditCount)
		return nil
	})
	if err != nil {
		return pick.Pick{}, err
	}

	return submitted, nil
}

func (s *PickService) ListRoundPicks(ctx context.Context, roundID string) ([]pick.Pick, error) {
	picks, err := s.pickRepo.ListByRound(ctx, roundID)
	if err != nil {
		return nil, fmt.Errorf("list round picks: %w", err)
	}
	return picks, nil
}

func (s *PickService) ListPlayerPicks(ctx context.Context, playerID string) ([]pick.Pick, error) {
	picks, err := s.pickRepo.ListByPlayer(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("list player picks: %w", err)
	}
	return picks, nil
}

func teamInFixtures(team string, fixtures []fixture.Fixture) bool {
	for _, f := range fixtures {
		if f.Involves(team) {
			return true
		}
	}
	return false
}

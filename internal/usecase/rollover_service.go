package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/dmoloney/lastmanstanding/internal/domain/fixture"
	"github.com/dmoloney/lastmanstanding/internal/domain/pick"
	"github.com/dmoloney/lastmanstanding/internal/domain/player"
	"github.com/dmoloney/lastmanstanding/internal/domain/round"
	"github.com/dmoloney/lastmanstanding/internal/platform/logging"
)

// RolloverOutcome reports what a rollover check decided and changed.
type RolloverOutcome struct {
	Triggered          bool
	Reason             string
	TerminatedRoundID  string
	TerminatedSequence int
	PlayersReactivated int
	NewCycleNumber     int
	RoundsRestamped    int
	NextRound          *round.Round
}

// RolloverService detects the everyone-eliminated state and restarts the
// pool as a new cycle: it terminates the reference round early, reactivates
// the whole eliminated pool, restamps any later rounds onto the new cycle
// number and hands off to the next-round creator.
type RolloverService struct {
	roundRepo   round.Repository
	fixtureRepo fixture.Repository
	pickRepo    pick.Repository
	playerRepo  player.Repository
	nextRound   *NextRoundService
	tx          TxManager
	logger      *logging.Logger
	now         func() time.Time
}

func NewRolloverService(
	roundRepo round.Repository,
	fixtureRepo fixture.Repository,
	pickRepo pick.Repository,
	playerRepo player.Repository,
	nextRound *NextRoundService,
	tx TxManager,
	logger *logging.Logger,
) *RolloverService {
	if logger == nil {
		logger = logging.Default()
	}
	return &RolloverService{
		roundRepo:   roundRepo,
		fixtureRepo: fixtureRepo,
		pickRepo:    pickRepo,
		playerRepo:  playerRepo,
		nextRound:   nextRound,
		tx:          tx,
		logger:      logger,
		now:         time.Now,
	}
}

// RunRolloverCheck resolves the reference round and runs the full check.
// Safe to call repeatedly: an untriggered check mutates nothing, and a
// pool that has already rolled over reports so instead of rolling again.
func (s *RolloverService) RunRolloverCheck(ctx context.Context) (RolloverOutcome, error) {
	return s.check(ctx, false)
}

// ForceRolloverCheck is RunRolloverCheck with the consistency check
// skipped. Operator escape hatch for a pool stuck in a state the safety
// rule does not recognise; the zero-active and any-eliminated triggers
// still apply.
func (s *RolloverService) ForceRolloverCheck(ctx context.Context) (RolloverOutcome, error) {
	return s.check(ctx, true)
}

func (s *RolloverService) check(ctx context.Context, force bool) (RolloverOutcome, error) {
	var outcome RolloverOutcome
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		ref, ok, err := s.referenceRound(ctx)
		if err != nil {
			return err
		}
		if !ok {
			outcome = RolloverOutcome{Reason: "no round eligible for rollover"}
			return nil
		}
		if ref.IsTerminated() {
			outcome = RolloverOutcome{Reason: fmt.Sprintf("round %d already rolled over", ref.SequenceNumber)}
			return nil
		}

		out, err := s.run(ctx, &ref, force)
		if err != nil {
			return err
		}
		outcome = out
		return nil
	})
	if err != nil {
		return RolloverOutcome{}, err
	}

	return outcome, nil
}

// runCheck runs the rollover against an already loaded reference round
// inside the caller's transaction. Result processing calls this directly
// so the termination and the results land atomically.
func (s *RolloverService) runCheck(ctx context.Context, ref *round.Round) (RolloverOutcome, error) {
	return s.run(ctx, ref, false)
}

func (s *RolloverService) run(ctx context.Context, ref *round.Round, force bool) (RolloverOutcome, error) {
	activeCount, err := s.playerRepo.CountByStatus(ctx, player.StatusActive)
	if err != nil {
		return RolloverOutcome{}, fmt.Errorf("count active players: %w", err)
	}
	if activeCount > 0 {
		return RolloverOutcome{Reason: fmt.Sprintf("%d players still active", activeCount)}, nil
	}

	eliminated, err := s.playerRepo.ListByStatus(ctx, player.StatusEliminated)
	if err != nil {
		return RolloverOutcome{}, fmt.Errorf("list eliminated players: %w", err)
	}
	if len(eliminated) == 0 {
		return RolloverOutcome{Reason: "no eliminated players to reactivate"}, nil
	}

	if !force {
		ok, err := s.eliminationBelongsToRound(ctx, *ref)
		if err != nil {
			return RolloverOutcome{}, err
		}
		if !ok {
			s.logger.WarnContext(ctx, "rollover safety check failed, refusing to roll over",
				"round_sequence", ref.SequenceNumber, "eliminated_players", len(eliminated))
			return RolloverOutcome{Reason: "eliminations not attributable to this round"}, nil
		}
	}

	// A round whose fixtures all carry results completed on its own; only
	// a round cut short gets the early-termination measure.
	fullyProcessed, err := s.roundFullyProcessed(ctx, ref.ID)
	if err != nil {
		return RolloverOutcome{}, err
	}
	if !fullyProcessed {
		ref.Status = round.StatusCompleted
		ref.SpecialMeasure = round.MeasureEarlyTerminated
		if ref.Note != "" {
			ref.Note += "; "
		}
		ref.Note += "terminated early, all players eliminated"
		if err := s.roundRepo.Update(ctx, *ref); err != nil {
			return RolloverOutcome{}, fmt.Errorf("terminate round: %w", err)
		}
	} else if ref.Status != round.StatusCompleted {
		ref.Status = round.StatusCompleted
		if err := s.roundRepo.Update(ctx, *ref); err != nil {
			return RolloverOutcome{}, fmt.Errorf("complete round: %w", err)
		}
	}

	reactivated, err := s.playerRepo.UpdateStatusAll(ctx, player.StatusEliminated, player.StatusActive)
	if err != nil {
		return RolloverOutcome{}, fmt.Errorf("reactivate eliminated players: %w", err)
	}

	newCycle := ref.CycleNumber + 1
	restamped, err := s.roundRepo.RestampCycleAfter(ctx, ref.SequenceNumber, newCycle)
	if err != nil {
		return RolloverOutcome{}, fmt.Errorf("restamp later rounds to cycle %d: %w", newCycle, err)
	}

	next, err := s.nextRound.EnsureNextRound(ctx, *ref, newCycle)
	if err != nil {
		return RolloverOutcome{}, err
	}

	outcome := RolloverOutcome{
		Triggered:          true,
		Reason:             "all players eliminated",
		TerminatedRoundID:  ref.ID,
		TerminatedSequence: ref.SequenceNumber,
		PlayersReactivated: reactivated,
		NewCycleNumber:     newCycle,
		RoundsRestamped:    restamped,
	}
	if next != nil {
		outcome.NextRound = next
	}

	s.logger.InfoContext(ctx, "rollover complete",
		"terminated_sequence", ref.SequenceNumber,
		"new_cycle", newCycle,
		"players_reactivated", reactivated,
		"rounds_restamped", restamped)

	return outcome, nil
}

// eliminationBelongsToRound guards against rolling over on stale player
// state. The wipe-out must be explainable by the reference round: one of
// its picks is marked eliminated, or its first kickoff has passed so
// eliminations could plausibly have come from its fixtures. An unsettled
// pick proves nothing; player status alone can be stale.
func (s *RolloverService) eliminationBelongsToRound(ctx context.Context, ref round.Round) (bool, error) {
	picks, err := s.pickRepo.ListByRound(ctx, ref.ID)
	if err != nil {
		return false, fmt.Errorf("list round picks: %w", err)
	}
	for _, p := range picks {
		if p.IsEliminated {
			return true, nil
		}
	}

	if ref.FirstKickoffAt != nil && s.now().After(*ref.FirstKickoffAt) {
		return true, nil
	}

	return false, nil
}

// roundFullyProcessed reports whether every fixture of the round already
// carries a result.
func (s *RolloverService) roundFullyProcessed(ctx context.Context, roundID string) (bool, error) {
	fixtures, err := s.fixtureRepo.ListByRound(ctx, roundID)
	if err != nil {
		return false, fmt.Errorf("list round fixtures: %w", err)
	}
	if len(fixtures) == 0 {
		return false, nil
	}
	for _, f := range fixtures {
		if f.Status != fixture.StatusCompleted {
			return false, nil
		}
	}
	return true, nil
}

// referenceRound picks the round a standalone check should judge: the
// current active round if one exists, otherwise the most recently
// completed one.
func (s *RolloverService) referenceRound(ctx context.Context) (round.Round, bool, error) {
	actives, err := s.roundRepo.ListActive(ctx)
	if err != nil {
		return round.Round{}, false, fmt.Errorf("list active rounds: %w", err)
	}
	if len(actives) > 0 {
		return actives[0], true, nil
	}

	latest, ok, err := s.roundRepo.LatestCompleted(ctx)
	if err != nil {
		return round.Round{}, false, fmt.Errorf("latest completed round: %w", err)
	}
	return latest, ok, nil
}

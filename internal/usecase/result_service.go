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

// FixtureResult is one submitted outcome, keyed by the fixture's provider
// event id.
type FixtureResult struct {
	EventID   string
	HomeScore int
	AwayScore int
}

// ResultSummary reports what one ApplyResults call changed.
type ResultSummary struct {
	FixturesApplied   int
	PicksSettled      int
	PlayersEliminated int
	RoundCompleted    bool
	WinnerPlayerID    string
	RolloverTriggered bool
	Rollover          *RolloverOutcome
}

// ResultService applies fixture outcomes to picks and player status and
// decides round completion. All mutations of one call share a transaction.
type ResultService struct {
	roundRepo   round.Repository
	fixtureRepo fixture.Repository
	pickRepo    pick.Repository
	playerRepo  player.Repository
	rollover    *RolloverService
	tx          TxManager
	logger      *logging.Logger
	now         func() time.Time
}

func NewResultService(
	roundRepo round.Repository,
	fixtureRepo fixture.Repository,
	pickRepo pick.Repository,
	playerRepo player.Repository,
	rollover *RolloverService,
	tx TxManager,
	logger *logging.Logger,
) *ResultService {
	if logger == nil {
		logger = logging.Default()
	}
	return &ResultService{
		roundRepo:   roundRepo,
		fixtureRepo: fixtureRepo,
		pickRepo:    pickRepo,
		playerRepo:  playerRepo,
		rollover:    rollover,
		tx:          tx,
		logger:      logger,
		now:         time.Now,
	}
}

// ApplyResults writes the submitted scores onto the round's fixtures and
// settles every pick naming one of the affected teams. Results against an
// early-terminated round are rejected outright: they would corrupt
// post-rollover state. Re-applying identical results is a no-op; diverging
// results against an already completed fixture are a conflict.
func (s *ResultService) ApplyResults(ctx context.Context, roundID string, results []FixtureResult) (ResultSummary, error) {
	if len(results) == 0 {
		return ResultSummary{}, fmt.Errorf("%w: at least one fixture result is required", ErrInvalidInput)
	}

	var summary ResultSummary
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		item, ok, err := s.roundRepo.GetByID(ctx, roundID)
		if err != nil {
			return fmt.Errorf("get round: %w", err)
		}
		if !ok {
			return fmt.Errorf("%w: round=%s", ErrNotFound, roundID)
		}
		if item.IsTerminated() {
			return fmt.Errorf("%w: round %d no longer accepts results", ErrTerminatedRound, item.SequenceNumber)
		}

		fixtures, err := s.fixtureRepo.ListByRound(ctx, roundID)
		if err != nil {
			return fmt.Errorf("list round fixtures: %w", err)
		}
		byEvent := make(map[string]*fixture.Fixture, len(fixtures))
		for i := range fixtures {
			byEvent[fixtures[i].EventID] = &fixtures[i]
		}

		if item.Status == round.StatusCompleted {
			// Safe no-op only when every submitted result matches what
			// is already stored.
			for _, res := range results {
				f, ok := byEvent[res.EventID]
				if !ok || !sameResult(*f, res) {
					return fmt.Errorf("%w: round %d is already completed", ErrConflict, item.SequenceNumber)
				}
			}
			return nil
		}

		picks, err := s.pickRepo.ListByRound(ctx, roundID)
		if err != nil {
			return fmt.Errorf("list round picks: %w", err)
		}

		for _, res := range results {
			f, ok := byEvent[res.EventID]
			if !ok {
				return fmt.Errorf("%w: unknown fixture event %q for round %d", ErrInvalidInput, res.EventID, item.SequenceNumber)
			}
			if res.HomeScore < 0 || res.AwayScore < 0 {
				return fmt.Errorf("%w: scores must be >= 0 for event %q", ErrInvalidInput, res.EventID)
			}

			if f.Status == fixture.StatusCompleted {
				if sameResult(*f, res) {
					continue
				}
				return fmt.Errorf("%w: fixture %s vs %s already has a different result", ErrConflict, f.HomeTeam, f.AwayTeam)
			}

			home, away := res.HomeScore, res.AwayScore
			f.HomeScore, f.AwayScore = &home, &away
			f.Status = fixture.StatusCompleted
			if err := s.fixtureRepo.UpdateResult(ctx, f.ID, home, away, fixture.StatusCompleted); err != nil {
				return fmt.Errorf("update fixture result: %w", err)
			}
			summary.FixturesApplied++

			settled, eliminated, err := s.settlePicks(ctx, *f, picks)
			if err != nil {
				return err
			}
			summary.PicksSettled += settled
			summary.PlayersEliminated += eliminated
		}

		completedCount := 0
		for _, f := range fixtures {
			if f.Status == fixture.StatusCompleted {
				completedCount++
			}
		}
		if completedCount == len(fixtures) && len(fixtures) > 0 {
			item.Status = round.StatusCompleted
			if err := s.roundRepo.Update(ctx, item); err != nil {
				return fmt.Errorf("complete round: %w", err)
			}
			summary.RoundCompleted = true
		}

		if summary.PlayersEliminated == 0 {
			return nil
		}

		activeCount, err := s.playerRepo.CountByStatus(ctx, player.StatusActive)
		if err != nil {
			return fmt.Errorf("count active players: %w", err)
		}

		switch {
		case activeCount == 1:
			survivors, err := s.playerRepo.ListByStatus(ctx, player.StatusActive)
			if err != nil {
				return fmt.Errorf("list active players: %w", err)
			}
			if len(survivors) == 1 {
				if err := s.playerRepo.UpdateStatus(ctx, survivors[0].ID, player.StatusWinner); err != nil {
					return fmt.Errorf("promote winner: %w", err)
				}
				summary.WinnerPlayerID = survivors[0].ID
				s.logger.InfoContext(ctx, "last player standing",
					"player_id", survivors[0].ID, "round_sequence", item.SequenceNumber)
			}
		case activeCount == 0:
			outcome, err := s.rollover.runCheck(ctx, &item)
			if err != nil {
				return err
			}
			summary.RolloverTriggered = outcome.Triggered
			summary.Rollover = &outcome
			if outcome.Triggered {
				summary.RoundCompleted = true
			}
		}

		return nil
	})
	if err != nil {
		return ResultSummary{}, err
	}

	return summary, nil
}

// settlePicks fixes IsWinner/IsEliminated on every unsettled pick that
// names either side of the fixture. A draw eliminates both sides' pickers.
func (s *ResultService) settlePicks(ctx context.Context, f fixture.Fixture, picks []pick.Pick) (settled, eliminated int, err error) {
	winner, _ := f.WinningTeam()

	for i := range picks {
		p := &picks[i]
		if !f.Involves(p.TeamPicked) || p.Settled() {
			continue
		}

		isWin := winner != "" && p.TeamPicked == winner
		p.IsWinner = &isWin
		if !isWin {
			p.IsEliminated = true
		}
		if err := s.pickRepo.Update(ctx, *p); err != nil {
			return settled, eliminated, fmt.Errorf("settle pick for player %s: %w", p.PlayerID, err)
		}
		settled++

		if isWin {
			continue
		}

		entrant, ok, err := s.playerRepo.GetByID(ctx, p.PlayerID)
		if err != nil {
			return settled, eliminated, fmt.Errorf("get player %s: %w", p.PlayerID, err)
		}
		if ok && entrant.Status == player.StatusActive {
			if err := s.playerRepo.UpdateStatus(ctx, entrant.ID, player.StatusEliminated); err != nil {
				return settled, eliminated, fmt.Errorf("eliminate player %s: %w", entrant.ID, err)
			}
			eliminated++
		}
	}

	return settled, eliminated, nil
}

func sameResult(f fixture.Fixture, res FixtureResult) bool {
	return f.HomeScore != nil && f.AwayScore != nil &&
		*f.HomeScore == res.HomeScore && *f.AwayScore == res.AwayScore
}

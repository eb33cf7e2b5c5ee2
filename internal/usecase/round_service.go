package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/dmoloney/lastmanstanding/internal/domain/fixture"
	"github.com/dmoloney/lastmanstanding/internal/domain/round"
	idgen "github.com/dmoloney/lastmanstanding/internal/platform/id"
	"github.com/dmoloney/lastmanstanding/internal/platform/logging"
)

// RoundService creates, activates and queries rounds, and owns the
// single-active-round invariant and cycle-number derivation.
type RoundService struct {
	roundRepo   round.Repository
	fixtureRepo fixture.Repository
	provider    FixtureProvider
	tx          TxManager
	ids         idgen.Generator
	logger      *logging.Logger
	now         func() time.Time
}

func NewRoundService(
	roundRepo round.Repository,
	fixtureRepo fixture.Repository,
	provider FixtureProvider,
	tx TxManager,
	ids idgen.Generator,
	logger *logging.Logger,
) *RoundService {
	if logger == nil {
		logger = logging.Default()
	}
	return &RoundService{
		roundRepo:   roundRepo,
		fixtureRepo: fixtureRepo,
		provider:    provider,
		tx:          tx,
		ids:         ids,
		logger:      logger,
		now:         time.Now,
	}
}

// CreateRound opens a new pending round for the given matchday. When
// cycleOverride is nil the cycle number is derived: the successor of an
// early-terminated final round starts the next cycle, otherwise the current
// maximum cycle is reused. Re-creating a matchday that already has a live
// round in the cycle returns that round unchanged; a different active round
// is a conflict.
func (s *RoundService) CreateRound(ctx context.Context, matchday int, cycleOverride *int) (round.Round, error) {
	if matchday <= 0 {
		return round.Round{}, fmt.Errorf("%w: matchday must be > 0", ErrInvalidInput)
	}

	var created round.Round
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		cycle, err := s.deriveCycle(ctx, cycleOverride)
		if err != nil {
			return err
		}

		if existing, ok, err := s.liveRoundForMatchday(ctx, matchday, cycle); err != nil {
			return err
		} else if ok {
			created = existing
			return nil
		}

		maxSeq, err := s.roundRepo.MaxSequence(ctx)
		if err != nil {
			return fmt.Errorf("max round sequence: %w", err)
		}
		sequence := maxSeq + 1

		actives, err := s.roundRepo.ListActive(ctx)
		if err != nil {
			return fmt.Errorf("list active rounds: %w", err)
		}
		if len(actives) > 0 {
			created = actives[0]
			return fmt.Errorf("%w: round %d is already active", ErrConflict, actives[0].SequenceNumber)
		}

		md := matchday
		item := round.Round{
			SequenceNumber: sequence,
			CycleNumber:    cycle,
			Matchday:       &md,
			Status:         round.StatusPending,
		}
		item.ID, err = s.ids.NewID()
		if err != nil {
			return fmt.Errorf("generate round id: %w", err)
		}

		fixtures, degraded, err := s.PopulateFixtures(ctx, item.ID, matchday)
		if err != nil {
			return err
		}
		if degraded {
			item.Note = "fixtures unavailable from provider, fallback list loaded"
		}
		if kickoff, ok := fixture.EarliestKickoff(fixtures); ok {
			item.FirstKickoffAt = &kickoff
		}

		if err := s.roundRepo.Create(ctx, item); err != nil {
			return fmt.Errorf("create round: %w", err)
		}
		if err := s.fixtureRepo.CreateBatch(ctx, fixtures); err != nil {
			return fmt.Errorf("create round fixtures: %w", err)
		}

		created = item
		return nil
	})
	if err != nil {
		return created, err
	}

	return created, nil
}

// PopulateFixtures fetches the matchday's fixtures from the provider,
// degrading to the static fallback list when the provider errors or returns
// nothing. The bool return reports degraded mode.
func (s *RoundService) PopulateFixtures(ctx context.Context, roundID string, matchday int) ([]fixture.Fixture, bool, error) {
	external, err := s.provider.FixturesByMatchday(ctx, matchday)
	if err != nil || len(external) == 0 {
		s.logger.WarnContext(ctx, "fixture provider degraded, using fallback fixtures",
			"matchday", matchday, "error", err)
		fallback, ferr := fallbackFixtures(roundID, s.now(), s.ids)
		if ferr != nil {
			return nil, false, fmt.Errorf("build fallback fixtures: %w", ferr)
		}
		return fallback, true, nil
	}

	out := make([]fixture.Fixture, 0, len(external))
	for _, ext := range external {
		fid, err := s.ids.NewID()
		if err != nil {
			return nil, false, fmt.Errorf("generate fixture id: %w", err)
		}
		out = append(out, fixture.Fixture{
			ID:        fid,
			RoundID:   roundID,
			EventID:   ext.EventID,
			HomeTeam:  ext.HomeTeam,
			AwayTeam:  ext.AwayTeam,
			KickoffAt: ext.KickoffAt,
			HomeScore: ext.HomeScore,
			AwayScore: ext.AwayScore,
			Status:    fixture.NormalizeStatus(ext.Status),
		})
	}

	return out, false, nil
}

// ActivateRound promotes the round to active, demoting any other active
// round to completed so the single-active-round invariant holds.
func (s *RoundService) ActivateRound(ctx context.Context, roundID string) (round.Round, error) {
	var activated round.Round
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		item, ok, err := s.roundRepo.GetByID(ctx, roundID)
		if err != nil {
			return fmt.Errorf("get round: %w", err)
		}
		if !ok {
			return fmt.Errorf("%w: round=%s", ErrNotFound, roundID)
		}
		if item.IsTerminated() {
			return fmt.Errorf("%w: round %d", ErrTerminatedRound, item.SequenceNumber)
		}

		if err := s.demoteOtherActiveRounds(ctx, item.ID); err != nil {
			return err
		}

		if item.Status != round.StatusActive {
			item.Status = round.StatusActive
			if err := s.roundRepo.Update(ctx, item); err != nil {
				return fmt.Errorf("activate round: %w", err)
			}
		}

		activated = item
		return nil
	})
	if err != nil {
		return round.Round{}, err
	}

	return activated, nil
}

// CurrentActiveRound returns the active round with the highest cycle
// number. Finding more than one active round is an invariant violation; the
// extras are demoted to completed and a warning is logged so the read still
// yields a single valid round.
func (s *RoundService) CurrentActiveRound(ctx context.Context) (round.Round, error) {
	actives, err := s.roundRepo.ListActive(ctx)
	if err != nil {
		return round.Round{}, fmt.Errorf("list active rounds: %w", err)
	}

	switch len(actives) {
	case 0:
		return round.Round{}, fmt.Errorf("%w: no active round", ErrNotFound)
	case 1:
		return actives[0], nil
	}

	// ListActive orders by cycle then sequence descending, so the first
	// entry is the keeper.
	keeper := actives[0]
	s.logger.WarnContext(ctx, "multiple active rounds found, demoting extras",
		"count", len(actives), "kept_sequence", keeper.SequenceNumber, "kept_cycle", keeper.CycleNumber)

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		return s.demoteOtherActiveRounds(ctx, keeper.ID)
	})
	if err != nil {
		return round.Round{}, err
	}

	return keeper, nil
}

func (s *RoundService) GetRound(ctx context.Context, roundID string) (round.Round, []fixture.Fixture, error) {
	item, ok, err := s.roundRepo.GetByID(ctx, roundID)
	if err != nil {
		return round.Round{}, nil, fmt.Errorf("get round: %w", err)
	}
	if !ok {
		return round.Round{}, nil, fmt.Errorf("%w: round=%s", ErrNotFound, roundID)
	}

	fixtures, err := s.fixtureRepo.ListByRound(ctx, roundID)
	if err != nil {
		return round.Round{}, nil, fmt.Errorf("list round fixtures: %w", err)
	}

	return item, fixtures, nil
}

func (s *RoundService) ListRounds(ctx context.Context) ([]round.Round, error) {
	items, err := s.roundRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list rounds: %w", err)
	}
	return items, nil
}

func (s *RoundService) deriveCycle(ctx context.Context, override *int) (int, error) {
	if override != nil {
		if *override < 1 {
			return 0, fmt.Errorf("%w: cycle number must be >= 1", ErrInvalidInput)
		}
		return *override, nil
	}

	latest, ok, err := s.roundRepo.LatestCompleted(ctx)
	if err != nil {
		return 0, fmt.Errorf("latest completed round: %w", err)
	}
	if ok && latest.IsTerminated() {
		successors, err := s.roundRepo.ListPendingOrActiveAfter(ctx, latest.SequenceNumber)
		if err != nil {
			return 0, fmt.Errorf("list rounds after sequence %d: %w", latest.SequenceNumber, err)
		}
		if len(successors) == 0 {
			return latest.CycleNumber + 1, nil
		}
	}

	maxCycle, err := s.roundRepo.MaxCycle(ctx)
	if err != nil {
		return 0, fmt.Errorf("max cycle number: %w", err)
	}
	if maxCycle < 1 {
		maxCycle = 1
	}
	return maxCycle, nil
}

// liveRoundForMatchday finds a non-terminated round for the matchday in the
// given cycle. Matchday is the only creation key the caller controls, so it
// is what repeat requests are deduplicated on.
func (s *RoundService) liveRoundForMatchday(ctx context.Context, matchday, cycle int) (round.Round, bool, error) {
	rounds, err := s.roundRepo.List(ctx)
	if err != nil {
		return round.Round{}, false, fmt.Errorf("list rounds: %w", err)
	}
	for _, item := range rounds {
		if item.CycleNumber == cycle && item.Matchday != nil && *item.Matchday == matchday && !item.IsTerminated() {
			return item, true, nil
		}
	}
	return round.Round{}, false, nil
}

func (s *RoundService) demoteOtherActiveRounds(ctx context.Context, keepID string) error {
	actives, err := s.roundRepo.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("list active rounds: %w", err)
	}

	for _, item := range actives {
		if item.ID == keepID {
			continue
		}
		if err := s.roundRepo.UpdateStatus(ctx, item.ID, round.StatusCompleted); err != nil {
			return fmt.Errorf("demote round %d: %w", item.SequenceNumber, err)
		}
		s.logger.WarnContext(ctx, "demoted extra active round",
			"sequence", item.SequenceNumber, "cycle", item.CycleNumber)
	}

	return nil
}

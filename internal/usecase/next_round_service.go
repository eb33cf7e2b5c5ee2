package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/dmoloney/lastmanstanding/internal/domain/fixture"
	"github.com/dmoloney/lastmanstanding/internal/domain/round"
	idgen "github.com/dmoloney/lastmanstanding/internal/platform/id"
	"github.com/dmoloney/lastmanstanding/internal/platform/logging"
)

// DefaultNextRoundHorizon bounds how far ahead the creator looks for
// upcoming fixtures before declaring a season break.
const DefaultNextRoundHorizon = 45 * 24 * time.Hour

// NextRoundService creates or recovers the round that follows a finished
// one. Layered idempotency checks make it safe against retries and
// out-of-order operator actions; when the fixture calendar is exhausted it
// parks the pool in a season break instead of failing.
type NextRoundService struct {
	roundRepo   round.Repository
	fixtureRepo fixture.Repository
	provider    FixtureProvider
	tx          TxManager
	ids         idgen.Generator
	logger      *logging.Logger
	horizon     time.Duration
	now         func() time.Time
}

func NewNextRoundService(
	roundRepo round.Repository,
	fixtureRepo fixture.Repository,
	provider FixtureProvider,
	tx TxManager,
	ids idgen.Generator,
	logger *logging.Logger,
	horizon time.Duration,
) *NextRoundService {
	if logger == nil {
		logger = logging.Default()
	}
	if horizon <= 0 {
		horizon = DefaultNextRoundHorizon
	}
	return &NextRoundService{
		roundRepo:   roundRepo,
		fixtureRepo: fixtureRepo,
		provider:    provider,
		tx:          tx,
		ids:         ids,
		logger:      logger,
		horizon:     horizon,
		now:         time.Now,
	}
}

// EnsureNextRound creates the successor of ref on the given cycle, or
// returns whichever already-existing round makes creation redundant. The
// checks short-circuit in order:
//
//  1. a round already holds the exact (sequence, cycle) pair
//  2. a pending or active round after ref exists, restamped onto the new
//     cycle if it was created before the rollover ran
//  3. any other active round exists anywhere
//
// When none match, the provider's upcoming fixtures pick the next unused
// matchday; with no candidate the round is created suspended.
func (s *NextRoundService) EnsureNextRound(ctx context.Context, ref round.Round, cycle int) (*round.Round, error) {
	var result *round.Round
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		sequence := ref.SequenceNumber + 1

		if existing, ok, err := s.roundRepo.GetBySequenceAndCycle(ctx, sequence, cycle); err != nil {
			return fmt.Errorf("lookup round by sequence and cycle: %w", err)
		} else if ok {
			result = &existing
			return nil
		}

		successors, err := s.roundRepo.ListPendingOrActiveAfter(ctx, ref.SequenceNumber)
		if err != nil {
			return fmt.Errorf("list rounds after sequence %d: %w", ref.SequenceNumber, err)
		}
		if len(successors) > 0 {
			next := successors[0]
			if next.CycleNumber != cycle {
				if _, err := s.roundRepo.RestampCycleAfter(ctx, ref.SequenceNumber, cycle); err != nil {
					return fmt.Errorf("restamp round %d to cycle %d: %w", next.SequenceNumber, cycle, err)
				}
				next.CycleNumber = cycle
				s.logger.InfoContext(ctx, "restamped pre-rollover successor round",
					"sequence", next.SequenceNumber, "cycle", cycle)
			}
			result = &next
			return nil
		}

		actives, err := s.roundRepo.ListActive(ctx)
		if err != nil {
			return fmt.Errorf("list active rounds: %w", err)
		}
		if len(actives) > 0 {
			result = &actives[0]
			return nil
		}

		created, err := s.createNextRound(ctx, sequence, cycle)
		if err != nil {
			return err
		}
		result = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (s *NextRoundService) createNextRound(ctx context.Context, sequence, cycle int) (*round.Round, error) {
	item := round.Round{
		SequenceNumber: sequence,
		CycleNumber:    cycle,
	}
	var err error
	item.ID, err = s.ids.NewID()
	if err != nil {
		return nil, fmt.Errorf("generate round id: %w", err)
	}

	matchday, externals, ok, err := s.nextUnusedMatchday(ctx)
	if err != nil {
		// Provider failure never blocks the pool: park the round until a
		// later check succeeds.
		s.logger.WarnContext(ctx, "fixture provider unavailable, suspending next round",
			"sequence", sequence, "error", err)
		item.Status = round.StatusPending
		item.SpecialMeasure = round.MeasureWaitingForFixtures
		item.Note = "fixture provider unavailable at creation"
		if cerr := s.roundRepo.Create(ctx, item); cerr != nil {
			return nil, fmt.Errorf("create suspended round: %w", cerr)
		}
		return &item, nil
	}
	if !ok {
		item.Status = round.StatusPending
		item.SpecialMeasure = round.MeasureSeasonBreak
		item.Note = "no upcoming fixtures within horizon"
		if err := s.roundRepo.Create(ctx, item); err != nil {
			return nil, fmt.Errorf("create season break round: %w", err)
		}
		s.logger.InfoContext(ctx, "season break, round suspended",
			"sequence", sequence, "cycle", cycle)
		return &item, nil
	}

	fixtures, err := externalsToFixtures(item.ID, externals, s.ids)
	if err != nil {
		return nil, err
	}

	md := matchday
	item.Matchday = &md
	item.Status = round.StatusActive
	if kickoff, ok := fixture.EarliestKickoff(fixtures); ok {
		item.FirstKickoffAt = &kickoff
	}

	if err := s.roundRepo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("create next round: %w", err)
	}
	if err := s.fixtureRepo.CreateBatch(ctx, fixtures); err != nil {
		return nil, fmt.Errorf("create next round fixtures: %w", err)
	}

	s.logger.InfoContext(ctx, "next round created",
		"sequence", sequence, "cycle", cycle, "matchday", matchday, "fixtures", len(fixtures))

	return &item, nil
}

// ResumeIfFixturesAvailable re-checks fixture availability for a round
// parked in a season break or waiting for fixtures. On success the round
// gets its matchday and fixtures, loses the special measure and becomes
// active. The bool return reports whether a round was resumed.
func (s *NextRoundService) ResumeIfFixturesAvailable(ctx context.Context, roundID string) (round.Round, bool, error) {
	var resumed round.Round
	var didResume bool
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		item, ok, err := s.roundRepo.GetByID(ctx, roundID)
		if err != nil {
			return fmt.Errorf("get round: %w", err)
		}
		if !ok {
			return fmt.Errorf("%w: round=%s", ErrNotFound, roundID)
		}
		if !item.IsSuspended() {
			return fmt.Errorf("%w: round %d is not suspended", ErrInvalidInput, item.SequenceNumber)
		}

		matchday, externals, found, err := s.nextUnusedMatchday(ctx)
		if err != nil || !found {
			resumed = item
			return nil
		}

		fixtures, err := externalsToFixtures(item.ID, externals, s.ids)
		if err != nil {
			return err
		}

		md := matchday
		item.Matchday = &md
		item.Status = round.StatusActive
		item.SpecialMeasure = round.MeasureNone
		item.Note = ""
		if kickoff, ok := fixture.EarliestKickoff(fixtures); ok {
			item.FirstKickoffAt = &kickoff
		}

		if err := s.roundRepo.Update(ctx, item); err != nil {
			return fmt.Errorf("resume round: %w", err)
		}
		if err := s.fixtureRepo.CreateBatch(ctx, fixtures); err != nil {
			return fmt.Errorf("create resumed round fixtures: %w", err)
		}

		resumed = item
		didResume = true
		s.logger.InfoContext(ctx, "suspended round resumed",
			"sequence", item.SequenceNumber, "matchday", matchday)
		return nil
	})
	if err != nil {
		return round.Round{}, false, err
	}

	return resumed, didResume, nil
}

// CheckNewSeason scans for suspended rounds and tries to resume the first
// one. It is the periodic operator action that ends a season break once the
// new fixture calendar is published.
func (s *NextRoundService) CheckNewSeason(ctx context.Context) (round.Round, bool, error) {
	rounds, err := s.roundRepo.List(ctx)
	if err != nil {
		return round.Round{}, false, fmt.Errorf("list rounds: %w", err)
	}

	for _, item := range rounds {
		if item.IsSuspended() {
			return s.ResumeIfFixturesAvailable(ctx, item.ID)
		}
	}

	return round.Round{}, false, nil
}

// AvailableMatchdays lists provider matchdays not yet assigned to any
// round, ascending.
func (s *NextRoundService) AvailableMatchdays(ctx context.Context) ([]int, error) {
	all, err := s.provider.AvailableMatchdays(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list provider matchdays: %v", ErrDependencyUnavailable, err)
	}

	used, err := s.roundRepo.MatchdaysInUse(ctx)
	if err != nil {
		return nil, fmt.Errorf("matchdays in use: %w", err)
	}
	usedSet := make(map[int]struct{}, len(used))
	for _, md := range used {
		usedSet[md] = struct{}{}
	}

	out := make([]int, 0, len(all))
	for _, md := range all {
		if _, ok := usedSet[md]; !ok {
			out = append(out, md)
		}
	}
	sort.Ints(out)

	return out, nil
}

// nextUnusedMatchday groups the provider's upcoming fixtures by matchday
// and returns the lowest one not yet assigned to a round, with its
// fixtures. ok=false with a nil error means the calendar is exhausted.
func (s *NextRoundService) nextUnusedMatchday(ctx context.Context) (int, []ExternalFixture, bool, error) {
	upcoming, err := s.provider.UpcomingFixtures(ctx, s.horizon)
	if err != nil {
		return 0, nil, false, fmt.Errorf("upcoming fixtures: %w", err)
	}
	if len(upcoming) == 0 {
		return 0, nil, false, nil
	}

	used, err := s.roundRepo.MatchdaysInUse(ctx)
	if err != nil {
		return 0, nil, false, fmt.Errorf("matchdays in use: %w", err)
	}
	usedSet := make(map[int]struct{}, len(used))
	for _, md := range used {
		usedSet[md] = struct{}{}
	}

	byMatchday := make(map[int][]ExternalFixture)
	for _, ext := range upcoming {
		if ext.Matchday <= 0 {
			continue
		}
		if _, taken := usedSet[ext.Matchday]; taken {
			continue
		}
		byMatchday[ext.Matchday] = append(byMatchday[ext.Matchday], ext)
	}
	if len(byMatchday) == 0 {
		return 0, nil, false, nil
	}

	matchdays := make([]int, 0, len(byMatchday))
	for md := range byMatchday {
		matchdays = append(matchdays, md)
	}
	sort.Ints(matchdays)

	chosen := matchdays[0]
	return chosen, byMatchday[chosen], true, nil
}

// externalsToFixtures converts provider fixtures into stored ones for a
// round, assigning ids.
func externalsToFixtures(roundID string, externals []ExternalFixture, gen idGenerator) ([]fixture.Fixture, error) {
	out := make([]fixture.Fixture, 0, len(externals))
	for _, ext := range externals {
		fid, err := gen.NewID()
		if err != nil {
			return nil, fmt.Errorf("generate fixture id: %w", err)
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

	return out, nil
}

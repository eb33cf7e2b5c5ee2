package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/dmoloney/lastmanstanding/internal/domain/fixture"
	"github.com/dmoloney/lastmanstanding/internal/domain/pick"
	"github.com/dmoloney/lastmanstanding/internal/domain/player"
	"github.com/dmoloney/lastmanstanding/internal/domain/round"
	idgen "github.com/dmoloney/lastmanstanding/internal/platform/id"
	"github.com/dmoloney/lastmanstanding/internal/platform/logging"
)

// AutoPickAssignment is one planned or applied automatic pick.
type AutoPickAssignment struct {
	PlayerID string
	Team     string
	Reason   string
}

// AutoPickPlan reports what ApplyMissedPicks assigned, or would assign in
// dry-run mode. Unassignable lists players for whom no eligible team
// remained.
type AutoPickPlan struct {
	RoundID      string
	Cutoff       time.Time
	DryRun       bool
	Assignments  []AutoPickAssignment
	Unassignable []string
}

// AutoPickService assigns picks to active players who missed the round's
// submission cutoff.
type AutoPickService struct {
	pickRepo     pick.Repository
	playerRepo   player.Repository
	roundRepo    round.Repository
	fixtureRepo  fixture.Repository
	tx           TxManager
	ids          idgen.Generator
	logger       *logging.Logger
	deadlineLead time.Duration
	now          func() time.Time
}

func NewAutoPickService(
	pickRepo pick.Repository,
	playerRepo player.Repository,
	roundRepo round.Repository,
	fixtureRepo fixture.Repository,
	tx TxManager,
	ids idgen.Generator,
	logger *logging.Logger,
	deadlineLead time.Duration,
) *AutoPickService {
	if logger == nil {
		logger = logging.Default()
	}
	if deadlineLead <= 0 {
		deadlineLead = time.Hour
	}
	return &AutoPickService{
		pickRepo:     pickRepo,
		playerRepo:   playerRepo,
		roundRepo:    roundRepo,
		fixtureRepo:  fixtureRepo,
		tx:           tx,
		ids:          ids,
		logger:       logger,
		deadlineLead: deadlineLead,
		now:          time.Now,
	}
}

// ApplyMissedPicks assigns a team to every active player without a pick in
// the round, once the cutoff has passed. Preference one is the opponent of
// the player's most recent winning pick when that team plays this round and
// is unused this cycle; otherwise the alphabetically first eligible team.
// With dryRun the plan is returned without any mutation.
func (s *AutoPickService) ApplyMissedPicks(ctx context.Context, roundID string, dryRun bool) (AutoPickPlan, error) {
	var plan AutoPickPlan
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

		cutoff, ok := item.PickCutoff(s.deadlineLead)
		if !ok {
			return fmt.Errorf("%w: round %d has no derivable pick cutoff", ErrInvalidInput, item.SequenceNumber)
		}
		now := s.now()
		if now.Before(cutoff) {
			return fmt.Errorf("%w: pick cutoff for round %d has not passed yet", ErrConflict, item.SequenceNumber)
		}

		fixtures, err := s.fixtureRepo.ListByRound(ctx, item.ID)
		if err != nil {
			return fmt.Errorf("list round fixtures: %w", err)
		}
		roundTeams := fixture.Teams(fixtures)

		roundPicks, err := s.pickRepo.ListByRound(ctx, item.ID)
		if err != nil {
			return fmt.Errorf("list round picks: %w", err)
		}
		hasPick := make(map[string]struct{}, len(roundPicks))
		for _, p := range roundPicks {
			hasPick[p.PlayerID] = struct{}{}
		}

		players, err := s.playerRepo.ListByStatus(ctx, player.StatusActive)
		if err != nil {
			return fmt.Errorf("list active players: %w", err)
		}

		plan = AutoPickPlan{RoundID: item.ID, Cutoff: cutoff, DryRun: dryRun}
		for _, entrant := range players {
			if _, picked := hasPick[entrant.ID]; picked {
				continue
			}

			team, err := s.chooseTeam(ctx, entrant.ID, item, roundTeams)
			if err != nil {
				return err
			}
			if team == "" {
				plan.Unassignable = append(plan.Unassignable, entrant.ID)
				s.logger.WarnContext(ctx, "no eligible team left for auto-pick",
					"player_id", entrant.ID, "round_sequence", item.SequenceNumber)
				continue
			}

			plan.Assignments = append(plan.Assignments, AutoPickAssignment{
				PlayerID: entrant.ID,
				Team:     team,
				Reason:   pick.ReasonMissedDeadline,
			})

			if dryRun {
				continue
			}

			id, err := s.ids.NewID()
			if err != nil {
				return fmt.Errorf("generate pick id: %w", err)
			}
			assigned := pick.Pick{
				ID:           id,
				PlayerID:     entrant.ID,
				RoundID:      item.ID,
				TeamPicked:   team,
				AutoAssigned: true,
				AutoReason:   pick.ReasonMissedDeadline,
				SubmittedAt:  now,
			}
			if err := s.pickRepo.Create(ctx, assigned); err != nil {
				return fmt.Errorf("create auto pick for player %s: %w", entrant.ID, err)
			}
		}

		if !dryRun && len(plan.Assignments) > 0 {
			s.logger.InfoContext(ctx, "missed picks auto-assigned",
				"round_sequence", item.SequenceNumber, "assigned", len(plan.Assignments))
		}
		return nil
	})
	if err != nil {
		return AutoPickPlan{}, err
	}

	return plan, nil
}

// chooseTeam applies the assignment preferences for one player. An empty
// return means every team in the round was already used this cycle.
func (s *AutoPickService) chooseTeam(ctx context.Context, playerID string, item round.Round, roundTeams []string) (string, error) {
	cyclePicks, err := s.pickRepo.ListByPlayerAndCycle(ctx, playerID, item.CycleNumber)
	if err != nil {
		return "", fmt.Errorf("list cycle picks: %w", err)
	}
	used := make(map[string]struct{}, len(cyclePicks))
	for _, p := range cyclePicks {
		used[p.TeamPicked] = struct{}{}
	}

	eligible := func(team string) bool {
		_, taken := used[team]
		return !taken
	}

	if team, err := s.lastWinningOpponent(ctx, playerID); err != nil {
		return "", err
	} else if team != "" && eligible(team) && contains(roundTeams, team) {
		return team, nil
	}

	// roundTeams comes back sorted, so the first eligible entry is the
	// alphabetical choice.
	for _, team := range roundTeams {
		if eligible(team) {
			return team, nil
		}
	}

	return "", nil
}

// lastWinningOpponent finds the team that lost to the player's most recent
// winning pick.
func (s *AutoPickService) lastWinningOpponent(ctx context.Context, playerID string) (string, error) {
	picks, err := s.pickRepo.ListByPlayer(ctx, playerID)
	if err != nil {
		return "", fmt.Errorf("list player picks: %w", err)
	}

	for _, p := range picks {
		if p.IsWinner == nil || !*p.IsWinner {
			continue
		}
		fixtures, err := s.fixtureRepo.ListByRound(ctx, p.RoundID)
		if err != nil {
			return "", fmt.Errorf("list fixtures for round %s: %w", p.RoundID, err)
		}
		for _, f := range fixtures {
			if f.Involves(p.TeamPicked) {
				return f.Opponent(p.TeamPicked), nil
			}
		}
		return "", nil
	}

	return "", nil
}

func contains(items []string, want string) bool {
	for _, item := range items {
		if item == want {
			return true
		}
	}
	return false
}

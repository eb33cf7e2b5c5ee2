package httpapi

import (
	"time"

	"github.com/dmoloney/lastmanstanding/internal/domain/fixture"
	"github.com/dmoloney/lastmanstanding/internal/domain/pick"
	"github.com/dmoloney/lastmanstanding/internal/domain/picktoken"
	"github.com/dmoloney/lastmanstanding/internal/domain/player"
	"github.com/dmoloney/lastmanstanding/internal/domain/round"
	"github.com/dmoloney/lastmanstanding/internal/usecase"
)

type roundDTO struct {
	ID             string     `json:"id"`
	SequenceNumber int        `json:"sequence_number"`
	CycleNumber    int        `json:"cycle_number"`
	Matchday       *int       `json:"matchday,omitempty"`
	Status         string     `json:"status"`
	SpecialMeasure string     `json:"special_measure,omitempty"`
	FirstKickoffAt *time.Time `json:"first_kickoff_at,omitempty"`
	DeadlineAt     *time.Time `json:"deadline_at,omitempty"`
	Note           string     `json:"note,omitempty"`
}

func roundToDTO(item round.Round) roundDTO {
	return roundDTO{
		ID:             item.ID,
		SequenceNumber: item.SequenceNumber,
		CycleNumber:    item.CycleNumber,
		Matchday:       item.Matchday,
		Status:         item.Status,
		SpecialMeasure: item.SpecialMeasure,
		FirstKickoffAt: item.FirstKickoffAt,
		DeadlineAt:     item.DeadlineAt,
		Note:           item.Note,
	}
}

func roundsToDTO(items []round.Round) []roundDTO {
	out := make([]roundDTO, 0, len(items))
	for _, item := range items {
		out = append(out, roundToDTO(item))
	}
	return out
}

type fixtureDTO struct {
	ID        string    `json:"id"`
	EventID   string    `json:"event_id,omitempty"`
	HomeTeam  string    `json:"home_team"`
	AwayTeam  string    `json:"away_team"`
	KickoffAt time.Time `json:"kickoff_at"`
	HomeScore *int      `json:"home_score,omitempty"`
	AwayScore *int      `json:"away_score,omitempty"`
	Status    string    `json:"status"`
}

func fixturesToDTO(items []fixture.Fixture) []fixtureDTO {
	out := make([]fixtureDTO, 0, len(items))
	for _, f := range items {
		out = append(out, fixtureDTO{
			ID:        f.ID,
			EventID:   f.EventID,
			HomeTeam:  f.HomeTeam,
			AwayTeam:  f.AwayTeam,
			KickoffAt: f.KickoffAt,
			HomeScore: f.HomeScore,
			AwayScore: f.AwayScore,
			Status:    f.Status,
		})
	}
	return out
}

type roundDetailDTO struct {
	Round    roundDTO     `json:"round"`
	Fixtures []fixtureDTO `json:"fixtures"`
}

type pickDTO struct {
	ID           string     `json:"id"`
	PlayerID     string     `json:"player_id"`
	RoundID      string     `json:"round_id"`
	TeamPicked   string     `json:"team_picked"`
	IsWinner     *bool      `json:"is_winner,omitempty"`
	IsEliminated bool       `json:"is_eliminated"`
	AutoAssigned bool       `json:"auto_assigned"`
	AutoReason   string     `json:"auto_reason,omitempty"`
	SubmittedAt  time.Time  `json:"submitted_at"`
	LastEditedAt *time.Time `json:"last_edited_at,omitempty"`
}

func pickToDTO(item pick.Pick) pickDTO {
	return pickDTO{
		ID:           item.ID,
		PlayerID:     item.PlayerID,
		RoundID:      item.RoundID,
		TeamPicked:   item.TeamPicked,
		IsWinner:     item.IsWinner,
		IsEliminated: item.IsEliminated,
		AutoAssigned: item.AutoAssigned,
		AutoReason:   item.AutoReason,
		SubmittedAt:  item.SubmittedAt,
		LastEditedAt: item.LastEditedAt,
	}
}

func picksToDTO(items []pick.Pick) []pickDTO {
	out := make([]pickDTO, 0, len(items))
	for _, item := range items {
		out = append(out, pickToDTO(item))
	}
	return out
}

type playerDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Phone       string `json:"phone,omitempty"`
	Status      string `json:"status"`
	Unreachable bool   `json:"unreachable,omitempty"`
}

func playerToDTO(item player.Player) playerDTO {
	return playerDTO{
		ID:          item.ID,
		Name:        item.Name,
		Phone:       item.Phone,
		Status:      item.Status,
		Unreachable: item.Unreachable,
	}
}

func playersToDTO(items []player.Player) []playerDTO {
	out := make([]playerDTO, 0, len(items))
	for _, item := range items {
		out = append(out, playerToDTO(item))
	}
	return out
}

type pickTokenDTO struct {
	Token     string    `json:"token"`
	PlayerID  string    `json:"player_id"`
	RoundID   string    `json:"round_id"`
	EditCount int       `json:"edit_count"`
	ExpiresAt time.Time `json:"expires_at"`
}

func pickTokenToDTO(item picktoken.Token) pickTokenDTO {
	return pickTokenDTO{
		Token:     item.Token,
		PlayerID:  item.PlayerID,
		RoundID:   item.RoundID,
		EditCount: item.EditCount,
		ExpiresAt: item.ExpiresAt,
	}
}

type resultSummaryDTO struct {
	FixturesApplied   int                 `json:"fixtures_applied"`
	PicksSettled      int                 `json:"picks_settled"`
	PlayersEliminated int                 `json:"players_eliminated"`
	RoundCompleted    bool                `json:"round_completed"`
	WinnerPlayerID    string              `json:"winner_player_id,omitempty"`
	RolloverTriggered bool                `json:"rollover_triggered"`
	Rollover          *rolloverOutcomeDTO `json:"rollover,omitempty"`
}

func resultSummaryToDTO(summary usecase.ResultSummary) resultSummaryDTO {
	dto := resultSummaryDTO{
		FixturesApplied:   summary.FixturesApplied,
		PicksSettled:      summary.PicksSettled,
		PlayersEliminated: summary.PlayersEliminated,
		RoundCompleted:    summary.RoundCompleted,
		WinnerPlayerID:    summary.WinnerPlayerID,
		RolloverTriggered: summary.RolloverTriggered,
	}
	if summary.Rollover != nil {
		rollover := rolloverOutcomeToDTO(*summary.Rollover)
		dto.Rollover = &rollover
	}
	return dto
}

type rolloverOutcomeDTO struct {
	Triggered          bool      `json:"triggered"`
	Reason             string    `json:"reason,omitempty"`
	TerminatedRoundID  string    `json:"terminated_round_id,omitempty"`
	TerminatedSequence int       `json:"terminated_sequence,omitempty"`
	PlayersReactivated int       `json:"players_reactivated"`
	NewCycleNumber     int       `json:"new_cycle_number,omitempty"`
	RoundsRestamped    int       `json:"rounds_restamped"`
	NextRound          *roundDTO `json:"next_round,omitempty"`
}

func rolloverOutcomeToDTO(outcome usecase.RolloverOutcome) rolloverOutcomeDTO {
	dto := rolloverOutcomeDTO{
		Triggered:          outcome.Triggered,
		Reason:             outcome.Reason,
		TerminatedRoundID:  outcome.TerminatedRoundID,
		TerminatedSequence: outcome.TerminatedSequence,
		PlayersReactivated: outcome.PlayersReactivated,
		NewCycleNumber:     outcome.NewCycleNumber,
		RoundsRestamped:    outcome.RoundsRestamped,
	}
	if outcome.NextRound != nil {
		next := roundToDTO(*outcome.NextRound)
		dto.NextRound = &next
	}
	return dto
}

type autoPickPlanDTO struct {
	RoundID      string                   `json:"round_id"`
	Cutoff       time.Time                `json:"cutoff"`
	DryRun       bool                     `json:"dry_run"`
	Assignments  []autoPickAssignmentDTO  `json:"assignments"`
	Unassignable []string                 `json:"unassignable,omitempty"`
}

type autoPickAssignmentDTO struct {
	PlayerID string `json:"player_id"`
	Team     string `json:"team"`
	Reason   string `json:"reason"`
}

func autoPickPlanToDTO(plan usecase.AutoPickPlan) autoPickPlanDTO {
	assignments := make([]autoPickAssignmentDTO, 0, len(plan.Assignments))
	for _, a := range plan.Assignments {
		assignments = append(assignments, autoPickAssignmentDTO{
			PlayerID: a.PlayerID,
			Team:     a.Team,
			Reason:   a.Reason,
		})
	}
	return autoPickPlanDTO{
		RoundID:      plan.RoundID,
		Cutoff:       plan.Cutoff,
		DryRun:       plan.DryRun,
		Assignments:  assignments,
		Unassignable: plan.Unassignable,
	}
}

package round

import "time"

const (
	StatusPending   = "pending"
	StatusActive    = "active"
	StatusCompleted = "completed"
)

const (
	MeasureNone               = ""
	MeasureEarlyTerminated    = "early_terminated"
	MeasureSeasonBreak        = "season_break"
	MeasureWaitingForFixtures = "waiting_for_fixtures"
)

// Round is one matchday's worth of fixtures and picks. SequenceNumber is
// globally unique and monotonic; CycleNumber only moves when a rollover
// reinstates the pool. Matchday is nil while the round is parked waiting for
// a schedule (season break).
type Round struct {
	ID             string
	SequenceNumber int
	CycleNumber    int
	Matchday       *int
	Status         string
	SpecialMeasure string
	FirstKickoffAt *time.Time
	DeadlineAt     *time.Time
	Note           string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// State is the explicit status x special-measure pair the lifecycle
// functions branch on, instead of chained string comparisons.
type State struct {
	Status  string
	Measure string
}

func (r Round) State() State {
	return State{Status: r.Status, Measure: r.SpecialMeasure}
}

// IsTerminated reports whether the round was closed early by a rollover.
// Terminated rounds are always completed and must never accept late results.
func (r Round) IsTerminated() bool {
	return r.SpecialMeasure == MeasureEarlyTerminated
}

// IsSuspended reports whether the round is parked until fixtures exist.
func (r Round) IsSuspended() bool {
	return r.SpecialMeasure == MeasureSeasonBreak || r.SpecialMeasure == MeasureWaitingForFixtures
}

// PickCutoff is the submission deadline: an explicit DeadlineAt wins,
// otherwise lead before the first kickoff. The second return is false when
// the round has neither anchor.
func (r Round) PickCutoff(lead time.Duration) (time.Time, bool) {
	if r.DeadlineAt != nil {
		return *r.DeadlineAt, true
	}
	if r.FirstKickoffAt != nil {
		return r.FirstKickoffAt.Add(-lead), true
	}
	return time.Time{}, false
}

func IsValidStatus(value string) bool {
	switch value {
	case StatusPending, StatusActive, StatusCompleted:
		return true
	default:
		return false
	}
}

func IsValidMeasure(value string) bool {
	switch value {
	case MeasureNone, MeasureEarlyTerminated, MeasureSeasonBreak, MeasureWaitingForFixtures:
		return true
	default:
		return false
	}
}

package pick

import "time"

// Auto-assignment reason codes.
const (
	ReasonMissedDeadline = "missed_deadline"
)

// Pick is one player's team selection for one round. IsWinner is tri-state:
// nil until the fixture result lands, then fixed. A losing or drawn pick
// also sets IsEliminated.
type Pick struct {
	ID           string
	PlayerID     string
	RoundID      string
	TeamPicked   string
	IsWinner     *bool
	IsEliminated bool
	AutoAssigned bool
	AutoReason   string
	SubmittedAt  time.Time
	LastEditedAt *time.Time
}

// Settled reports whether a result has already been applied to the pick.
func (p Pick) Settled() bool {
	return p.IsWinner != nil
}

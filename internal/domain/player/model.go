package player

import "time"

const (
	StatusActive     = "active"
	StatusEliminated = "eliminated"
	StatusWinner     = "winner"
)

// Player is one pool entrant. Status moves active -> eliminated on a losing
// or drawn pick, active -> winner when the player is the last one standing,
// and eliminated -> active when a rollover reinstates the pool.
type Player struct {
	ID          string
	Name        string
	Phone       string
	Status      string
	Unreachable bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func IsValidStatus(value string) bool {
	switch value {
	case StatusActive, StatusEliminated, StatusWinner:
		return true
	default:
		return false
	}
}

package picktoken

import "time"

// EditLimit is how many accepted submissions one token covers: the initial
// pick plus a single edit.
const EditLimit = 2

// Token is a bounded-use, time-limited credential binding one player to one
// round's pick form.
type Token struct {
	ID        string
	PlayerID  string
	RoundID   string
	Token     string
	EditCount int
	ExpiresAt time.Time
	CreatedAt time.Time
	UsedAt    *time.Time
}

// IsValid reports whether the token still has edits remaining and has not
// expired.
func (t Token) IsValid(now time.Time) bool {
	if t.EditCount >= EditLimit {
		return false
	}
	if now.After(t.ExpiresAt) {
		return false
	}
	return true
}

// MarkUsed records one accepted submission.
func (t *Token) MarkUsed(now time.Time) {
	t.EditCount++
	used := now
	t.UsedAt = &used
}

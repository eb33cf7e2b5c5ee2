package picktoken

import (
	"testing"
	"time"
)

func TestTokenIsValid(t *testing.T) {
	now := time.Date(2026, 3, 7, 12, 0, 0, 0, time.UTC)
	future := now.Add(time.Hour)
	past := now.Add(-time.Hour)

	cases := []struct {
		name  string
		token Token
		want  bool
	}{
		{"fresh token", Token{EditCount: 0, ExpiresAt: future}, true},
		{"one edit left", Token{EditCount: 1, ExpiresAt: future}, true},
		{"edit exhausted", Token{EditCount: 2, ExpiresAt: future}, false},
		{"expired", Token{EditCount: 0, ExpiresAt: past}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.token.IsValid(now); got != tc.want {
				t.Fatalf("IsValid: got=%t want=%t", got, tc.want)
			}
		})
	}
}

func TestTokenMarkUsed(t *testing.T) {
	now := time.Date(2026, 3, 7, 12, 0, 0, 0, time.UTC)
	token := Token{EditCount: 0, ExpiresAt: now.Add(24 * time.Hour)}

	token.MarkUsed(now)
	if token.EditCount != 1 {
		t.Fatalf("edit count after first use: got=%d want=1", token.EditCount)
	}
	if !token.IsValid(now) {
		t.Fatalf("token should still allow one edit")
	}

	token.MarkUsed(now)
	if token.IsValid(now) {
		t.Fatalf("token must be exhausted after %d uses", EditLimit)
	}
	if token.UsedAt == nil || !token.UsedAt.Equal(now) {
		t.Fatalf("used_at not recorded")
	}
}

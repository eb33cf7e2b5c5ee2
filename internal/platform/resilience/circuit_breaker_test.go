package resilience

import (
	"testing"
	"time"
)

func TestCircuitBreakerOpensAfterThreshold(t *testing.T) {
	current := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	b := NewCircuitBreaker(3, 10*time.Second, 1)
	b.now = func() time.Time { return current }

	for i := 0; i < 3; i++ {
		if err := b.Allow(); err != nil {
			t.Fatalf("allow before threshold: %v", err)
		}
		b.RecordFailure()
	}

	if err := b.Allow(); err == nil {
		t.Fatalf("expected open circuit after %d failures", 3)
	}

	// Half-open probe after the open timeout, success closes it again.
	current = current.Add(11 * time.Second)
	if err := b.Allow(); err != nil {
		t.Fatalf("allow half-open probe: %v", err)
	}
	b.RecordSuccess()

	if got := b.State(); got != CircuitStateClosed {
		t.Fatalf("state after recovery: got=%s want=%s", got, CircuitStateClosed)
	}
}

func TestCircuitBreakerHalfOpenFailureReopens(t *testing.T) {
	current := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	b := NewCircuitBreaker(1, 5*time.Second, 1)
	b.now = func() time.Time { return current }

	_ = b.Allow()
	b.RecordFailure()

	current = current.Add(6 * time.Second)
	if err := b.Allow(); err != nil {
		t.Fatalf("allow half-open probe: %v", err)
	}
	b.RecordFailure()

	if err := b.Allow(); err == nil {
		t.Fatalf("expected reopened circuit after failed probe")
	}
}

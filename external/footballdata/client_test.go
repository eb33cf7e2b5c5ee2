package footballdata

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmoloney/lastmanstanding/internal/platform/logging"
	"github.com/dmoloney/lastmanstanding/internal/platform/resilience"
	"github.com/dmoloney/lastmanstanding/internal/usecase"
)

const matchesJSON = `{
	"matches": [
		{
			"id": 497525,
			"utcDate": "2026-03-14T15:00:00Z",
			"status": "TIMED",
			"matchday": 28,
			"homeTeam": {"id": 57, "name": "Arsenal FC", "shortName": "Arsenal"},
			"awayTeam": {"id": 61, "name": "Chelsea FC", "shortName": "Chelsea"},
			"score": {"winner": null, "fullTime": {"home": null, "away": null}}
		},
		{
			"id": 497526,
			"utcDate": "2026-03-14T17:30:00Z",
			"status": "FINISHED",
			"matchday": 28,
			"homeTeam": {"id": 62, "name": "Everton FC", "shortName": "Everton"},
			"awayTeam": {"id": 63, "name": "Fulham FC", "shortName": "Fulham"},
			"score": {"winner": "HOME_TEAM", "fullTime": {"home": 2, "away": 1}}
		}
	]
}`

func newTestClient(t *testing.T, handler http.Handler, breaker resilience.CircuitBreakerConfig) (*Client, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(ClientConfig{
		BaseURL:        server.URL,
		Token:          "test-token",
		CompetitionID:  2021,
		MaxRetries:     1,
		Logger:         logging.NewNop(),
		CircuitBreaker: breaker,
	})
	return client, server
}

func TestClient_FixturesByMatchday(t *testing.T) {
	t.Parallel()

	var gotToken, gotMatchday string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.Header.Get("X-Auth-Token")
		gotMatchday = r.URL.Query().Get("matchday")
		if r.URL.Path != "/competitions/2021/matches" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(matchesJSON))
	}), resilience.CircuitBreakerConfig{})

	fixtures, err := client.FixturesByMatchday(t.Context(), 28)
	if err != nil {
		t.Fatalf("fixtures by matchday: %v", err)
	}
	if gotToken != "test-token" {
		t.Fatalf("auth header not sent, got %q", gotToken)
	}
	if gotMatchday != "28" {
		t.Fatalf("matchday query: got=%q want=28", gotMatchday)
	}
	if len(fixtures) != 2 {
		t.Fatalf("fixture count: got=%d want=2", len(fixtures))
	}

	first := fixtures[0]
	if first.EventID != "497525" || first.HomeTeam != "Arsenal FC" || first.AwayTeam != "Chelsea FC" {
		t.Fatalf("unexpected mapping: %+v", first)
	}
	if !first.KickoffAt.Equal(time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)) {
		t.Fatalf("kickoff: %v", first.KickoffAt)
	}

	finished := fixtures[1]
	if finished.HomeScore == nil || *finished.HomeScore != 2 || finished.AwayScore == nil || *finished.AwayScore != 1 {
		t.Fatalf("scores not mapped: %+v", finished)
	}
}

func TestClient_FixturesByMatchday_InvalidMatchday(t *testing.T) {
	t.Parallel()

	client := NewClient(ClientConfig{Logger: logging.NewNop()})
	if _, err := client.FixturesByMatchday(t.Context(), 0); err == nil {
		t.Fatalf("expected error for matchday 0")
	}
}

func TestClient_AvailableMatchdays(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("status"); got != "SCHEDULED,TIMED" {
			t.Errorf("status filter: got=%q", got)
		}
		_, _ = w.Write([]byte(`{"matches":[
			{"matchday":30,"homeTeam":{"name":"A"},"awayTeam":{"name":"B"},"utcDate":"2026-04-04T15:00:00Z"},
			{"matchday":29,"homeTeam":{"name":"C"},"awayTeam":{"name":"D"},"utcDate":"2026-03-28T15:00:00Z"},
			{"matchday":29,"homeTeam":{"name":"E"},"awayTeam":{"name":"F"},"utcDate":"2026-03-28T17:30:00Z"}
		]}`))
	}), resilience.CircuitBreakerConfig{})

	matchdays, err := client.AvailableMatchdays(t.Context())
	if err != nil {
		t.Fatalf("available matchdays: %v", err)
	}
	if len(matchdays) != 2 || matchdays[0] != 29 || matchdays[1] != 30 {
		t.Fatalf("unexpected matchdays: %v", matchdays)
	}
}

func TestClient_RetriesTransientStatus(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(matchesJSON))
	}), resilience.CircuitBreakerConfig{})

	fixtures, err := client.FixturesByMatchday(t.Context(), 28)
	if err != nil {
		t.Fatalf("expected retry to recover: %v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("request count: got=%d want=2", calls.Load())
	}
	if len(fixtures) != 2 {
		t.Fatalf("fixture count after retry: %d", len(fixtures))
	}
}

func TestClient_DoesNotRetryClientErrors(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"message":"restricted resource"}`))
	}), resilience.CircuitBreakerConfig{})

	if _, err := client.FixturesByMatchday(t.Context(), 28); err == nil {
		t.Fatalf("expected error for 403")
	}
	if calls.Load() != 1 {
		t.Fatalf("4xx must not be retried, got %d calls", calls.Load())
	}
}

func TestClient_CircuitBreakerOpensAfterFailures(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}), resilience.CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: 1,
		OpenTimeout:      time.Minute,
		HalfOpenMaxReq:   1,
	})

	if _, err := client.FixturesByMatchday(t.Context(), 28); err == nil {
		t.Fatalf("expected first request to fail")
	}

	_, err := client.FixturesByMatchday(t.Context(), 29)
	if !errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable from open breaker, got %v", err)
	}
}

package footballdata

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"

	"github.com/dmoloney/lastmanstanding/internal/platform/logging"
	"github.com/dmoloney/lastmanstanding/internal/platform/resilience"
	"github.com/dmoloney/lastmanstanding/internal/usecase"
)

const (
	defaultBaseURL       = "https://api.football-data.org/v4"
	defaultCompetitionID = 2021 // Premier League
	maxResponseBytes     = 4 << 20
)

var errFootballDataTransient = crerr.New("football-data transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Token          string
	CompetitionID  int
	Season         string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client talks to the football-data.org v4 API. It satisfies
// usecase.FixtureProvider: callers already degrade on error, so the client
// only has to fail cleanly, retry transient statuses and keep the token out
// of logs.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	token          string
	competitionID  int
	season         string
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
	now            func() time.Time
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 15 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	competitionID := cfg.CompetitionID
	if competitionID <= 0 {
		competitionID = defaultCompetitionID
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		token:          strings.TrimSpace(cfg.Token),
		competitionID:  competitionID,
		season:         strings.TrimSpace(cfg.Season),
		maxRetries:     cfg.MaxRetries,
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
		now:            time.Now,
	}
}

// FixturesByMatchday lists the competition's matches for one matchday.
func (c *Client) FixturesByMatchday(ctx context.Context, matchday int) ([]usecase.ExternalFixture, error) {
	if matchday <= 0 {
		return nil, fmt.Errorf("matchday must be greater than zero")
	}

	query := map[string]string{"matchday": strconv.Itoa(matchday)}
	if c.season != "" {
		query["season"] = c.season
	}

	var envelope matchesEnvelope
	if err := c.doJSON(ctx, c.matchesPath(), query, &envelope); err != nil {
		return nil, fmt.Errorf("fetch matchday %d: %w", matchday, err)
	}

	return mapMatches(envelope.Matches), nil
}

// UpcomingFixtures lists matches kicking off between now and now+horizon.
func (c *Client) UpcomingFixtures(ctx context.Context, horizon time.Duration) ([]usecase.ExternalFixture, error) {
	if horizon <= 0 {
		horizon = 45 * 24 * time.Hour
	}

	from := c.now().UTC()
	query := map[string]string{
		"dateFrom": from.Format("2006-01-02"),
		"dateTo":   from.Add(horizon).Format("2006-01-02"),
	}

	var envelope matchesEnvelope
	if err := c.doJSON(ctx, c.matchesPath(), query, &envelope); err != nil {
		return nil, fmt.Errorf("fetch upcoming matches: %w", err)
	}

	return mapMatches(envelope.Matches), nil
}

// AvailableMatchdays lists the distinct matchdays that still have an
// unplayed match, ascending.
func (c *Client) AvailableMatchdays(ctx context.Context) ([]int, error) {
	query := map[string]string{"status": "SCHEDULED,TIMED"}
	if c.season != "" {
		query["season"] = c.season
	}

	var envelope matchesEnvelope
	if err := c.doJSON(ctx, c.matchesPath(), query, &envelope); err != nil {
		return nil, fmt.Errorf("fetch scheduled matches: %w", err)
	}

	seen := make(map[int]struct{})
	for _, m := range envelope.Matches {
		if m.Matchday > 0 {
			seen[m.Matchday] = struct{}{}
		}
	}
	out := make([]int, 0, len(seen))
	for md := range seen {
		out = append(out, md)
	}
	sort.Ints(out)

	return out, nil
}

func (c *Client) matchesPath() string {
	return fmt.Sprintf("/competitions/%d/matches", c.competitionID)
}

func (c *Client) doJSON(ctx context.Context, path string, query map[string]string, target any) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "football-data circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("%w: fixture provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}
	fullURL := c.baseURL + path
	if encoded := values.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	out, err, _ := c.flight.Do(fullURL, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && crerr.Is(reqErr, errFootballDataTransient) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return err
	}

	raw, ok := out.([]byte)
	if !ok {
		return fmt.Errorf("unexpected response payload type %T", out)
	}
	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode provider payload: %w", err)
	}

	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		if c.token != "" {
			req.Header.Set("X-Auth-Token", c.token)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %v", errFootballDataTransient, err)
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = fmt.Errorf("%w: read response body: %v", errFootballDataTransient, readErr)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return raw, nil
			case isRetryableStatus(resp.StatusCode):
				lastErr = fmt.Errorf("%w: provider status=%d body=%s", errFootballDataTransient, resp.StatusCode, abbreviateBody(raw))
			default:
				return nil, fmt.Errorf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("provider request failed")
	}
	c.logger.WarnContext(ctx, "football-data request failed",
		"request", buildRequestPreview(fullURL, c.token != ""), "error", lastErr)
	return nil, lastErr
}

func isRetryableStatus(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}

// buildRequestPreview renders a reproducible curl line for failure logs
// with the auth header masked.
func buildRequestPreview(fullURL string, withToken bool) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	_, _ = buf.WriteString("curl -H 'Accept: application/json'")
	if withToken {
		_, _ = buf.WriteString(" -H 'X-Auth-Token: ***'")
	}
	_ = buf.WriteByte(' ')
	_, _ = buf.WriteString("'" + fullURL + "'")

	return buf.String()
}

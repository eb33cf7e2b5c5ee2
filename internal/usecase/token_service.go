package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/dmoloney/lastmanstanding/internal/domain/picktoken"
	"github.com/dmoloney/lastmanstanding/internal/domain/player"
	"github.com/dmoloney/lastmanstanding/internal/domain/round"
	idgen "github.com/dmoloney/lastmanstanding/internal/platform/id"
	"github.com/dmoloney/lastmanstanding/internal/platform/logging"
)

const (
	tokenLength = 32

	// DefaultTokenFallbackTTL applies when a round has no derivable
	// deadline yet.
	DefaultTokenFallbackTTL = 168 * time.Hour

	bulkIssueWorkers = 8
)

// TokenService mints and reuses the capability tokens that bind a player to
// a round's pick form.
type TokenService struct {
	tokenRepo    picktoken.Repository
	playerRepo   player.Repository
	roundRepo    round.Repository
	ids          idgen.Generator
	logger       *logging.Logger
	deadlineLead time.Duration
	fallbackTTL  time.Duration
	now          func() time.Time
}

func NewTokenService(
	tokenRepo picktoken.Repository,
	playerRepo player.Repository,
	roundRepo round.Repository,
	ids idgen.Generator,
	logger *logging.Logger,
	deadlineLead, fallbackTTL time.Duration,
) *TokenService {
	if logger == nil {
		logger = logging.Default()
	}
	if deadlineLead <= 0 {
		deadlineLead = time.Hour
	}
	if fallbackTTL <= 0 {
		fallbackTTL = DefaultTokenFallbackTTL
	}
	return &TokenService{
		tokenRepo:    tokenRepo,
		playerRepo:   playerRepo,
		roundRepo:    roundRepo,
		ids:          ids,
		logger:       logger,
		deadlineLead: deadlineLead,
		fallbackTTL:  fallbackTTL,
		now:          time.Now,
	}
}

// IssueToken returns the player's existing usable token for the round, or
// mints a fresh one. A new token expires at the round's pick cutoff, or
// after the fallback window when no cutoff is derivable yet.
func (s *TokenService) IssueToken(ctx context.Context, playerID, roundID string) (picktoken.Token, error) {
	entrant, ok, err := s.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		return picktoken.Token{}, fmt.Errorf("get player: %w", err)
	}
	if !ok {
		return picktoken.Token{}, fmt.Errorf("%w: player=%s", ErrNotFound, playerID)
	}

	item, ok, err := s.roundRepo.GetByID(ctx, roundID)
	if err != nil {
		return picktoken.Token{}, fmt.Errorf("get round: %w", err)
	}
	if !ok {
		return picktoken.Token{}, fmt.Errorf("%w: round=%s", ErrNotFound, roundID)
	}
	if item.IsTerminated() {
		return picktoken.Token{}, fmt.Errorf("%w: round %d", ErrTerminatedRound, item.SequenceNumber)
	}

	return s.issueFor(ctx, entrant, item)
}

func (s *TokenService) issueFor(ctx context.Context, entrant player.Player, item round.Round) (picktoken.Token, error) {
	now := s.now()

	if existing, ok, err := s.tokenRepo.GetUsableByPlayerAndRound(ctx, entrant.ID, item.ID); err != nil {
		return picktoken.Token{}, fmt.Errorf("lookup usable token: %w", err)
	} else if ok && existing.IsValid(now) {
		return existing, nil
	}

	expiresAt := now.Add(s.fallbackTTL)
	if cutoff, ok := item.PickCutoff(s.deadlineLead); ok {
		expiresAt = cutoff
	}

	value, err := s.ids.NewToken(tokenLength)
	if err != nil {
		return picktoken.Token{}, fmt.Errorf("generate token value: %w", err)
	}
	id, err := s.ids.NewID()
	if err != nil {
		return picktoken.Token{}, fmt.Errorf("generate token id: %w", err)
	}

	tok := picktoken.Token{
		ID:        id,
		PlayerID:  entrant.ID,
		RoundID:   item.ID,
		Token:     value,
		ExpiresAt: expiresAt,
		CreatedAt: now,
	}
	if err := s.tokenRepo.Create(ctx, tok); err != nil {
		return picktoken.Token{}, fmt.Errorf("create pick token: %w", err)
	}

	return tok, nil
}

// IssueTokensForRound mints (or reuses) a token for every active player,
// fanning the work out over a bounded worker pool. Individual failures are
// logged and skipped so one unreachable player does not block the batch;
// the first error is still reported alongside the successes.
func (s *TokenService) IssueTokensForRound(ctx context.Context, roundID string) ([]picktoken.Token, error) {
	item, ok, err := s.roundRepo.GetByID(ctx, roundID)
	if err != nil {
		return nil, fmt.Errorf("get round: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: round=%s", ErrNotFound, roundID)
	}
	if item.IsTerminated() {
		return nil, fmt.Errorf("%w: round %d", ErrTerminatedRound, item.SequenceNumber)
	}

	players, err := s.playerRepo.ListByStatus(ctx, player.StatusActive)
	if err != nil {
		return nil, fmt.Errorf("list active players: %w", err)
	}
	if len(players) == 0 {
		return nil, nil
	}

	pool, err := ants.NewPool(bulkIssueWorkers)
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		tokens   = make([]picktoken.Token, 0, len(players))
		firstErr error
	)
	for _, entrant := range players {
		entrant := entrant
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			tok, err := s.issueFor(ctx, entrant, item)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				s.logger.WarnContext(ctx, "token issuance failed for player",
					"player_id", entrant.ID, "round_id", item.ID, "error", err)
				if firstErr == nil {
					firstErr = err
				}
				return
			}
			tokens = append(tokens, tok)
		}); err != nil {
			wg.Done()
			mu.Lock()
			if firstErr == nil {
				firstErr = err
			}
			mu.Unlock()
		}
	}
	wg.Wait()

	s.logger.InfoContext(ctx, "bulk token issuance finished",
		"round_id", item.ID, "issued", len(tokens), "players", len(players))

	return tokens, firstErr
}

// ValidateToken resolves a raw token value to a usable token.
func (s *TokenService) ValidateToken(ctx context.Context, value string) (picktoken.Token, error) {
	tok, ok, err := s.tokenRepo.GetByValue(ctx, value)
	if err != nil {
		return picktoken.Token{}, fmt.Errorf("get token: %w", err)
	}
	if !ok || !tok.IsValid(s.now()) {
		return picktoken.Token{}, fmt.Errorf("%w: token expired or edit limit reached", ErrTokenInvalid)
	}
	return tok, nil
}

package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dmoloney/lastmanstanding/internal/domain/fixture"
	"github.com/dmoloney/lastmanstanding/internal/domain/pick"
	"github.com/dmoloney/lastmanstanding/internal/domain/picktoken"
	"github.com/dmoloney/lastmanstanding/internal/domain/player"
	"github.com/dmoloney/lastmanstanding/internal/domain/round"
	idgen "github.com/dmoloney/lastmanstanding/internal/platform/id"
	"github.com/dmoloney/lastmanstanding/internal/platform/logging"
)

// PlayerService manages pool entrants and the destructive pool reset.
type PlayerService struct {
	playerRepo  player.Repository
	pickRepo    pick.Repository
	tokenRepo   picktoken.Repository
	roundRepo   round.Repository
	fixtureRepo fixture.Repository
	tx          TxManager
	ids         idgen.Generator
	logger      *logging.Logger
	now         func() time.Time
}

func NewPlayerService(
	playerRepo player.Repository,
	pickRepo pick.Repository,
	tokenRepo picktoken.Repository,
	roundRepo round.Repository,
	fixtureRepo fixture.Repository,
	tx TxManager,
	ids idgen.Generator,
	logger *logging.Logger,
) *PlayerService {
	if logger == nil {
		logger = logging.Default()
	}
	return &PlayerService{
		playerRepo:  playerRepo,
		pickRepo:    pickRepo,
		tokenRepo:   tokenRepo,
		roundRepo:   roundRepo,
		fixtureRepo: fixtureRepo,
		tx:          tx,
		ids:         ids,
		logger:      logger,
		now:         time.Now,
	}
}

// CreatePlayer registers a new active entrant. Phone numbers are unique
// across the pool.
func (s *PlayerService) CreatePlayer(ctx context.Context, name, phone string) (player.Player, error) {
	name = strings.TrimSpace(name)
	phone = strings.TrimSpace(phone)
	if name == "" {
		return player.Player{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	var created player.Player
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if phone != "" {
			if existing, ok, err := s.playerRepo.GetByPhone(ctx, phone); err != nil {
				return fmt.Errorf("lookup player by phone: %w", err)
			} else if ok {
				return fmt.Errorf("%w: phone already registered to %s", ErrConflict, existing.Name)
			}
		}

		id, err := s.ids.NewID()
		if err != nil {
			return fmt.Errorf("generate player id: %w", err)
		}
		created = player.Player{
			ID:     id,
			Name:   name,
			Phone:  phone,
			Status: player.StatusActive,
		}
		if err := s.playerRepo.Create(ctx, created); err != nil {
			return fmt.Errorf("create player: %w", err)
		}
		return nil
	})
	if err != nil {
		return player.Player{}, err
	}

	return created, nil
}

// PlayerDraft is one entry of a bulk registration request.
type PlayerDraft struct {
	Name  string
	Phone string
}

// BulkCreateSummary reports what a bulk registration created and which
// entries it skipped, with a reason per skip.
type BulkCreateSummary struct {
	Created []player.Player
	Skipped []string
}

// CreatePlayersBulk registers a batch of entrants in one transaction.
// Entries that are invalid or collide with an existing name or phone are
// skipped rather than failing the batch.
func (s *PlayerService) CreatePlayersBulk(ctx context.Context, drafts []PlayerDraft) (BulkCreateSummary, error) {
	if len(drafts) == 0 {
		return BulkCreateSummary{}, fmt.Errorf("%w: at least one player entry is required", ErrInvalidInput)
	}

	var summary BulkCreateSummary
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		existing, err := s.playerRepo.List(ctx)
		if err != nil {
			return fmt.Errorf("list players: %w", err)
		}
		names := make(map[string]struct{}, len(existing))
		phones := make(map[string]struct{}, len(existing))
		for _, p := range existing {
			names[p.Name] = struct{}{}
			if p.Phone != "" {
				phones[p.Phone] = struct{}{}
			}
		}

		for i, draft := range drafts {
			name := strings.TrimSpace(draft.Name)
			phone := strings.TrimSpace(draft.Phone)
			if name == "" {
				summary.Skipped = append(summary.Skipped, fmt.Sprintf("entry %d: name is required", i+1))
				continue
			}
			if _, taken := names[name]; taken {
				summary.Skipped = append(summary.Skipped, fmt.Sprintf("entry %d: name %q already registered", i+1, name))
				continue
			}
			if phone != "" {
				if _, taken := phones[phone]; taken {
					summary.Skipped = append(summary.Skipped, fmt.Sprintf("entry %d: phone %s already registered", i+1, phone))
					continue
				}
			}

			id, err := s.ids.NewID()
			if err != nil {
				return fmt.Errorf("generate player id: %w", err)
			}
			entrant := player.Player{
				ID:     id,
				Name:   name,
				Phone:  phone,
				Status: player.StatusActive,
			}
			if err := s.playerRepo.Create(ctx, entrant); err != nil {
				return fmt.Errorf("create player %q: %w", name, err)
			}

			names[name] = struct{}{}
			if phone != "" {
				phones[phone] = struct{}{}
			}
			summary.Created = append(summary.Created, entrant)
		}
		return nil
	})
	if err != nil {
		return BulkCreateSummary{}, err
	}

	s.logger.InfoContext(ctx, "bulk player registration",
		"created", len(summary.Created), "skipped", len(summary.Skipped))
	return summary, nil
}

func (s *PlayerService) GetPlayer(ctx context.Context, playerID string) (player.Player, error) {
	entrant, ok, err := s.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		return player.Player{}, fmt.Errorf("get player: %w", err)
	}
	if !ok {
		return player.Player{}, fmt.Errorf("%w: player=%s", ErrNotFound, playerID)
	}
	return entrant, nil
}

func (s *PlayerService) ListPlayers(ctx context.Context) ([]player.Player, error) {
	players, err := s.playerRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	return players, nil
}

// UpdatePlayerStatus is the manual status override used by operator
// recovery flows.
func (s *PlayerService) UpdatePlayerStatus(ctx context.Context, playerID, status string) (player.Player, error) {
	if !player.IsValidStatus(status) {
		return player.Player{}, fmt.Errorf("%w: unknown player status %q", ErrInvalidInput, status)
	}

	entrant, ok, err := s.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		return player.Player{}, fmt.Errorf("get player: %w", err)
	}
	if !ok {
		return player.Player{}, fmt.Errorf("%w: player=%s", ErrNotFound, playerID)
	}

	if entrant.Status != status {
		if err := s.playerRepo.UpdateStatus(ctx, entrant.ID, status); err != nil {
			return player.Player{}, fmt.Errorf("update player status: %w", err)
		}
		entrant.Status = status
	}

	return entrant, nil
}

// DeletePlayer removes an entrant, refusing while picks reference them so
// round history stays intact.
func (s *PlayerService) DeletePlayer(ctx context.Context, playerID string) error {
	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		_, ok, err := s.playerRepo.GetByID(ctx, playerID)
		if err != nil {
			return fmt.Errorf("get player: %w", err)
		}
		if !ok {
			return fmt.Errorf("%w: player=%s", ErrNotFound, playerID)
		}

		count, err := s.pickRepo.CountByPlayer(ctx, playerID)
		if err != nil {
			return fmt.Errorf("count player picks: %w", err)
		}
		if count > 0 {
			return fmt.Errorf("%w: player has %d picks on record", ErrConflict, count)
		}

		if err := s.playerRepo.Delete(ctx, playerID); err != nil {
			return fmt.Errorf("delete player: %w", err)
		}
		return nil
	})
}

// ResetPool wipes all rounds, fixtures, picks and tokens and reactivates
// every player. The registered player list is the only thing that survives.
func (s *PlayerService) ResetPool(ctx context.Context) error {
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.pickRepo.DeleteAll(ctx); err != nil {
			return fmt.Errorf("delete picks: %w", err)
		}
		if _, err := s.tokenRepo.DeleteAll(ctx); err != nil {
			return fmt.Errorf("delete pick tokens: %w", err)
		}
		if _, err := s.fixtureRepo.DeleteAll(ctx); err != nil {
			return fmt.Errorf("delete fixtures: %w", err)
		}
		if _, err := s.roundRepo.DeleteAll(ctx); err != nil {
			return fmt.Errorf("delete rounds: %w", err)
		}

		if _, err := s.playerRepo.UpdateStatusAll(ctx, player.StatusEliminated, player.StatusActive); err != nil {
			return fmt.Errorf("reactivate eliminated players: %w", err)
		}
		if _, err := s.playerRepo.UpdateStatusAll(ctx, player.StatusWinner, player.StatusActive); err != nil {
			return fmt.Errorf("reactivate winners: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.WarnContext(ctx, "pool reset, all rounds and picks deleted")
	return nil
}

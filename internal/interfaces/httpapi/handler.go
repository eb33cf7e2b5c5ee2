package httpapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/dmoloney/lastmanstanding/internal/platform/logging"
	"github.com/dmoloney/lastmanstanding/internal/usecase"
)

type Handler struct {
	roundService     *usecase.RoundService
	resultService    *usecase.ResultService
	rolloverService  *usecase.RolloverService
	nextRoundService *usecase.NextRoundService
	pickService      *usecase.PickService
	autoPickService  *usecase.AutoPickService
	tokenService     *usecase.TokenService
	playerService    *usecase.PlayerService
	logger           *logging.Logger
	validator        *validator.Validate
}

func NewHandler(
	roundService *usecase.RoundService,
	resultService *usecase.ResultService,
	rolloverService *usecase.RolloverService,
	nextRoundService *usecase.NextRoundService,
	pickService *usecase.PickService,
	autoPickService *usecase.AutoPickService,
	tokenService *usecase.TokenService,
	playerService *usecase.PlayerService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		roundService:     roundService,
		resultService:    resultService,
		rolloverService:  rolloverService,
		nextRoundService: nextRoundService,
		pickService:      pickService,
		autoPickService:  autoPickService,
		tokenService:     tokenService,
		playerService:    playerService,
		logger:           logger,
		validator:        validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeSuccess(r.Context(), w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

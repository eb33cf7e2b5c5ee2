package httpapi

import (
	"fmt"
	"net/http"

	sonic "github.com/bytedance/sonic"

	"github.com/dmoloney/lastmanstanding/internal/usecase"
)

type createRoundRequest struct {
	Matchday    int  `json:"matchday" validate:"required,gt=0"`
	CycleNumber *int `json:"cycle_number" validate:"omitempty,gte=1"`
}

func (h *Handler) CreateRound(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateRound")
	defer span.End()

	var req createRoundRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	created, err := h.roundService.CreateRound(ctx, req.Matchday, req.CycleNumber)
	if err != nil {
		h.logger.WarnContext(ctx, "create round failed", "matchday", req.Matchday, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, roundToDTO(created))
}

func (h *Handler) ActivateRound(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ActivateRound")
	defer span.End()

	activated, err := h.roundService.ActivateRound(ctx, r.PathValue("roundID"))
	if err != nil {
		h.logger.WarnContext(ctx, "activate round failed", "round_id", r.PathValue("roundID"), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, roundToDTO(activated))
}

func (h *Handler) GetCurrentRound(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetCurrentRound")
	defer span.End()

	current, err := h.roundService.CurrentActiveRound(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, roundToDTO(current))
}

func (h *Handler) GetRound(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetRound")
	defer span.End()

	item, fixtures, err := h.roundService.GetRound(ctx, r.PathValue("roundID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, roundDetailDTO{
		Round:    roundToDTO(item),
		Fixtures: fixturesToDTO(fixtures),
	})
}

func (h *Handler) ListRounds(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListRounds")
	defer span.End()

	items, err := h.roundService.ListRounds(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, roundsToDTO(items))
}

func (h *Handler) ListAvailableMatchdays(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListAvailableMatchdays")
	defer span.End()

	matchdays, err := h.nextRoundService.AvailableMatchdays(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]any{"matchdays": matchdays})
}

package httpapi

import (
	"fmt"
	"net/http"
	"strconv"

	sonic "github.com/bytedance/sonic"

	"github.com/dmoloney/lastmanstanding/internal/usecase"
)

type submitPickRequest struct {
	Token string `json:"token" validate:"required"`
	Team  string `json:"team" validate:"required"`
}

func (h *Handler) SubmitPick(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SubmitPick")
	defer span.End()

	var req submitPickRequest
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

	submitted, err := h.pickService.SubmitPick(ctx, req.Token, req.Team)
	if err != nil {
		h.logger.WarnContext(ctx, "submit pick failed", "team", req.Team, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, pickToDTO(submitted))
}

func (h *Handler) ListRoundPicks(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListRoundPicks")
	defer span.End()

	picks, err := h.pickService.ListRoundPicks(ctx, r.PathValue("roundID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, picksToDTO(picks))
}

func (h *Handler) ListPlayerPicks(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPlayerPicks")
	defer span.End()

	picks, err := h.pickService.ListPlayerPicks(ctx, r.PathValue("playerID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, picksToDTO(picks))
}

func (h *Handler) ApplyMissedPicks(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ApplyMissedPicks")
	defer span.End()

	dryRun, _ := strconv.ParseBool(r.URL.Query().Get("dry_run"))

	plan, err := h.autoPickService.ApplyMissedPicks(ctx, r.PathValue("roundID"), dryRun)
	if err != nil {
		h.logger.WarnContext(ctx, "apply missed picks failed", "round_id", r.PathValue("roundID"), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, autoPickPlanToDTO(plan))
}

type issueTokenRequest struct {
	PlayerID string `json:"player_id" validate:"required"`
	RoundID  string `json:"round_id" validate:"required"`
}

func (h *Handler) IssueToken(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.IssueToken")
	defer span.End()

	var req issueTokenRequest
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

	token, err := h.tokenService.IssueToken(ctx, req.PlayerID, req.RoundID)
	if err != nil {
		h.logger.WarnContext(ctx, "issue token failed", "player_id", req.PlayerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, pickTokenToDTO(token))
}

func (h *Handler) IssueTokensForRound(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.IssueTokensForRound")
	defer span.End()

	tokens, err := h.tokenService.IssueTokensForRound(ctx, r.PathValue("roundID"))
	if err != nil && len(tokens) == 0 {
		h.logger.WarnContext(ctx, "bulk token issuance failed", "round_id", r.PathValue("roundID"), "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]pickTokenDTO, 0, len(tokens))
	for _, token := range tokens {
		out = append(out, pickTokenToDTO(token))
	}
	payload := map[string]any{"tokens": out, "issued": len(out)}
	if err != nil {
		payload["partial_failure"] = err.Error()
	}
	writeSuccess(ctx, w, http.StatusOK, payload)
}

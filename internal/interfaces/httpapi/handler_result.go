package httpapi

import (
	"fmt"
	"net/http"

	sonic "github.com/bytedance/sonic"

	"github.com/dmoloney/lastmanstanding/internal/usecase"
)

type applyResultsRequest struct {
	Results []fixtureResultRequest `json:"results" validate:"required,min=1,dive"`
}

type fixtureResultRequest struct {
	EventID   string `json:"event_id" validate:"required"`
	HomeScore int    `json:"home_score" validate:"gte=0"`
	AwayScore int    `json:"away_score" validate:"gte=0"`
}

func (h *Handler) ApplyResults(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ApplyResults")
	defer span.End()

	var req applyResultsRequest
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

	results := make([]usecase.FixtureResult, 0, len(req.Results))
	for _, res := range req.Results {
		results = append(results, usecase.FixtureResult{
			EventID:   res.EventID,
			HomeScore: res.HomeScore,
			AwayScore: res.AwayScore,
		})
	}

	summary, err := h.resultService.ApplyResults(ctx, r.PathValue("roundID"), results)
	if err != nil {
		h.logger.WarnContext(ctx, "apply results failed", "round_id", r.PathValue("roundID"), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, resultSummaryToDTO(summary))
}

func (h *Handler) RunRolloverCheck(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunRolloverCheck")
	defer span.End()

	outcome, err := h.rolloverService.RunRolloverCheck(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "rollover check failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, rolloverOutcomeToDTO(outcome))
}

func (h *Handler) ForceRolloverCheck(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ForceRolloverCheck")
	defer span.End()

	outcome, err := h.rolloverService.ForceRolloverCheck(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "forced rollover check failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, rolloverOutcomeToDTO(outcome))
}

func (h *Handler) ResumeRound(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ResumeRound")
	defer span.End()

	resumed, didResume, err := h.nextRoundService.ResumeIfFixturesAvailable(ctx, r.PathValue("roundID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]any{
		"resumed": didResume,
		"round":   roundToDTO(resumed),
	})
}

func (h *Handler) CheckNewSeason(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CheckNewSeason")
	defer span.End()

	resumed, didResume, err := h.nextRoundService.CheckNewSeason(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	payload := map[string]any{"resumed": didResume}
	if didResume {
		payload["round"] = roundToDTO(resumed)
	}
	writeSuccess(ctx, w, http.StatusOK, payload)
}

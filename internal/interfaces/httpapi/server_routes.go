package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerRoundRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/rounds", handler.ListRounds)
	mux.HandleFunc("POST /v1/rounds", handler.CreateRound)
	mux.HandleFunc("GET /v1/rounds/current", handler.GetCurrentRound)
	mux.HandleFunc("GET /v1/rounds/{roundID}", handler.GetRound)
	mux.HandleFunc("POST /v1/rounds/{roundID}/activate", handler.ActivateRound)
	mux.HandleFunc("POST /v1/rounds/{roundID}/results", handler.ApplyResults)
	mux.HandleFunc("POST /v1/rounds/{roundID}/resume", handler.ResumeRound)
	mux.HandleFunc("POST /v1/rollover/check", handler.RunRolloverCheck)
	mux.HandleFunc("POST /v1/rollover/force", handler.ForceRolloverCheck)
	mux.HandleFunc("POST /v1/season/check", handler.CheckNewSeason)
	mux.HandleFunc("GET /v1/matchdays/available", handler.ListAvailableMatchdays)
}

func registerPickRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("POST /v1/picks", handler.SubmitPick)
	mux.HandleFunc("GET /v1/rounds/{roundID}/picks", handler.ListRoundPicks)
	mux.HandleFunc("POST /v1/rounds/{roundID}/auto-picks", handler.ApplyMissedPicks)
	mux.HandleFunc("POST /v1/pick-tokens", handler.IssueToken)
	mux.HandleFunc("POST /v1/rounds/{roundID}/pick-tokens", handler.IssueTokensForRound)
}

func registerPlayerRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/players", handler.ListPlayers)
	mux.HandleFunc("POST /v1/players", handler.CreatePlayer)
	mux.HandleFunc("POST /v1/players/bulk", handler.BulkCreatePlayers)
	mux.HandleFunc("GET /v1/players/{playerID}", handler.GetPlayer)
	mux.HandleFunc("GET /v1/players/{playerID}/picks", handler.ListPlayerPicks)
	mux.HandleFunc("PATCH /v1/players/{playerID}/status", handler.UpdatePlayerStatus)
	mux.HandleFunc("DELETE /v1/players/{playerID}", handler.DeletePlayer)
	mux.HandleFunc("POST /v1/admin/reset", handler.ResetPool)
}

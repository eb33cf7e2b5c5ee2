package app

import (
	"net/http"

	"github.com/jmoiron/sqlx"

	"github.com/dmoloney/lastmanstanding/external/footballdata"
	"github.com/dmoloney/lastmanstanding/internal/config"
	"github.com/dmoloney/lastmanstanding/internal/infrastructure/repository/postgres"
	"github.com/dmoloney/lastmanstanding/internal/interfaces/httpapi"
	"github.com/dmoloney/lastmanstanding/internal/platform/id"
	"github.com/dmoloney/lastmanstanding/internal/platform/logging"
	"github.com/dmoloney/lastmanstanding/internal/platform/resilience"
	"github.com/dmoloney/lastmanstanding/internal/usecase"
)

// NewHTTPServer wires repositories, services and the HTTP router into a
// ready-to-run server. The returned sqlx.DB must be closed by the caller
// on shutdown.
func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, *sqlx.DB, error) {
	if logger == nil {
		logger = logging.Default()
	}

	db, err := OpenDB(cfg)
	if err != nil {
		return nil, nil, err
	}

	playerRepo := postgres.NewPlayerRepository(db)
	roundRepo := postgres.NewRoundRepository(db)
	fixtureRepo := postgres.NewFixtureRepository(db)
	pickRepo := postgres.NewPickRepository(db)
	tokenRepo := postgres.NewPickTokenRepository(db)
	txManager := postgres.NewTxManager(db)

	ids := id.NewRandomGenerator()

	provider := footballdata.NewClient(footballdata.ClientConfig{
		BaseURL:       cfg.FootballAPIBaseURL,
		Token:         cfg.FootballAPIToken,
		CompetitionID: cfg.FootballAPICompetitionID,
		Season:        cfg.FootballAPISeason,
		Timeout:       cfg.FootballAPITimeout,
		MaxRetries:    cfg.FootballAPIMaxRetries,
		Logger:        logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.FootballAPICircuitEnabled,
			FailureThreshold: cfg.FootballAPICircuitFailureCount,
			OpenTimeout:      cfg.FootballAPICircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.FootballAPICircuitHalfOpenMaxRq,
		},
	})

	nextRoundService := usecase.NewNextRoundService(roundRepo, fixtureRepo, provider, txManager, ids, logger, cfg.NextRoundHorizon)
	rolloverService := usecase.NewRolloverService(roundRepo, fixtureRepo, pickRepo, playerRepo, nextRoundService, txManager, logger)
	resultService := usecase.NewResultService(roundRepo, fixtureRepo, pickRepo, playerRepo, rolloverService, txManager, logger)
	roundService := usecase.NewRoundService(roundRepo, fixtureRepo, provider, txManager, ids, logger)
	tokenService := usecase.NewTokenService(tokenRepo, playerRepo, roundRepo, ids, logger, cfg.PickDeadlineLead, cfg.PickTokenFallbackTTL)
	pickService := usecase.NewPickService(pickRepo, tokenRepo, roundRepo, fixtureRepo, txManager, ids, logger)
	autoPickService := usecase.NewAutoPickService(pickRepo, playerRepo, roundRepo, fixtureRepo, txManager, ids, logger, cfg.PickDeadlineLead)
	playerService := usecase.NewPlayerService(playerRepo, pickRepo, tokenRepo, roundRepo, fixtureRepo, txManager, ids, logger)

	handler := httpapi.NewHandler(
		roundService,
		resultService,
		rolloverService,
		nextRoundService,
		pickService,
		autoPickService,
		tokenService,
		playerService,
		logger,
	)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      httpapi.NewRouter(handler, logger),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return server, db, nil
}

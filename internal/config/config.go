package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dmoloney/lastmanstanding/internal/platform/logging"
)

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv         string
	ServiceName    string
	ServiceVersion string
	HTTPAddr       string
	DBURL          string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	LogLevel       logging.Level

	FootballAPIBaseURL              string
	FootballAPIToken                string
	FootballAPICompetitionID        int
	FootballAPISeason               string
	FootballAPITimeout              time.Duration
	FootballAPIMaxRetries           int
	FootballAPICircuitEnabled       bool
	FootballAPICircuitFailureCount  int
	FootballAPICircuitOpenTimeout   time.Duration
	FootballAPICircuitHalfOpenMaxRq int

	NextRoundHorizon     time.Duration
	PickDeadlineLead     time.Duration
	PickTokenFallbackTTL time.Duration

	UptraceEnabled bool
	UptraceDSN     string

	PyroscopeEnabled       bool
	PyroscopeServerAddress string
	PyroscopeAppName       string
	PyroscopeAuthToken     string
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	readTimeout, err := time.ParseDuration(getEnv("APP_READ_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_READ_TIMEOUT: %w", err)
	}
	writeTimeout, err := time.ParseDuration(getEnv("APP_WRITE_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_WRITE_TIMEOUT: %w", err)
	}

	apiTimeout, err := time.ParseDuration(getEnv("FOOTBALL_API_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse FOOTBALL_API_TIMEOUT: %w", err)
	}
	apiMaxRetries, err := getEnvAsInt("FOOTBALL_API_MAX_RETRIES", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse FOOTBALL_API_MAX_RETRIES: %w", err)
	}
	apiCompetitionID, err := getEnvAsInt("FOOTBALL_API_COMPETITION_ID", 2021)
	if err != nil {
		return Config{}, fmt.Errorf("parse FOOTBALL_API_COMPETITION_ID: %w", err)
	}
	circuitEnabled, err := strconv.ParseBool(getEnv("FOOTBALL_API_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse FOOTBALL_API_CIRCUIT_ENABLED: %w", err)
	}
	circuitFailureCount, err := getEnvAsInt("FOOTBALL_API_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse FOOTBALL_API_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	circuitOpenTimeout, err := time.ParseDuration(getEnv("FOOTBALL_API_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse FOOTBALL_API_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	circuitHalfOpenMaxReq, err := getEnvAsInt("FOOTBALL_API_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse FOOTBALL_API_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}

	horizonDays, err := getEnvAsInt("NEXT_ROUND_HORIZON_DAYS", 45)
	if err != nil {
		return Config{}, fmt.Errorf("parse NEXT_ROUND_HORIZON_DAYS: %w", err)
	}
	deadlineLead, err := time.ParseDuration(getEnv("PICK_DEADLINE_LEAD", "1h"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PICK_DEADLINE_LEAD: %w", err)
	}
	tokenFallbackTTL, err := time.ParseDuration(getEnv("PICK_TOKEN_FALLBACK_TTL", "168h"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PICK_TOKEN_FALLBACK_TTL: %w", err)
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}

	cfg := Config{
		AppEnv:         appEnv,
		ServiceName:    getEnv("SERVICE_NAME", "lastmanstanding"),
		ServiceVersion: getEnv("SERVICE_VERSION", "dev"),
		HTTPAddr:       getEnv("APP_HTTP_ADDR", ":8080"),
		DBURL:          strings.TrimSpace(getEnv("DB_URL", "")),
		ReadTimeout:    readTimeout,
		WriteTimeout:   writeTimeout,
		LogLevel:       parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),

		FootballAPIBaseURL:              strings.TrimSpace(getEnv("FOOTBALL_API_BASE_URL", "https://api.football-data.org/v4")),
		FootballAPIToken:                strings.TrimSpace(getEnv("FOOTBALL_API_TOKEN", "")),
		FootballAPICompetitionID:        apiCompetitionID,
		FootballAPISeason:               strings.TrimSpace(getEnv("FOOTBALL_API_SEASON", "")),
		FootballAPITimeout:              apiTimeout,
		FootballAPIMaxRetries:           apiMaxRetries,
		FootballAPICircuitEnabled:       circuitEnabled,
		FootballAPICircuitFailureCount:  circuitFailureCount,
		FootballAPICircuitOpenTimeout:   circuitOpenTimeout,
		FootballAPICircuitHalfOpenMaxRq: circuitHalfOpenMaxReq,

		NextRoundHorizon:     time.Duration(horizonDays) * 24 * time.Hour,
		PickDeadlineLead:     deadlineLead,
		PickTokenFallbackTTL: tokenFallbackTTL,

		UptraceEnabled: uptraceEnabled,
		UptraceDSN:     uptraceDSN,

		PyroscopeEnabled:       pyroscopeEnabled,
		PyroscopeServerAddress: pyroscopeServerAddress,
		PyroscopeAuthToken:     strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))

	if cfg.DBURL == "" {
		return Config{}, fmt.Errorf("DB_URL is required")
	}

	return cfg, nil
}

func parseAppEnv(v string) (string, error) {
	v = strings.ToLower(strings.TrimSpace(v))
	switch v {
	case EnvDev, EnvStage, EnvProd:
		return v, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

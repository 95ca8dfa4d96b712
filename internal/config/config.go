package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds the runtime settings shared by the binaries.
type Config struct {
	Port               string
	DBDriver           string
	DBPath             string
	DatabaseURL        string
	MapQuestAPIKey     string
	MapQuestBaseURL    string
	RedisURL           string
	RouteCacheTTL      time.Duration
	CORSAllowedOrigins []string
	SimMaxSteps        int
	RouteSeedPath      string
}

// Get returns the environment value for key, or fallback when unset or blank.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := Get(key, "")
	if raw == "" {
		return fallback, nil
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("config: %s must not be negative", key)
	}
	return d, nil
}

func getInt(key string, fallback int) (int, error) {
	raw := Get(key, "")
	if raw == "" {
		return fallback, nil
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("config: %s must be positive", key)
	}
	return n, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Load reads the configuration from the environment. Callers are expected
// to have loaded any .env file first.
func Load() (Config, error) {
	cfg := Config{
		Port:               Get("PORT", "8080"),
		DBDriver:           strings.ToLower(Get("DB_DRIVER", DriverSQLite)),
		DBPath:             Get("DB_PATH", "data/app.db"),
		DatabaseURL:        Get("DATABASE_URL", ""),
		MapQuestAPIKey:     Get("MAPQUEST_API_KEY", ""),
		MapQuestBaseURL:    Get("MAPQUEST_BASE_URL", ""),
		RedisURL:           Get("REDIS_URL", ""),
		CORSAllowedOrigins: splitList(Get("CORS_ALLOWED_ORIGINS", "http://localhost:5173")),
		RouteSeedPath:      Get("ROUTE_SEED_PATH", "data/seeds/routes.json"),
	}

	var err error
	if cfg.RouteCacheTTL, err = getDuration("ROUTE_CACHE_TTL", 24*time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.SimMaxSteps, err = getInt("SIM_MAX_STEPS", 100_000); err != nil {
		return Config{}, err
	}

	switch cfg.DBDriver {
	case DriverSQLite:
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			return Config{}, errors.New("config: DATABASE_URL is required when DB_DRIVER=postgres")
		}
	default:
		return Config{}, fmt.Errorf("config: unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	return cfg, nil
}

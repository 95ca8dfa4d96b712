package main

import (
	"context"
	"errors"
	"fmt"
	"hos-trip-planner/internal/adapters/cache"
	"hos-trip-planner/internal/adapters/repositories"
	"hos-trip-planner/internal/adapters/routing"
	"hos-trip-planner/internal/api"
	"hos-trip-planner/internal/config"
	"hos-trip-planner/internal/platform/db"
	"hos-trip-planner/internal/ports"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
)

// storage bundles the persistence adapters selected by DB_DRIVER.
type storage struct {
	repo    ports.TripRepository
	cache   ports.RouteCache
	closers []func()
}

func (s *storage) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

// main is the application composition root.
// It wires concrete adapters (SQLite/Postgres, Redis, MapQuest) behind ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if cfg.MapQuestAPIKey == "" {
		log.Fatal("MAPQUEST_API_KEY is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	store, err := openStorage(ctx, cfg)
	cancel()
	if err != nil {
		log.Fatal(err)
	}
	defer store.Close()

	// MapQuest provider checks the route cache before every directions call.
	provider, err := routing.NewMapQuestProvider(cfg.MapQuestAPIKey, cfg.MapQuestBaseURL, store.cache)
	if err != nil {
		log.Fatal(err)
	}

	router := api.NewRouter(store.repo, provider, api.RouterOptions{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		MaxSteps:       cfg.SimMaxSteps,
	})

	// Timeouts are tuned for cold-cache trip planning (two external route lookups).
	log.Printf("Server listening addr=:%s db_driver=%s", cfg.Port, cfg.DBDriver)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}

func openStorage(ctx context.Context, cfg config.Config) (*storage, error) {
	store := &storage{}
	var sqlCache ports.RouteCache

	switch cfg.DBDriver {
	case config.DriverPostgres:
		sqlDB, err := db.OpenPostgres(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		store.closers = append(store.closers, func() { sqlDB.Close() })

		if err := repositories.InitPostgresSchema(ctx, sqlDB); err != nil {
			store.Close()
			return nil, fmt.Errorf("open storage: %w", err)
		}

		pool, err := db.OpenPostgresPool(ctx, cfg.DatabaseURL)
		if err != nil {
			store.Close()
			return nil, err
		}
		store.closers = append(store.closers, pool.Close)

		store.repo = repositories.NewPostgresTripRepository(pool)
		sqlCache = cache.NewSQLRouteCache(sqlDB)

	default:
		if dir := filepath.Dir(cfg.DBPath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("open storage: create %q: %w", dir, err)
			}
		}

		sqliteDB, err := db.OpenSQLite(cfg.DBPath)
		if err != nil {
			return nil, err
		}
		store.closers = append(store.closers, func() { sqliteDB.Close() })

		if err := repositories.InitSchema(sqliteDB); err != nil {
			store.Close()
			return nil, fmt.Errorf("open storage: %w", err)
		}

		store.repo = repositories.NewSqliteTripRepository(sqliteDB)
		sqlCache = cache.NewSqliteRouteCache(sqliteDB)
	}

	store.cache = sqlCache

	// Redis sits in front of the SQL cache so several servers share route lookups.
	if cfg.RedisURL != "" {
		client, err := db.OpenRedis(ctx, cfg.RedisURL)
		if err != nil {
			store.Close()
			return nil, err
		}
		store.closers = append(store.closers, func() { client.Close() })

		store.cache = cache.NewTieredRouteCache(cache.NewRedisRouteCache(client, cfg.RouteCacheTTL), sqlCache)
		log.Printf("route cache tiers=redis,%s ttl=%s", cfg.DBDriver, cfg.RouteCacheTTL)
	}

	return store, nil
}

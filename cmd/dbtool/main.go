package main

import (
	"context"
	"database/sql"
	"flag"
	"hos-trip-planner/internal/adapters/cache"
	"hos-trip-planner/internal/adapters/repositories"
	"hos-trip-planner/internal/config"
	"hos-trip-planner/internal/platform/db"
	"hos-trip-planner/internal/ports"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
)

// dbtool initializes the schema for the configured database and seeds the route cache.
func main() {
	skipSeed := flag.Bool("skip-seed", false, "only initialize the schema")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	conn, routeCache, err := initSchema(ctx, cfg)
	if err != nil {
		log.Fatalf("schema initialization failed: %v", err)
	}
	defer conn.Close()
	log.Println("Schema ready.")

	if *skipSeed {
		return
	}

	if cfg.RedisURL != "" {
		client, err := db.OpenRedis(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatal(err)
		}
		defer client.Close()
		routeCache = cache.NewTieredRouteCache(cache.NewRedisRouteCache(client, cfg.RouteCacheTTL), routeCache)
	}

	log.Printf("Seeding route cache from %s...", cfg.RouteSeedPath)
	n, err := repositories.SeedRoutesFromJSON(ctx, routeCache, cfg.RouteSeedPath)
	if err != nil {
		log.Fatalf("seeding failed: %v", err)
	}
	log.Printf("Seeding complete. routes=%d", n)
}

func initSchema(ctx context.Context, cfg config.Config) (*sql.DB, ports.RouteCache, error) {
	log.Printf("Initializing %s database schema...", cfg.DBDriver)

	if cfg.DBDriver == config.DriverPostgres {
		conn, err := db.OpenPostgres(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		if err := repositories.InitPostgresSchema(ctx, conn); err != nil {
			conn.Close()
			return nil, nil, err
		}
		return conn, cache.NewSQLRouteCache(conn), nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		return nil, nil, err
	}
	conn, err := db.OpenSQLite(cfg.DBPath)
	if err != nil {
		return nil, nil, err
	}
	if err := repositories.InitSchema(conn); err != nil {
		conn.Close()
		return nil, nil, err
	}
	return conn, cache.NewSqliteRouteCache(conn), nil
}

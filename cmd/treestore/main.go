package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"arbor/internal/config"
	forestRepo "arbor/internal/domain/repositories/forest"
	"arbor/internal/handler"
	"arbor/internal/middleware"
	"arbor/internal/repository/memory"
	"arbor/internal/repository/postgres"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	reset := flag.Bool("reset", false, "Drop the trees table before serving (postgres only)")
	flag.Parse()

	_ = godotenv.Load()

	cfg := config.Load()

	// SAFETY: Prevent destructive operations in production
	if cfg.Environment == "prod" && *reset {
		log.Fatalf("BLOCKED: cannot run -reset in production environment")
	}

	logger, logCloser, err := config.NewLogger(cfg, "treestore")
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer logCloser.Close()
	slog.SetDefault(logger)

	var store forestRepo.TreeStore
	if cfg.StoreDBURL != "" {
		ctx := context.Background()
		pool, err := postgres.CreateConnectionPool(ctx, cfg.StoreDBURL)
		if err != nil {
			log.Fatalf("Failed to create connection pool: %v", err)
		}
		defer pool.Close()

		tables := postgres.NewTableNames(cfg.TablePrefix)
		if *reset {
			if err := postgres.DropSchema(ctx, pool, tables); err != nil {
				log.Fatalf("Failed to drop trees table: %v", err)
			}
			logger.Warn("trees table dropped", "table", tables.Trees)
		}
		if err := postgres.EnsureSchema(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to ensure schema: %v", err)
		}

		store = postgres.NewTreeStore(&postgres.RepositoryConfig{
			Pool:   pool,
			Tables: tables,
			Logger: logger,
		})
		logger.Info("tree store backed by postgres", "table", tables.Trees)
	} else {
		store = memory.NewTreeStore()
		logger.Warn("STORE_DB_URL not set, trees are kept in memory only")
	}

	mux := http.NewServeMux()
	handler.NewTreeHandler(store, logger).RegisterRoutes(mux)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	h := middleware.Standard(logger)(mux)

	// CORS wraps everything so pre-flight requests never reach the routes
	corsHandler := cors.New(cors.Options{
		AllowedOrigins: strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Origin", "Content-Type", "Accept", middleware.RequestIDHeader},
	})
	h = corsHandler.Handler(h)

	server := &http.Server{
		Addr:         ":" + cfg.StorePort,
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("tree store listening", "port", cfg.StorePort, "environment", cfg.Environment)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start tree store: %v", err)
	}
}

package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"time"

	"arbor/internal/config"
	"arbor/internal/handler"
	"arbor/internal/middleware"
	"arbor/internal/repository/remote"
	forestService "arbor/internal/service/forest"

	"github.com/joho/godotenv"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg := config.Load()

	logger, logCloser, err := config.NewLogger(cfg, "server")
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer logCloser.Close()
	slog.SetDefault(logger)

	logger.Info("editor starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"tree_store_url", cfg.TreeStoreURL,
	)

	store := remote.NewClient(cfg.TreeStoreURL, logger)
	editor := forestService.NewEditorService(store, logger)

	// An unreachable store leaves the editor empty; the page still renders
	if err := editor.Load(context.Background()); err != nil {
		logger.Error("initial forest load failed", "error", err)
	}

	editorHandler, err := handler.NewEditorHandler(editor, logger)
	if err != nil {
		log.Fatalf("Failed to create editor handler: %v", err)
	}

	mux := http.NewServeMux()
	editorHandler.RegisterRoutes(mux)

	h := middleware.Standard(logger)(mux)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("editor listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}

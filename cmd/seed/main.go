package main

import (
	"context"
	"flag"
	"log"
	"os"

	"arbor/internal/config"
	models "arbor/internal/domain/models/forest"
	"arbor/internal/repository/remote"
	"arbor/internal/seed"

	"github.com/joho/godotenv"
)

func main() {
	fixturePath := flag.String("file", "", "YAML fixture to load (defaults to the embedded forest)")
	storeURL := flag.String("store", "", "Tree store base URL (defaults to TREE_STORE_URL)")
	flag.Parse()

	_ = godotenv.Load()

	cfg := config.Load()
	if *storeURL != "" {
		cfg.TreeStoreURL = *storeURL
	}

	// SAFETY: Seeding appends trees; never run it against production
	if cfg.Environment == "prod" {
		log.Fatalf("BLOCKED: refusing to seed in production environment")
	}

	logger, logCloser, err := config.NewLogger(cfg, "seed")
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer logCloser.Close()

	var forest models.Forest
	if *fixturePath != "" {
		data, err := os.ReadFile(*fixturePath)
		if err != nil {
			log.Fatalf("Failed to read fixture: %v", err)
		}
		forest, err = seed.ParseFixture(data)
		if err != nil {
			log.Fatalf("Failed to parse fixture: %v", err)
		}
	} else {
		forest, err = seed.DefaultFixture()
		if err != nil {
			log.Fatalf("Failed to parse embedded fixture: %v", err)
		}
	}

	logger.Info("seeding tree store",
		"store_url", cfg.TreeStoreURL,
		"environment", cfg.Environment,
		"tree_count", len(forest),
	)

	client := remote.NewClient(cfg.TreeStoreURL, logger)
	seeded, err := seed.NewSeeder(client, logger).Seed(context.Background(), forest)
	if err != nil {
		log.Fatalf("Seeding stopped after %d trees: %v", len(seeded), err)
	}

	logger.Info("seeding complete", "tree_count", len(seeded))
}

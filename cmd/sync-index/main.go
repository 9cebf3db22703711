// Command sync-index rebuilds the Elasticsearch open-day index from the
// database. Run it after enabling search on an existing deployment or after
// an index loss.
package main

import (
	"context"
	"time"

	"jpo/internal/config"
	"jpo/internal/database"
	"jpo/internal/logger"
	"jpo/internal/repository"
	"jpo/internal/search"
	"jpo/internal/service"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel, "text")
	log := logger.Get()

	db, err := database.Connect(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	defer db.Close()

	esClient, err := search.NewElasticsearchClient(cfg.Elasticsearch)
	if err != nil {
		logger.Fatal("Failed to connect to Elasticsearch", "error", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	if err := esClient.HealthCheck(ctx); err != nil {
		logger.Fatal("Elasticsearch is not healthy", "error", err)
	}

	repos := repository.NewRepositories(db)
	openDays := service.NewOpenDayService(repos.OpenDays, repos.Campuses, repos.Comments, esClient, nil)

	indexed, err := openDays.Reindex(ctx)
	if err != nil {
		logger.Fatal("Reindex failed", "error", err, "indexed", indexed)
	}

	log.Info("Reindex complete", "indexed", indexed)
}

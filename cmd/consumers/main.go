package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"jpo/cmd/consumers/jobs"
	"jpo/internal/cache"
	"jpo/internal/config"
	"jpo/internal/consumers"
	"jpo/internal/database"
	"jpo/internal/logger"
	"jpo/internal/messaging"
	"jpo/internal/repository"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogFormat)

	db, err := database.Connect(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	defer db.Close()

	natsCfg := cfg.NATS
	natsCfg.ClientID = "jpo-consumers"
	natsClient, err := messaging.NewNATSClient(natsCfg)
	if err != nil {
		logger.Fatal("Failed to connect to NATS", "error", err)
	}
	defer natsClient.Close()

	valkeyClient, err := cache.NewValkeyClient(cfg.Valkey)
	if err != nil {
		logger.Fatal("Failed to connect to Valkey", "error", err)
	}
	defer valkeyClient.Close()

	repos := repository.NewRepositories(db)

	svc := consumers.New(natsClient, valkeyClient, repos)
	if err := svc.Start(); err != nil {
		logger.Fatal("Failed to start consumers", "error", err)
	}
	defer svc.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	snapshot := jobs.NewCapacitySnapshot(repos, valkeyClient, time.Minute)
	go snapshot.Run(ctx)

	logger.Get().Info("Consumers running")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Get().Info("Shutting down consumers")
}

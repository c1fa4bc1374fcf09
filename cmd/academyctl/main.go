package main

import (
	"context"
	"log"
	"os"

	"go.uber.org/zap"

	"sambo-academy/internal/models/config"
	"sambo-academy/internal/repository/postgres"
	subscription_service "sambo-academy/internal/service/subscription"
	database "sambo-academy/pkg"
)

func main() {
	if err := config.Load(); err != nil {
		log.Fatalf("load config: %v", err)
	}
	cfg := config.AppConfig

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()
	db, err := database.NewPostgres(ctx, cfg.Database, logger)
	if err != nil {
		logger.Fatal("connect database", zap.Error(err))
	}
	defer db.Close()

	store := postgres.NewStore(db, logger)
	cli := commandLine{
		db:            db.DB,
		subscriptions: subscription_service.NewSubscriptionService(store, logger, cfg.Subscription.ExpiryDays),
		out:           os.Stdout,
	}
	if err := cli.run(ctx, os.Args); err != nil {
		if err != errHelp {
			logger.Error("command failed", zap.Error(err))
		}
		_ = db.Close()
		os.Exit(1)
	}
}

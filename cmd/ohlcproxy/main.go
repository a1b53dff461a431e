package main

import (
	"context"
	"os/signal"
	"syscall"

	"ohlcproxy/config"
	"ohlcproxy/internal/collector"
	"ohlcproxy/logger"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// optional .env for local runs
	_ = godotenv.Load()

	// viper config
	cfg := config.Load()

	// zap logger
	log, err := logger.New(cfg.Log)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := collector.Run(ctx, cfg, log); err != nil {
		log.Fatal("collector failed", zap.Error(err))
	}
}

package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/futig/practice-analyzer/internal/builder"
	"go.uber.org/zap"
)

func main() {
	bot, logger, cleanup, err := builder.BuildTelegramBot()
	if err != nil {
		log.Fatal("Failed to build telegram bot: ", err)
	}
	defer cleanup()
	defer logger.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := bot.Start(ctx); err != nil {
		logger.Error("telegram bot error", zap.Error(err))
		return
	}

	<-ctx.Done()
	logger.Info("received shutdown signal")

	if err := bot.Stop(); err != nil {
		logger.Error("error stopping bot", zap.Error(err))
		return
	}
	logger.Info("telegram bot stopped gracefully")
}

package telegram

import (
	"context"
	"fmt"

	"github.com/futig/practice-analyzer/internal/config"
	"github.com/futig/practice-analyzer/internal/pkg/validator"
	"github.com/futig/practice-analyzer/internal/telegram/bot"
	"github.com/futig/practice-analyzer/internal/telegram/buffer"
	"github.com/futig/practice-analyzer/internal/telegram/handlers"
	pkgHTTP "github.com/futig/practice-analyzer/pkg/http"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Bot is the main telegram bot interface
type Bot interface {
	Start(ctx context.Context) error
	Stop() error
}

// NewBot authorizes with the Bot API and wires the bot around usecase.
func NewBot(
	cfg *config.TelegramConfig,
	uploadCfg config.FileUploadConfig,
	usecase handlers.AnalysisUsecase,
	logger *zap.Logger,
) (Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("create bot API: %w", err)
	}

	logger.Info("telegram bot authorized",
		zap.String("username", api.Self.UserName),
		zap.Int64("id", api.Self.ID),
	)

	// No request logging: file URLs carry the bot token.
	connector := pkgHTTP.NewConnector(
		&pkgHTTP.ConnectorConfig{Logger: logger},
		pkgHTTP.WithRequestTimeout(cfg.DownloadTimeout),
	)

	handler := handlers.NewHandler(
		api,
		usecase,
		buffer.NewStore(cfg.BufferTTL),
		handlers.NewTelegramDownloader(api, connector),
		validator.NewFileValidator(uploadCfg),
		uploadCfg.MaxFileCount,
		logger,
	)

	logger.Info("telegram bot initialized successfully")

	return bot.New(cfg, api, api, handler, logger), nil
}

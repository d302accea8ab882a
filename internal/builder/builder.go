package builder

import (
	"context"
	"fmt"
	"net/http"

	"github.com/futig/practice-analyzer/internal/api"
	analysisapi "github.com/futig/practice-analyzer/internal/api/analysis"
	"github.com/futig/practice-analyzer/internal/config"
	"github.com/futig/practice-analyzer/internal/integration/localmodel"
	"github.com/futig/practice-analyzer/internal/integration/openrouter"
	"github.com/futig/practice-analyzer/internal/pkg/formatter"
	"github.com/futig/practice-analyzer/internal/pkg/validator"
	"github.com/futig/practice-analyzer/internal/telegram"
	"github.com/futig/practice-analyzer/internal/usecase/analysis"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

func Build() (*App, error) {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := setupLogger(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}

	logger.Info("Building application",
		zap.String("environment", cfg.Environment),
		zap.String("server_addr", cfg.ServerAddr),
	)

	analysisUC, db, err := buildAnalysisUsecase(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	analysisHandler := analysisapi.NewHandler(analysisUC, cfg.FileUploadCfg, formatter.NewFactory())
	router := api.SetupRouter(analysisHandler, cfg.HandlerTimeout, logger)
	logger.Info("HTTP router configured")

	server := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  cfg.ServerIdleTimeout,
	}

	logger.Info("Application built successfully",
		zap.String("environment", cfg.Environment),
	)

	return &App{
		server: server,
		db:     db,
		logger: logger,
	}, nil
}

// BuildTelegramBot creates and initializes the Telegram bot. The returned
// cleanup closes the history pool, if any.
func BuildTelegramBot() (telegram.Bot, *zap.Logger, func(), error) {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := setupLogger(cfg.LogLevel)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("setup logger: %w", err)
	}

	if cfg.TelegramCfg.BotToken == "" {
		return nil, nil, nil, fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}

	logger.Info("Building Telegram bot",
		zap.String("environment", cfg.Environment),
	)

	analysisUC, db, err := buildAnalysisUsecase(ctx, cfg, logger)
	if err != nil {
		return nil, nil, nil, err
	}
	cleanup := func() {
		if db != nil {
			db.Close()
		}
	}

	bot, err := telegram.NewBot(&cfg.TelegramCfg, cfg.FileUploadCfg, analysisUC, logger)
	if err != nil {
		cleanup()
		return nil, nil, nil, fmt.Errorf("initialize telegram bot: %w", err)
	}

	logger.Info("Telegram bot built successfully",
		zap.String("environment", cfg.Environment),
	)

	return bot, logger, cleanup, nil
}

func buildAnalysisUsecase(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*analysis.AnalysisUsecase, *pgxpool.Pool, error) {
	db, store, err := setupHistory(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	// A nil *AnalysisPostgres must stay a nil interface.
	var repo analysis.AnalysisRepository
	if store != nil {
		repo = store
	}

	var chat analysis.ChatConnector
	var generator analysis.Generator
	if cfg.EnableMocks {
		logger.Info("Using mock connectors for external services")
		chat = openrouter.NewMockConnector(logger)
		generator = localmodel.NewMockConnector()
	} else {
		logger.Info("Using real connectors for external services",
			zap.String("model", cfg.OpenRouterCfg.Model),
			zap.String("local_model", cfg.LocalModelCfg.ServedModel()),
		)
		chat = openrouter.NewConnector(cfg.OpenRouterCfg, logger)
		generator = localmodel.NewConnector(cfg.LocalModelCfg, logger)
	}

	uc := analysis.NewUsecase(
		validator.NewFileValidator(cfg.FileUploadCfg),
		chat,
		generator,
		repo,
		cfg.AnalysisCacheTTL,
		logger,
	)
	logger.Info("Use cases initialized",
		zap.Bool("history", uc.HistoryEnabled()),
		zap.Duration("cache_ttl", cfg.AnalysisCacheTTL),
	)

	return uc, db, nil
}

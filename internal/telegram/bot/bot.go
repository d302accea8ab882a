package bot

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/futig/practice-analyzer/internal/config"
	"github.com/futig/practice-analyzer/internal/pkg/logger"
	"github.com/futig/practice-analyzer/internal/telegram/handlers"
	"github.com/futig/practice-analyzer/internal/telegram/middleware"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

var ErrShutdownTimeout = errors.New("shutdown timeout exceeded")

// MessageHandler answers one normalized chat message.
type MessageHandler interface {
	Handle(ctx context.Context, msg *handlers.Message) error
}

// UpdateSource delivers updates; *tgbotapi.BotAPI implements it.
type UpdateSource interface {
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Bot represents the Telegram bot
type Bot struct {
	source      UpdateSource
	cfg         *config.TelegramConfig
	handler     MessageHandler
	logger      *zap.Logger
	rateLimitMW *middleware.RateLimiterMiddleware
	dispatch    func(tgbotapi.Update)
	baseCtx     context.Context
	cancel      context.CancelFunc
	started     bool
	stopChan    chan struct{}
	loopDone    chan struct{}
	wg          sync.WaitGroup
}

// New wires the middleware chain: rate limit, then logging, then recovery.
func New(
	cfg *config.TelegramConfig,
	source UpdateSource,
	sender middleware.Sender,
	handler MessageHandler,
	logger *zap.Logger,
) *Bot {
	b := &Bot{
		source:   source,
		cfg:      cfg,
		handler:  handler,
		logger:   logger,
		stopChan: make(chan struct{}),
		loopDone: make(chan struct{}),
	}

	b.rateLimitMW = middleware.NewRateLimiterMiddleware(cfg.RateLimitPerMinute, cfg.RateLimitBurst, logger, sender)
	b.dispatch = middleware.Chain(b.handleUpdate,
		b.rateLimitMW,
		middleware.NewLoggingMiddleware(logger),
		middleware.NewRecoveryMiddleware(logger, sender),
	)

	return b
}

// Start begins long polling. It returns immediately.
func (b *Bot) Start(ctx context.Context) error {
	b.logger.Info("starting telegram bot")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.cfg.UpdateTimeout
	updates := b.source.GetUpdatesChan(u)

	// Handlers outlive ctx so in-flight analyses can finish during Stop.
	b.baseCtx, b.cancel = context.WithCancel(ctxzap.ToContext(context.WithoutCancel(ctx), b.logger))

	b.started = true
	go b.processUpdates(ctx, updates)

	b.logger.Info("telegram bot started successfully")
	return nil
}

// Stop stops polling and waits for in-flight updates up to the shutdown timeout.
func (b *Bot) Stop() error {
	b.logger.Info("stopping telegram bot")

	if !b.started {
		b.rateLimitMW.Stop()
		return nil
	}

	close(b.stopChan)
	b.source.StopReceivingUpdates()
	<-b.loopDone
	defer b.rateLimitMW.Stop()

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()

	shutdownTimeout := time.Duration(b.cfg.ShutdownTimeout) * time.Second
	select {
	case <-done:
		b.logger.Info("all handlers completed gracefully")
	case <-time.After(shutdownTimeout):
		b.logger.Warn("shutdown timeout exceeded, cancelling handlers",
			zap.Duration("timeout", shutdownTimeout),
		)
		b.cancel()
		<-done
		return ErrShutdownTimeout
	}

	b.cancel()
	b.logger.Info("telegram bot stopped successfully")
	return nil
}

func (b *Bot) processUpdates(ctx context.Context, updates tgbotapi.UpdatesChannel) {
	defer close(b.loopDone)

	for {
		select {
		case <-ctx.Done():
			b.logger.Info("context cancelled, stopping update processing")
			return
		case <-b.stopChan:
			b.logger.Info("stop signal received, stopping update processing")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.wg.Add(1)
			go func(u tgbotapi.Update) {
				defer b.wg.Done()
				b.dispatch(u)
			}(update)
		}
	}
}

func (b *Bot) handleUpdate(update tgbotapi.Update) {
	if update.Message == nil || update.Message.Chat == nil {
		return
	}

	msg := handlers.NewMessage(update.Message)
	ctx := logger.WithChat(b.baseCtx, msg.ChatID)
	ctx = logger.AddFields(ctx, zap.Int("update_id", update.UpdateID))

	if err := b.handler.Handle(ctx, msg); err != nil {
		ctxzap.Error(ctx, "handler error", zap.Error(err))
	}
}

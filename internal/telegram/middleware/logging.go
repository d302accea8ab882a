package middleware

import (
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// LoggingMiddleware logs all incoming updates
type LoggingMiddleware struct {
	logger *zap.Logger
}

// NewLoggingMiddleware creates a new logging middleware
func NewLoggingMiddleware(logger *zap.Logger) *LoggingMiddleware {
	return &LoggingMiddleware{
		logger: logger,
	}
}

func messageType(msg *tgbotapi.Message) string {
	switch {
	case msg == nil:
		return "non_message"
	case msg.IsCommand():
		return "command"
	case msg.Document != nil:
		return "document"
	case len(msg.Photo) > 0:
		return "photo"
	case msg.Text != "":
		return "text"
	default:
		return "other"
	}
}

// Handle logs the update before and after the rest of the chain.
func (m *LoggingMiddleware) Handle(update tgbotapi.Update, next func(tgbotapi.Update)) {
	start := time.Now()
	userID, chatID, _ := ids(update)

	m.logger.Info("telegram update received",
		zap.Int64("user_id", userID),
		zap.Int64("chat_id", chatID),
		zap.String("type", messageType(update.Message)),
		zap.Int("update_id", update.UpdateID),
	)

	next(update)

	m.logger.Info("telegram update processed",
		zap.Int64("user_id", userID),
		zap.Int64("chat_id", chatID),
		zap.Duration("duration", time.Since(start)),
	)
}

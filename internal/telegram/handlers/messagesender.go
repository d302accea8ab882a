package handlers

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// MaxMessageLength is the Telegram limit for one text message.
const MaxMessageLength = 4096

// MessageSender provides centralized message sending functionality
type MessageSender struct {
	api    Sender
	logger *zap.Logger
}

// NewMessageSender creates a new MessageSender
func NewMessageSender(api Sender, logger *zap.Logger) *MessageSender {
	return &MessageSender{
		api:    api,
		logger: logger,
	}
}

// Send sends a message to the specified chat
func (s *MessageSender) Send(ctx context.Context, chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)

	if _, err := s.api.Send(msg); err != nil {
		ctxzap.Extract(ctx).Error("failed to send message",
			zap.Error(err),
			zap.Int64("chat_id", chatID),
		)
		return err
	}

	return nil
}

// SendLong sends text split into as many messages as the length limit needs.
func (s *MessageSender) SendLong(ctx context.Context, chatID int64, text string) error {
	for _, part := range SplitMessage(text, MaxMessageLength) {
		if err := s.Send(ctx, chatID, part); err != nil {
			return err
		}
	}
	return nil
}

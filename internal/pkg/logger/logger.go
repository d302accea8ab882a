package logger

import (
	"context"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// AddFields returns ctx whose logger carries fields.
func AddFields(ctx context.Context, fields ...zap.Field) context.Context {
	return ctxzap.ToContext(ctx, ctxzap.Extract(ctx).With(fields...))
}

// WithAction names the flow being logged, e.g. "AnalyzePractice".
func WithAction(ctx context.Context, action string) context.Context {
	return AddFields(ctx, zap.String("action", action))
}

// WithChat tags the logger with the Telegram chat an update came from.
func WithChat(ctx context.Context, chatID int64) context.Context {
	return AddFields(ctx, zap.Int64("chat_id", chatID))
}

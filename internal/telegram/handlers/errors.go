package handlers

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/futig/practice-analyzer/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// ErrorSeverity represents the severity level of an error
type ErrorSeverity int

const (
	SeverityWarning ErrorSeverity = iota
	SeverityError
)

// HandlerError pairs the text shown in the chat with how the failure is logged.
type HandlerError struct {
	Err         error
	UserMessage string
	LogMessage  string
	Severity    ErrorSeverity
}

// classifyHandlerError turns a use case error into a chat reply.
func classifyHandlerError(err error) *HandlerError {
	var uploadErr *entity.UploadError
	if errors.As(err, &uploadErr) {
		return &HandlerError{
			Err:         err,
			UserMessage: uploadErr.Message,
			LogMessage:  "upload rejected",
			Severity:    SeverityWarning,
		}
	}

	var upstreamErr *entity.UpstreamError
	if errors.As(err, &upstreamErr) {
		return &HandlerError{
			Err:         err,
			UserMessage: fmt.Sprintf(ErrUpstream, upstreamErr.Error()),
			LogMessage:  "upstream request failed",
			Severity:    SeverityError,
		}
	}

	switch {
	case errors.Is(err, entity.ErrEmptyGeneration):
		return &HandlerError{
			Err:         err,
			UserMessage: ErrEmptySheet,
			LogMessage:  "empty generation",
			Severity:    SeverityWarning,
		}
	case errors.Is(err, entity.ErrLocalModel):
		return &HandlerError{
			Err:         err,
			UserMessage: ErrLocalModel,
			LogMessage:  "local model request failed",
			Severity:    SeverityError,
		}
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return &HandlerError{
			Err:         err,
			UserMessage: ErrTimeout,
			LogMessage:  "operation timed out",
			Severity:    SeverityError,
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return &HandlerError{
			Err:         err,
			UserMessage: ErrNetwork,
			LogMessage:  "network error",
			Severity:    SeverityError,
		}
	}

	return &HandlerError{
		Err:         err,
		UserMessage: ErrGeneric,
		LogMessage:  "handler error",
		Severity:    SeverityError,
	}
}

// replyError logs err and tells the chat what went wrong.
func (h *Handler) replyError(ctx context.Context, chatID int64, err error) error {
	handlerErr := classifyHandlerError(err)

	fields := []zap.Field{zap.Error(handlerErr.Err), zap.Int64("chat_id", chatID)}
	if handlerErr.Severity == SeverityWarning {
		ctxzap.Warn(ctx, handlerErr.LogMessage, fields...)
	} else {
		ctxzap.Error(ctx, handlerErr.LogMessage, fields...)
	}

	return h.sender.Send(ctx, chatID, handlerErr.UserMessage)
}

package handlers

import (
	"context"
	"fmt"

	"github.com/futig/practice-analyzer/internal/entity"
	"github.com/futig/practice-analyzer/internal/pkg/logger"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

func (h *Handler) handleAnalyze(ctx context.Context, msg *Message) error {
	ctx = logger.WithAction(ctx, "telegram_analyze")

	files := h.buffer.Files(msg.ChatID)
	if len(files) == 0 {
		return h.sender.Send(ctx, msg.ChatID, MsgNoFiles)
	}

	stop := startTyping(ctx, h.api, msg.ChatID)
	resp, err := h.usecase.Analyze(ctx, &entity.AnalyzeRequest{Files: files})
	stop()
	if err != nil {
		return h.replyError(ctx, msg.ChatID, err)
	}

	// Files uploaded while the analysis ran stay buffered for the next one.
	h.buffer.DropFiles(msg.ChatID, len(files))
	h.buffer.SetLastAnalysis(msg.ChatID, resp.Response)

	ctxzap.Info(ctx, "analysis delivered",
		zap.Int64("chat_id", msg.ChatID),
		zap.String("analysis_id", resp.AnalysisID),
		zap.Int("total_files", resp.TotalFiles),
	)

	if err := h.sender.SendLong(ctx, msg.ChatID, resp.Response); err != nil {
		return err
	}
	return h.sender.Send(ctx, msg.ChatID, fmt.Sprintf(MsgAnalysisFooter, resp.ModelUsed, resp.TotalFiles))
}

func (h *Handler) handleSheet(ctx context.Context, msg *Message) error {
	ctx = logger.WithAction(ctx, "telegram_reference_sheet")

	analysis, ok := h.buffer.LastAnalysis(msg.ChatID)
	if !ok {
		return h.sender.Send(ctx, msg.ChatID, MsgNoAnalysis)
	}

	stop := startTyping(ctx, h.api, msg.ChatID)
	sheet, err := h.usecase.GenerateReferenceSheet(ctx, analysis)
	stop()
	if err != nil {
		return h.replyError(ctx, msg.ChatID, err)
	}

	return h.sender.SendLong(ctx, msg.ChatID, sheet.Text)
}

func (h *Handler) handleClear(ctx context.Context, msg *Message) error {
	n := h.buffer.ClearFiles(msg.ChatID)
	if n == 0 {
		return h.sender.Send(ctx, msg.ChatID, MsgNothingToClear)
	}
	return h.sender.Send(ctx, msg.ChatID, fmt.Sprintf(MsgCleared, n))
}

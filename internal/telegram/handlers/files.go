package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/futig/practice-analyzer/internal/entity"
	"github.com/futig/practice-analyzer/internal/pkg/validator"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// MaxDownloadBytes is the Bot API limit for getFile downloads.
const MaxDownloadBytes = 20 * 1024 * 1024

func (h *Handler) handleDocument(ctx context.Context, msg *Message) error {
	doc := msg.Document

	name := strings.TrimSpace(validator.SanitizeFilename(doc.FileName))
	if name == "" {
		name = "document_" + doc.FileUniqueID
	}

	if _, err := h.validator.CheckExtension(name); err != nil {
		return h.replyError(ctx, msg.ChatID, err)
	}

	return h.bufferFile(ctx, msg.ChatID, doc.FileID, name, int64(doc.FileSize))
}

// handlePhoto buffers the largest size Telegram offers for the photo.
func (h *Handler) handlePhoto(ctx context.Context, msg *Message) error {
	photo := msg.Photo[0]
	for _, p := range msg.Photo[1:] {
		if p.Width*p.Height > photo.Width*photo.Height {
			photo = p
		}
	}

	name := fmt.Sprintf("photo_%s.jpg", photo.FileUniqueID)
	return h.bufferFile(ctx, msg.ChatID, photo.FileID, name, int64(photo.FileSize))
}

func (h *Handler) bufferFile(ctx context.Context, chatID int64, fileID, name string, size int64) error {
	if size > MaxDownloadBytes {
		return h.sender.Send(ctx, chatID, fmt.Sprintf(MsgFileTooBig, name))
	}

	if h.maxFiles > 0 && len(h.buffer.Files(chatID)) >= h.maxFiles {
		return h.sender.Send(ctx, chatID, fmt.Sprintf(MsgBufferFull, h.maxFiles))
	}

	data, err := h.downloader.Download(ctx, fileID)
	if err != nil {
		ctxzap.Error(ctx, "failed to download file",
			zap.Error(err),
			zap.String("file_name", name),
			zap.Int64("chat_id", chatID),
		)
		return h.sender.Send(ctx, chatID, fmt.Sprintf(ErrDownload, name))
	}

	count := h.buffer.AddFile(chatID, entity.UploadedFile{Filename: name, Content: data})

	ctxzap.Debug(ctx, "file buffered",
		zap.String("file_name", name),
		zap.Int("size", len(data)),
		zap.Int("buffered", count),
	)

	return h.sender.Send(ctx, chatID, fmt.Sprintf(MsgFileSaved, name, count))
}

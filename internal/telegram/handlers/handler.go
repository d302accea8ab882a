package handlers

import (
	"context"
	"strings"

	"github.com/futig/practice-analyzer/internal/pkg/validator"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Message represents a normalized Telegram message
type Message struct {
	ChatID    int64
	UserID    int64
	MessageID int
	Text      string
	Command   string
	Document  *tgbotapi.Document
	Photo     []tgbotapi.PhotoSize
}

// NewMessage normalizes an incoming Telegram message.
func NewMessage(m *tgbotapi.Message) *Message {
	msg := &Message{
		ChatID:    m.Chat.ID,
		MessageID: m.MessageID,
		Text:      strings.TrimSpace(m.Text),
		Document:  m.Document,
		Photo:     m.Photo,
	}
	if m.From != nil {
		msg.UserID = m.From.ID
	}
	if m.IsCommand() {
		msg.Command = m.Command()
	}
	return msg
}

// Handler answers every chat message: commands and file uploads.
type Handler struct {
	usecase    AnalysisUsecase
	buffer     FileBuffer
	downloader FileDownloader
	validator  *validator.Validator
	sender     *MessageSender
	api        Sender
	maxFiles   int
}

func NewHandler(
	api Sender,
	usecase AnalysisUsecase,
	buffer FileBuffer,
	downloader FileDownloader,
	validator *validator.Validator,
	maxFiles int,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		usecase:    usecase,
		buffer:     buffer,
		downloader: downloader,
		validator:  validator,
		sender:     NewMessageSender(api, logger),
		api:        api,
		maxFiles:   maxFiles,
	}
}

// Handle routes msg to a command or upload handler.
func (h *Handler) Handle(ctx context.Context, msg *Message) error {
	if msg.Command != "" {
		ctxzap.Info(ctx, "command received",
			zap.String("command", msg.Command),
			zap.Int64("user_id", msg.UserID),
		)
		return h.handleCommand(ctx, msg)
	}

	switch {
	case msg.Document != nil:
		return h.handleDocument(ctx, msg)
	case len(msg.Photo) > 0:
		return h.handlePhoto(ctx, msg)
	default:
		return h.sender.Send(ctx, msg.ChatID, MsgSendFiles)
	}
}

func (h *Handler) handleCommand(ctx context.Context, msg *Message) error {
	switch msg.Command {
	case "start", "help":
		return h.sender.Send(ctx, msg.ChatID, MsgHelp)
	case "analyze":
		return h.handleAnalyze(ctx, msg)
	case "clear":
		return h.handleClear(ctx, msg)
	case "sheet":
		return h.handleSheet(ctx, msg)
	default:
		return h.sender.Send(ctx, msg.ChatID, MsgUnknownCommand)
	}
}

package handlers

import (
	"context"

	"github.com/futig/practice-analyzer/internal/entity"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// AnalysisUsecase is the part of the analysis use case the bot drives.
type AnalysisUsecase interface {
	Analyze(ctx context.Context, req *entity.AnalyzeRequest) (*entity.AnalyzeResponse, error)
	GenerateReferenceSheet(ctx context.Context, analysis string) (*entity.ReferenceSheet, error)
}

// Sender is the subset of *tgbotapi.BotAPI used to talk back to chats.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// FileDownloader fetches the content of a file the user sent to the bot.
type FileDownloader interface {
	Download(ctx context.Context, fileID string) ([]byte, error)
}

// FileBuffer holds files between the upload messages and /analyze.
type FileBuffer interface {
	AddFile(chatID int64, file entity.UploadedFile) int
	Files(chatID int64) []entity.UploadedFile
	ClearFiles(chatID int64) int
	DropFiles(chatID int64, n int) int
	SetLastAnalysis(chatID int64, text string)
	LastAnalysis(chatID int64) (string, bool)
}

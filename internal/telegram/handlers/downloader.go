package handlers

import (
	"context"
	"fmt"

	pkgHTTP "github.com/futig/practice-analyzer/pkg/http"
)

// FileURLResolver turns a file ID into a download URL.
// *tgbotapi.BotAPI satisfies it with GetFileDirectURL.
type FileURLResolver interface {
	GetFileDirectURL(fileID string) (string, error)
}

// TelegramDownloader fetches chat files through the Bot API file endpoint.
type TelegramDownloader struct {
	resolver  FileURLResolver
	connector *pkgHTTP.Connector
	limit     int64
}

// NewTelegramDownloader builds a downloader. The connector must not log
// request URLs: file links embed the bot token.
func NewTelegramDownloader(resolver FileURLResolver, connector *pkgHTTP.Connector) *TelegramDownloader {
	return &TelegramDownloader{
		resolver:  resolver,
		connector: connector,
		limit:     MaxDownloadBytes,
	}
}

func (d *TelegramDownloader) Download(ctx context.Context, fileID string) ([]byte, error) {
	url, err := d.resolver.GetFileDirectURL(fileID)
	if err != nil {
		return nil, fmt.Errorf("get file url: %w", err)
	}

	data, err := d.connector.Download(ctx, url, d.limit)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}

	return data, nil
}

package handlers

import (
	"context"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Telegram shows a chat action for about five seconds.
const typingInterval = 4 * time.Second

// startTyping keeps the "typing" indicator on in chatID until the returned
// stop function is called or ctx ends. stop waits for the goroutine to exit.
func startTyping(ctx context.Context, api Sender, chatID int64) (stop func()) {
	sendTyping(ctx, api, chatID)

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(typingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				sendTyping(ctx, api, chatID)
			case <-done:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() { close(done) })
		wg.Wait()
	}
}

func sendTyping(ctx context.Context, api Sender, chatID int64) {
	action := tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)
	if _, err := api.Request(action); err != nil {
		ctxzap.Extract(ctx).Warn("failed to send typing action",
			zap.Error(err),
			zap.Int64("chat_id", chatID),
		)
	}
}

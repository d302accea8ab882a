package bot

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/futig/practice-analyzer/internal/config"
	"github.com/futig/practice-analyzer/internal/telegram/handlers"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeSource struct {
	updates chan tgbotapi.Update
	stopped bool
}

func (s *fakeSource) GetUpdatesChan(tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return s.updates
}

func (s *fakeSource) StopReceivingUpdates() { s.stopped = true }

type nopSender struct{}

func (nopSender) Send(tgbotapi.Chattable) (tgbotapi.Message, error) { return tgbotapi.Message{}, nil }

type recordingHandler struct {
	mu      sync.Mutex
	msgs    []*handlers.Message
	release chan struct{}
}

func (h *recordingHandler) Handle(ctx context.Context, msg *handlers.Message) error {
	if h.release != nil {
		select {
		case <-h.release:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.msgs = append(h.msgs, msg)
	return nil
}

func (h *recordingHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.msgs)
}

func testConfig() *config.TelegramConfig {
	return &config.TelegramConfig{
		UpdateTimeout:      1,
		ShutdownTimeout:    1,
		RateLimitPerMinute: 60,
		RateLimitBurst:     10,
	}
}

func message(chatID int64, text string) tgbotapi.Update {
	return tgbotapi.Update{Message: &tgbotapi.Message{
		From: &tgbotapi.User{ID: chatID},
		Chat: &tgbotapi.Chat{ID: chatID},
		Text: text,
	}}
}

func TestBotDispatchesMessages(t *testing.T) {
	source := &fakeSource{updates: make(chan tgbotapi.Update)}
	handler := &recordingHandler{}
	b := New(testConfig(), source, nopSender{}, handler, zap.NewNop())

	require.NoError(t, b.Start(context.Background()))
	source.updates <- message(1, "one")
	source.updates <- message(2, "two")
	source.updates <- tgbotapi.Update{}

	assert.Eventually(t, func() bool { return handler.count() == 2 }, time.Second, 5*time.Millisecond)
	require.NoError(t, b.Stop())
	assert.True(t, source.stopped)
}

func TestBotStopWaitsForHandlers(t *testing.T) {
	source := &fakeSource{updates: make(chan tgbotapi.Update)}
	handler := &recordingHandler{release: make(chan struct{})}
	b := New(testConfig(), source, nopSender{}, handler, zap.NewNop())

	require.NoError(t, b.Start(context.Background()))
	source.updates <- message(1, "slow")

	go func() {
		time.Sleep(50 * time.Millisecond)
		close(handler.release)
	}()

	require.NoError(t, b.Stop())
	assert.Equal(t, 1, handler.count())
}

func TestBotStopTimeoutCancelsHandlers(t *testing.T) {
	source := &fakeSource{updates: make(chan tgbotapi.Update)}
	handler := &recordingHandler{release: make(chan struct{})}
	b := New(testConfig(), source, nopSender{}, handler, zap.NewNop())

	require.NoError(t, b.Start(context.Background()))
	source.updates <- message(1, "stuck")

	assert.ErrorIs(t, b.Stop(), ErrShutdownTimeout)
	assert.Equal(t, 0, handler.count())
}

func TestBotStopWithoutStart(t *testing.T) {
	b := New(testConfig(), &fakeSource{}, nopSender{}, &recordingHandler{}, zap.NewNop())
	assert.NoError(t, b.Stop())
}

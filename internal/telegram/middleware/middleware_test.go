package middleware

import (
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeSender struct {
	mu    sync.Mutex
	texts []string
}

func (s *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		s.texts = append(s.texts, msg.Text)
	}
	return tgbotapi.Message{}, nil
}

func update(userID int64, text string) tgbotapi.Update {
	return tgbotapi.Update{
		UpdateID: 1,
		Message: &tgbotapi.Message{
			From: &tgbotapi.User{ID: userID},
			Chat: &tgbotapi.Chat{ID: userID},
			Text: text,
		},
	}
}

func TestChainOrder(t *testing.T) {
	var order []string
	mk := func(name string) Middleware {
		return middlewareFunc(func(u tgbotapi.Update, next func(tgbotapi.Update)) {
			order = append(order, name)
			next(u)
		})
	}

	h := Chain(func(tgbotapi.Update) { order = append(order, "handler") }, mk("a"), mk("b"))
	h(update(1, "x"))

	assert.Equal(t, []string{"a", "b", "handler"}, order)
}

type middlewareFunc func(tgbotapi.Update, func(tgbotapi.Update))

func (f middlewareFunc) Handle(u tgbotapi.Update, next func(tgbotapi.Update)) { f(u, next) }

func TestRateLimiter(t *testing.T) {
	sender := &fakeSender{}
	rl := NewRateLimiterMiddleware(60, 2, zap.NewNop(), sender)
	defer rl.Stop()

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	calls := 0
	next := func(tgbotapi.Update) { calls++ }

	for i := 0; i < 4; i++ {
		rl.Handle(update(1, "x"), next)
	}
	assert.Equal(t, 2, calls, "burst of two passes")
	require.Len(t, sender.texts, 1, "one warning per interval")
	assert.Equal(t, warningText(1), sender.texts[0])

	rl.Handle(update(2, "x"), next)
	assert.Equal(t, 3, calls, "other users have their own bucket")

	now = now.Add(time.Second)
	rl.Handle(update(1, "x"), next)
	assert.Equal(t, 4, calls, "one token refilled per second at 60/min")

	rl.Handle(tgbotapi.Update{}, next)
	assert.Equal(t, 5, calls, "non-message updates pass")
}

func TestRateLimiterCleanup(t *testing.T) {
	rl := NewRateLimiterMiddleware(60, 1, zap.NewNop(), &fakeSender{})
	defer rl.Stop()

	now := time.Now()
	rl.now = func() time.Time { return now }
	rl.Handle(update(1, "x"), func(tgbotapi.Update) {})

	now = now.Add(2 * time.Hour)
	rl.cleanup()

	rl.mu.Lock()
	defer rl.mu.Unlock()
	assert.Empty(t, rl.limits)
}

func TestRateLimiterStopTwice(t *testing.T) {
	rl := NewRateLimiterMiddleware(60, 1, zap.NewNop(), &fakeSender{})
	rl.Stop()
	rl.Stop()
}

func TestRecovery(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	sender := &fakeSender{}
	mw := NewRecoveryMiddleware(zap.New(core), sender)

	assert.NotPanics(t, func() {
		mw.Handle(update(5, "x"), func(tgbotapi.Update) { panic("boom") })
	})

	require.Equal(t, 1, logs.FilterMessage("panic recovered in telegram handler").Len())
	assert.Equal(t, []string{msgPanic}, sender.texts)
}

func TestLogging(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	mw := NewLoggingMiddleware(zap.New(core))

	called := false
	mw.Handle(update(3, "hello"), func(tgbotapi.Update) { called = true })

	assert.True(t, called)
	received := logs.FilterMessage("telegram update received").All()
	require.Len(t, received, 1)
	assert.Equal(t, "text", received[0].ContextMap()["type"])
	assert.Equal(t, 1, logs.FilterMessage("telegram update processed").Len())
}

package middleware

import (
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

const (
	warningInterval   = 30 * time.Second
	cleanupInterval   = 10 * time.Minute
	inactiveThreshold = time.Hour
)

// userLimit tracks rate limit state for a single user
type userLimit struct {
	mu            sync.Mutex
	tokens        float64
	lastRefill    time.Time
	warningsSent  int
	lastWarningAt time.Time
}

// RateLimiterMiddleware implements token bucket rate limiting per user.
// A user may send burst updates at once, then perMinute updates per minute.
type RateLimiterMiddleware struct {
	mu         sync.Mutex
	limits     map[int64]*userLimit
	maxTokens  float64
	refillRate float64 // tokens per second
	logger     *zap.Logger
	api        Sender
	now        func() time.Time
	stop       chan struct{}
	stopOnce   sync.Once
	done       chan struct{}
}

// NewRateLimiterMiddleware creates the limiter and starts the goroutine that
// forgets inactive users. Call Stop to end it.
func NewRateLimiterMiddleware(perMinute, burst int, logger *zap.Logger, api Sender) *RateLimiterMiddleware {
	rl := &RateLimiterMiddleware{
		limits:     make(map[int64]*userLimit),
		maxTokens:  float64(max(burst, 1)),
		refillRate: float64(perMinute) / 60.0,
		logger:     logger,
		api:        api,
		now:        time.Now,
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}

	go rl.cleanupLoop()

	return rl
}

// Handle drops the update when the user is over the limit.
func (rl *RateLimiterMiddleware) Handle(update tgbotapi.Update, next func(tgbotapi.Update)) {
	userID, chatID, ok := ids(update)
	if !ok {
		next(update)
		return
	}

	if !rl.allow(userID, chatID) {
		rl.logger.Warn("rate limit exceeded",
			zap.Int64("user_id", userID),
			zap.Int64("chat_id", chatID),
		)
		return
	}

	next(update)
}

func (rl *RateLimiterMiddleware) allow(userID, chatID int64) bool {
	now := rl.now()

	rl.mu.Lock()
	limit, exists := rl.limits[userID]
	if !exists {
		limit = &userLimit{tokens: rl.maxTokens, lastRefill: now}
		rl.limits[userID] = limit
	}
	rl.mu.Unlock()

	limit.mu.Lock()
	defer limit.mu.Unlock()

	limit.tokens += now.Sub(limit.lastRefill).Seconds() * rl.refillRate
	limit.tokens = min(limit.tokens, rl.maxTokens)
	limit.lastRefill = now

	if limit.tokens >= 1.0 {
		limit.tokens--
		limit.warningsSent = 0
		return true
	}

	if now.Sub(limit.lastWarningAt) > warningInterval {
		limit.warningsSent++
		limit.lastWarningAt = now
		rl.warn(chatID, limit.warningsSent)
	}

	return false
}

func warningText(count int) string {
	switch count {
	case 1:
		return "Too many requests. Please wait a moment."
	case 2:
		return "Rate limit exceeded. Wait about 30 seconds before trying again."
	default:
		return "You are sending requests too often. Please wait a minute."
	}
}

func (rl *RateLimiterMiddleware) warn(chatID int64, count int) {
	if _, err := rl.api.Send(tgbotapi.NewMessage(chatID, warningText(count))); err != nil {
		rl.logger.Error("failed to send rate limit warning",
			zap.Error(err),
			zap.Int64("chat_id", chatID),
		)
	}
}

func (rl *RateLimiterMiddleware) cleanupLoop() {
	defer close(rl.done)

	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup()
		case <-rl.stop:
			return
		}
	}
}

// cleanup removes users that have been quiet for an hour.
func (rl *RateLimiterMiddleware) cleanup() {
	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	for userID, limit := range rl.limits {
		limit.mu.Lock()
		if now.Sub(limit.lastRefill) > inactiveThreshold {
			delete(rl.limits, userID)
			rl.logger.Debug("cleaned up inactive user from rate limiter",
				zap.Int64("user_id", userID),
			)
		}
		limit.mu.Unlock()
	}
}

// Stop ends the cleanup goroutine. It is safe to call more than once.
func (rl *RateLimiterMiddleware) Stop() {
	rl.stopOnce.Do(func() { close(rl.stop) })
	<-rl.done
}

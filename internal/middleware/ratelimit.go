package middleware

import (
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
	tele "gopkg.in/telebot.v3"
)

// RateLimitMessage is sent when a chat exceeds its allowance
const RateLimitMessage = "⏳ Too many requests. Please wait a moment and try again."

const (
	maxBurst    = 5
	maxLimiters = 10000
)

// RateLimiter limits how often each chat may reach the remote API
type RateLimiter struct {
	limiters map[int64]*rate.Limiter
	mu       sync.Mutex
	rate     rate.Limit
	burst    int
	logger   *zap.Logger
}

// NewRateLimiter allows perMinute calls per chat. perMinute <= 0 disables limiting.
func NewRateLimiter(perMinute int, logger *zap.Logger) *RateLimiter {
	rl := &RateLimiter{
		limiters: make(map[int64]*rate.Limiter),
		rate:     rate.Inf,
		logger:   logger,
	}
	if perMinute > 0 {
		rl.rate = rate.Every(time.Minute / time.Duration(perMinute))
		rl.burst = perMinute
		if rl.burst > maxBurst {
			rl.burst = maxBurst
		}
	}
	return rl
}

func (rl *RateLimiter) getLimiter(chatID int64) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	limiter, exists := rl.limiters[chatID]
	if !exists {
		limiter = rate.NewLimiter(rl.rate, rl.burst)
		rl.limiters[chatID] = limiter
	}
	return limiter
}

// Allow reports whether chatID may make another call now
func (rl *RateLimiter) Allow(chatID int64) bool {
	if rl.rate == rate.Inf {
		return true
	}
	return rl.getLimiter(chatID).Allow()
}

// Middleware returns the telebot middleware
func (rl *RateLimiter) Middleware() tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			chat := c.Chat()
			if chat == nil || rl.Allow(chat.ID) {
				return next(c)
			}

			rl.logger.Warn("Rate limit exceeded", zap.Int64("chat_id", chat.ID))
			return c.Send(RateLimitMessage)
		}
	}
}

// Cleanup drops all limiters once there are too many of them
func (rl *RateLimiter) Cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if len(rl.limiters) > maxLimiters {
		rl.limiters = make(map[int64]*rate.Limiter)
	}
}

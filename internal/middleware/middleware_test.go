package middleware

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"lexibot/internal/service"
	"lexibot/internal/testutil"

	"github.com/stretchr/testify/assert"
	tele "gopkg.in/telebot.v3"
)

// fakeContext implements only the parts of tele.Context the middleware uses
type fakeContext struct {
	tele.Context
	chat *tele.Chat
	sent []string
}

func (f *fakeContext) Chat() *tele.Chat { return f.chat }

func (f *fakeContext) Send(what interface{}, opts ...interface{}) error {
	f.sent = append(f.sent, fmt.Sprint(what))
	return nil
}

type stubAuth struct {
	ok  bool
	err error
}

func (s stubAuth) IsAuthenticated(ctx context.Context, chatID int64) (bool, error) {
	return s.ok, s.err
}

type denySubs struct{}

func (denySubs) HasActiveSubscription(ctx context.Context, chatID int64) (bool, error) {
	return false, nil
}

func TestRequireAuth(t *testing.T) {
	tests := []struct {
		name         string
		auth         stubAuth
		expectNext   bool
		expectedSent []string
	}{
		{
			name:       "signed in passes",
			auth:       stubAuth{ok: true},
			expectNext: true,
		},
		{
			name:         "signed out is redirected",
			auth:         stubAuth{ok: false},
			expectedSent: []string{SignInPrompt},
		},
		{
			name:         "check error",
			auth:         stubAuth{err: errors.New("db down")},
			expectedSent: []string{ErrorMessage},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gate := service.NewGate(tt.auth, service.AllowAllSubscriptions{})
			called := false
			handler := RequireAuth(gate, testutil.NewTestLogger())(func(c tele.Context) error {
				called = true
				return nil
			})

			c := &fakeContext{chat: &tele.Chat{ID: 1}}
			assert.NoError(t, handler(c))

			assert.Equal(t, tt.expectNext, called)
			assert.Equal(t, tt.expectedSent, c.sent)
		})
	}
}

func TestRequireSubscription(t *testing.T) {
	next := func(called *bool) tele.HandlerFunc {
		return func(c tele.Context) error {
			*called = true
			return nil
		}
	}

	t.Run("no-op checker lets signed-in chats through", func(t *testing.T) {
		gate := service.NewGate(stubAuth{ok: true}, service.AllowAllSubscriptions{})
		called := false
		c := &fakeContext{chat: &tele.Chat{ID: 1}}

		assert.NoError(t, RequireSubscription(gate, testutil.NewTestLogger())(next(&called))(c))
		assert.True(t, called)
		assert.Empty(t, c.sent)
	})

	t.Run("missing subscription asks to upgrade", func(t *testing.T) {
		gate := service.NewGate(stubAuth{ok: true}, denySubs{})
		called := false
		c := &fakeContext{chat: &tele.Chat{ID: 1}}

		assert.NoError(t, RequireSubscription(gate, testutil.NewTestLogger())(next(&called))(c))
		assert.False(t, called)
		assert.Equal(t, []string{UpgradePrompt}, c.sent)
	})
}

func TestRateLimiter_Allow(t *testing.T) {
	rl := NewRateLimiter(3, testutil.NewTestLogger())

	for i := 0; i < 3; i++ {
		assert.True(t, rl.Allow(1), "call %d", i)
	}
	assert.False(t, rl.Allow(1))

	// Chats are limited independently.
	assert.True(t, rl.Allow(2))
}

func TestRateLimiter_Disabled(t *testing.T) {
	rl := NewRateLimiter(0, testutil.NewTestLogger())

	for i := 0; i < 100; i++ {
		assert.True(t, rl.Allow(1))
	}
}

func TestRateLimiter_Middleware(t *testing.T) {
	rl := NewRateLimiter(1, testutil.NewTestLogger())
	calls := 0
	handler := rl.Middleware()(func(c tele.Context) error {
		calls++
		return nil
	})

	c := &fakeContext{chat: &tele.Chat{ID: 7}}
	assert.NoError(t, handler(c))
	assert.NoError(t, handler(c))

	assert.Equal(t, 1, calls)
	assert.Equal(t, []string{RateLimitMessage}, c.sent)
}

func TestRateLimiter_Cleanup(t *testing.T) {
	rl := NewRateLimiter(10, testutil.NewTestLogger())
	for i := int64(0); i <= maxLimiters; i++ {
		rl.Allow(i)
	}

	rl.Cleanup()

	rl.mu.Lock()
	defer rl.mu.Unlock()
	assert.Empty(t, rl.limiters)
}

package service

import (
	"context"
	"errors"
	"testing"

	"lexibot/internal/testutil"

	"github.com/stretchr/testify/assert"
)

type stubAuth struct {
	ok  bool
	err error
}

func (s stubAuth) IsAuthenticated(ctx context.Context, chatID int64) (bool, error) {
	return s.ok, s.err
}

type stubSubs struct {
	ok  bool
	err error
}

func (s stubSubs) HasActiveSubscription(ctx context.Context, chatID int64) (bool, error) {
	return s.ok, s.err
}

func TestGate_Check(t *testing.T) {
	tests := []struct {
		name                string
		auth                stubAuth
		subs                stubSubs
		requireSubscription bool
		expected            Decision
		expectedError       bool
	}{
		{
			name:     "signed out is sent to sign in",
			auth:     stubAuth{ok: false},
			expected: RedirectSignIn,
		},
		{
			name:          "auth error is sent to sign in",
			auth:          stubAuth{err: errors.New("db down")},
			expected:      RedirectSignIn,
			expectedError: true,
		},
		{
			name:     "signed in without subscription requirement",
			auth:     stubAuth{ok: true},
			subs:     stubSubs{ok: false},
			expected: Allow,
		},
		{
			name:                "signed in with subscription",
			auth:                stubAuth{ok: true},
			subs:                stubSubs{ok: true},
			requireSubscription: true,
			expected:            Allow,
		},
		{
			name:                "signed in without subscription",
			auth:                stubAuth{ok: true},
			subs:                stubSubs{ok: false},
			requireSubscription: true,
			expected:            RedirectUpgrade,
		},
		{
			name:                "signed out wins over subscription",
			auth:                stubAuth{ok: false},
			subs:                stubSubs{ok: true},
			requireSubscription: true,
			expected:            RedirectSignIn,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gate := NewGate(tt.auth, tt.subs)

			decision, err := gate.Check(context.Background(), 1, tt.requireSubscription)

			assert.Equal(t, tt.expected, decision)
			if tt.expectedError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAllowAllSubscriptions(t *testing.T) {
	ok, err := AllowAllSubscriptions{Logger: testutil.NewTestLogger()}.HasActiveSubscription(context.Background(), 1)
	assert.NoError(t, err)
	assert.True(t, ok)

	ok, err = AllowAllSubscriptions{}.HasActiveSubscription(context.Background(), 2)
	assert.NoError(t, err)
	assert.True(t, ok)
}

package repository

import (
	"time"

	"lexibot/internal/domain"
)

// SessionRepository stores the backend session bound to each chat
type SessionRepository interface {
	SaveSession(session domain.Session) error
	GetSession(chatID int64) (*domain.Session, error)
	DeleteSession(chatID int64) error
	DeleteExpiredSessions(now time.Time) (int64, error)
}

// ProfileRepository reads user profiles and subscriptions. It never writes.
type ProfileRepository interface {
	GetProfile(userID string) (*domain.UserProfile, error)
	GetActiveSubscription(userID string) (*domain.Subscription, error)
}

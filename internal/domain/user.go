package domain

import "time"

// UserProfile is a read-only projection of the user_profiles table
type UserProfile struct {
	ID        string
	Username  string
	Email     string
	FullName  *string
	CreatedAt time.Time
	IsActive  bool
}

// SubscriptionStatus mirrors user_subscriptions.status
type SubscriptionStatus string

const (
	SubscriptionActive    SubscriptionStatus = "active"
	SubscriptionExpired   SubscriptionStatus = "expired"
	SubscriptionCancelled SubscriptionStatus = "cancelled"
)

// Subscription is a read-only projection of a user's subscription and its plan
type Subscription struct {
	Status   SubscriptionStatus
	PlanName string
	EndDate  time.Time
}

// IsActive reports whether the subscription is active and not past its end date
func (s Subscription) IsActive(now time.Time) bool {
	return s.Status == SubscriptionActive && now.Before(s.EndDate)
}

// Session binds a chat to an authenticated backend session
type Session struct {
	ChatID       int64
	UserID       string
	Email        string
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
	CreatedAt    time.Time
}

// Expired reports whether the access token is no longer valid at now
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// UserState represents chat's current interaction state
type UserState string

const (
	StateIdle                UserState = "idle"
	StateWaitingEmail        UserState = "waiting_email"
	StateWaitingPassword     UserState = "waiting_password"
	StateWaitingSignupEmail  UserState = "waiting_signup_email"
	StateWaitingSignupName   UserState = "waiting_signup_username"
	StateWaitingSignupSecret UserState = "waiting_signup_password"
	StateWaitingJokePrompt   UserState = "waiting_joke_prompt"
	StateWaitingCaption      UserState = "waiting_caption_prompt"
)

// StateData holds temporary data for chat's current state
type StateData struct {
	State    UserState
	Email    string
	Username string
	UseMock  bool
}

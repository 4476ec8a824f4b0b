package supabase

import (
	"fmt"
	"time"
)

// User is a Supabase Auth user
type User struct {
	ID           string         `json:"id"`
	Email        string         `json:"email"`
	UserMetadata map[string]any `json:"user_metadata,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}

// Username returns the username stored in user metadata, if any
func (u User) Username() string {
	if name, ok := u.UserMetadata["username"].(string); ok {
		return name
	}
	return ""
}

// Session is an authenticated Supabase session
type Session struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	ExpiresAt    int64  `json:"expires_at,omitempty"`
	RefreshToken string `json:"refresh_token"`
	User         *User  `json:"user,omitempty"`
}

// Expiry returns when the access token expires, using issuedAt when the
// response only carried expires_in
func (s Session) Expiry(issuedAt time.Time) time.Time {
	if s.ExpiresAt > 0 {
		return time.Unix(s.ExpiresAt, 0)
	}
	if s.ExpiresIn > 0 {
		return issuedAt.Add(time.Duration(s.ExpiresIn) * time.Second)
	}
	return time.Time{}
}

// SignUpRequest registers a new user
type SignUpRequest struct {
	Email    string         `json:"email"`
	Password string         `json:"password"`
	Data     map[string]any `json:"data,omitempty"`
}

// Error is an error returned by Supabase Auth
type Error struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("supabase: %d %s: %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("supabase: %d: %s", e.StatusCode, e.Message)
}

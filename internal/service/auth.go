package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"lexibot/internal/domain"
	"lexibot/internal/repository"
	"lexibot/internal/supabase"

	"go.uber.org/zap"
)

// ErrConfirmationRequired is returned by SignUp when the account must be
// confirmed by email before the user can sign in
var ErrConfirmationRequired = errors.New("check your email to confirm your account, then sign in")

// AuthProvider is the external authentication backend
type AuthProvider interface {
	SignUp(ctx context.Context, req supabase.SignUpRequest) (*supabase.Session, error)
	SignInWithPassword(ctx context.Context, email, password string) (*supabase.Session, error)
	RefreshSession(ctx context.Context, refreshToken string) (*supabase.Session, error)
	SignOut(ctx context.Context, accessToken string) error
}

// AuthService handles authentication logic
type AuthService struct {
	provider      AuthProvider
	sessions      repository.SessionRepository
	logger        *zap.Logger
	now           func() time.Time
	onInvalidated func(ctx context.Context, chatID int64)
}

// NewAuthService creates a new auth service
func NewAuthService(provider AuthProvider, sessions repository.SessionRepository, logger *zap.Logger) *AuthService {
	return &AuthService{
		provider: provider,
		sessions: sessions,
		logger:   logger,
		now:      time.Now,
	}
}

// OnSessionInvalidated registers fn to run after a session is force-cleared,
// typically to send the user to sign-in
func (s *AuthService) OnSessionInvalidated(fn func(ctx context.Context, chatID int64)) {
	s.onInvalidated = fn
}

// SignUp registers a new account and, when the backend returns a session
// right away, binds it to chatID
func (s *AuthService) SignUp(ctx context.Context, chatID int64, email, password, username string) (*domain.Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, fmt.Errorf("email and password cannot be empty")
	}

	req := supabase.SignUpRequest{Email: email, Password: password}
	if username = strings.TrimSpace(username); username != "" {
		req.Data = map[string]any{"username": username}
	}

	session, err := s.provider.SignUp(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("sign up: %w", err)
	}
	if session.AccessToken == "" {
		return nil, ErrConfirmationRequired
	}

	return s.bind(chatID, email, session)
}

// SignIn authenticates with email/password and binds the session to chatID
func (s *AuthService) SignIn(ctx context.Context, chatID int64, email, password string) (*domain.Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, fmt.Errorf("email and password cannot be empty")
	}

	session, err := s.provider.SignInWithPassword(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("sign in: %w", err)
	}

	return s.bind(chatID, email, session)
}

func (s *AuthService) bind(chatID int64, email string, session *supabase.Session) (*domain.Session, error) {
	bound := domain.Session{
		ChatID:       chatID,
		Email:        email,
		AccessToken:  session.AccessToken,
		RefreshToken: session.RefreshToken,
		ExpiresAt:    session.Expiry(s.now()),
		CreatedAt:    s.now(),
	}
	if session.User != nil {
		bound.UserID = session.User.ID
		if session.User.Email != "" {
			bound.Email = session.User.Email
		}
	}

	if err := s.sessions.SaveSession(bound); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	s.logger.Info("Session bound to chat",
		zap.Int64("chat_id", chatID),
		zap.String("user_id", bound.UserID),
	)
	return &bound, nil
}

// SignOut revokes the chat's session remotely and always clears it locally
func (s *AuthService) SignOut(ctx context.Context, chatID int64) error {
	session, err := s.sessions.GetSession(chatID)
	if err != nil {
		return fmt.Errorf("get session: %w", err)
	}
	if session == nil {
		return nil
	}

	if err := s.provider.SignOut(ctx, session.AccessToken); err != nil {
		s.logger.Warn("Remote sign out failed, clearing local session anyway",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
	}

	if err := s.sessions.DeleteSession(chatID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// CurrentSession returns the chat's unexpired session, or nil. An expired
// session is exchanged for a fresh one when it carries a refresh token.
func (s *AuthService) CurrentSession(ctx context.Context, chatID int64) (*domain.Session, error) {
	session, err := s.sessions.GetSession(chatID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, nil
	}
	if !session.Expired(s.now()) {
		return session, nil
	}
	if session.RefreshToken == "" {
		return nil, nil
	}
	return s.refresh(ctx, session), nil
}

func (s *AuthService) refresh(ctx context.Context, stale *domain.Session) *domain.Session {
	fresh, err := s.provider.RefreshSession(ctx, stale.RefreshToken)
	if err != nil {
		s.logger.Info("Session refresh failed",
			zap.Int64("chat_id", stale.ChatID),
			zap.Error(err),
		)
		return nil
	}
	if fresh.User == nil {
		fresh.User = &supabase.User{ID: stale.UserID, Email: stale.Email}
	}

	bound, err := s.bind(stale.ChatID, stale.Email, fresh)
	if err != nil {
		s.logger.Error("Failed to store refreshed session",
			zap.Int64("chat_id", stale.ChatID),
			zap.Error(err),
		)
		return nil
	}
	return bound
}

// IsAuthenticated reports whether chatID holds an unexpired session
func (s *AuthService) IsAuthenticated(ctx context.Context, chatID int64) (bool, error) {
	session, err := s.CurrentSession(ctx, chatID)
	if err != nil {
		return false, err
	}
	return session != nil, nil
}

// Token implements apiclient.TokenSource for the chat carried by ctx
func (s *AuthService) Token(ctx context.Context) (string, error) {
	chatID, ok := ChatIDFrom(ctx)
	if !ok {
		return "", nil
	}
	session, err := s.CurrentSession(ctx, chatID)
	if err != nil {
		return "", err
	}
	if session == nil {
		return "", nil
	}
	return session.AccessToken, nil
}

// InvalidateSession implements apiclient.SessionInvalidator: it clears the
// chat's session and runs the OnSessionInvalidated hook
func (s *AuthService) InvalidateSession(ctx context.Context) {
	chatID, ok := ChatIDFrom(ctx)
	if !ok {
		s.logger.Warn("Session invalidation requested without a chat")
		return
	}

	if err := s.sessions.DeleteSession(chatID); err != nil {
		s.logger.Error("Failed to clear invalidated session",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
	}

	s.logger.Info("Session invalidated", zap.Int64("chat_id", chatID))

	if s.onInvalidated != nil {
		s.onInvalidated(ctx, chatID)
	}
}

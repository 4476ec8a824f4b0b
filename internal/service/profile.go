package service

import (
	"context"
	"fmt"
	"strings"

	"lexibot/internal/domain"
	"lexibot/internal/repository"
)

// Dashboard is what the signed-in user sees on /dashboard
type Dashboard struct {
	Username     string
	Email        string
	Profile      *domain.UserProfile
	Subscription *domain.Subscription
}

// ProfileService reads profile data for the dashboard
type ProfileService struct {
	auth     *AuthService
	profiles repository.ProfileRepository
}

// NewProfileService creates a new profile service
func NewProfileService(auth *AuthService, profiles repository.ProfileRepository) *ProfileService {
	return &ProfileService{auth: auth, profiles: profiles}
}

// GetDashboard returns dashboard data for chatID, or nil when not signed in
func (s *ProfileService) GetDashboard(ctx context.Context, chatID int64) (*Dashboard, error) {
	session, err := s.auth.CurrentSession(ctx, chatID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if session == nil {
		return nil, nil
	}

	d := &Dashboard{Email: session.Email}

	profile, err := s.profiles.GetProfile(session.UserID)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	d.Profile = profile

	sub, err := s.profiles.GetActiveSubscription(session.UserID)
	if err != nil {
		return nil, fmt.Errorf("get subscription: %w", err)
	}
	d.Subscription = sub

	switch {
	case profile != nil && profile.Username != "":
		d.Username = profile.Username
	case session.Email != "":
		d.Username = strings.SplitN(session.Email, "@", 2)[0]
	default:
		d.Username = "User"
	}

	return d, nil
}

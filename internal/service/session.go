package service

import (
	"time"

	"lexibot/internal/repository"

	"go.uber.org/zap"
)

// SessionService handles periodic session housekeeping
type SessionService struct {
	sessions repository.SessionRepository
	logger   *zap.Logger
	now      func() time.Time
}

// NewSessionService creates a new session service
func NewSessionService(sessions repository.SessionRepository, logger *zap.Logger) *SessionService {
	return &SessionService{
		sessions: sessions,
		logger:   logger,
		now:      time.Now,
	}
}

// PurgeExpired removes sessions whose access token has expired
func (s *SessionService) PurgeExpired() error {
	s.logger.Info("Starting cleanup of expired sessions")

	deleted, err := s.sessions.DeleteExpiredSessions(s.now())
	if err != nil {
		s.logger.Error("Failed to cleanup expired sessions", zap.Error(err))
		return err
	}

	s.logger.Info("Cleanup completed successfully", zap.Int64("deleted", deleted))
	return nil
}

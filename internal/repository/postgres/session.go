package postgres

import (
	"database/sql"
	"time"

	"lexibot/internal/domain"
)

// SessionRepo implements repository.SessionRepository
type SessionRepo struct {
	db *sql.DB
}

// NewSessionRepo creates a new session repository
func NewSessionRepo(db *sql.DB) *SessionRepo {
	return &SessionRepo{db: db}
}

// SaveSession stores session, replacing any session of the same chat
func (r *SessionRepo) SaveSession(s domain.Session) error {
	var expiresAt sql.NullTime
	if !s.ExpiresAt.IsZero() {
		expiresAt = sql.NullTime{Time: s.ExpiresAt, Valid: true}
	}

	query := `
		INSERT INTO bot_sessions (chat_id, user_id, email, access_token, refresh_token, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (chat_id)
		DO UPDATE SET
			user_id = EXCLUDED.user_id,
			email = EXCLUDED.email,
			access_token = EXCLUDED.access_token,
			refresh_token = EXCLUDED.refresh_token,
			expires_at = EXCLUDED.expires_at,
			created_at = NOW()
	`
	_, err := r.db.Exec(query, s.ChatID, s.UserID, s.Email, s.AccessToken, s.RefreshToken, expiresAt)
	return err
}

// GetSession returns the session of chatID, or nil when there is none
func (r *SessionRepo) GetSession(chatID int64) (*domain.Session, error) {
	var s domain.Session
	var expiresAt sql.NullTime
	query := `
		SELECT chat_id, user_id, email, access_token, refresh_token, expires_at, created_at
		FROM bot_sessions
		WHERE chat_id = $1
	`
	err := r.db.QueryRow(query, chatID).Scan(
		&s.ChatID, &s.UserID, &s.Email, &s.AccessToken, &s.RefreshToken, &expiresAt, &s.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if expiresAt.Valid {
		s.ExpiresAt = expiresAt.Time
	}

	return &s, nil
}

// DeleteSession removes the session of chatID
func (r *SessionRepo) DeleteSession(chatID int64) error {
	query := `DELETE FROM bot_sessions WHERE chat_id = $1`
	_, err := r.db.Exec(query, chatID)
	return err
}

// DeleteExpiredSessions removes sessions whose token expired at or before now
func (r *SessionRepo) DeleteExpiredSessions(now time.Time) (int64, error) {
	query := `DELETE FROM bot_sessions WHERE expires_at IS NOT NULL AND expires_at <= $1`
	result, err := r.db.Exec(query, now)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

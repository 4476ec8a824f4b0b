package postgres

import (
	"database/sql"

	"lexibot/internal/domain"
)

// ProfileRepo implements repository.ProfileRepository on the Supabase tables
type ProfileRepo struct {
	db *sql.DB
}

// NewProfileRepo creates a new profile repository
func NewProfileRepo(db *sql.DB) *ProfileRepo {
	return &ProfileRepo{db: db}
}

// GetProfile returns the profile of userID, or nil when it does not exist yet
func (r *ProfileRepo) GetProfile(userID string) (*domain.UserProfile, error) {
	var p domain.UserProfile
	var fullName sql.NullString
	query := `
		SELECT id, username, email, full_name, created_at, is_active
		FROM user_profiles
		WHERE id = $1
	`
	err := r.db.QueryRow(query, userID).Scan(
		&p.ID, &p.Username, &p.Email, &fullName, &p.CreatedAt, &p.IsActive,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if fullName.Valid {
		p.FullName = &fullName.String
	}

	return &p, nil
}

// GetActiveSubscription returns the latest-ending active subscription of
// userID with its plan name, or nil when there is none
func (r *ProfileRepo) GetActiveSubscription(userID string) (*domain.Subscription, error) {
	var s domain.Subscription
	query := `
		SELECT s.status, p.name, s.end_date
		FROM user_subscriptions s
		JOIN subscription_plans p ON p.id = s.plan_id
		WHERE s.user_id = $1 AND s.status = 'active'
		ORDER BY s.end_date DESC
		LIMIT 1
	`
	err := r.db.QueryRow(query, userID).Scan(&s.Status, &s.PlanName, &s.EndDate)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &s, nil
}

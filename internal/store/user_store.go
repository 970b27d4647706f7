// Package store holds one repository type per entity family, each
// wrapping *sql.DB with hand-written parameterized SQL, split by
// entity instead of left as a single package of free functions.
package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/korolhresti/newsdigest/internal/apperr"
	"github.com/korolhresti/newsdigest/internal/models"
)

// UserStore persists users and the scalar state hung directly off a user row.
type UserStore struct {
	db *sql.DB
}

func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

// GetOrCreate returns the user for chatUserID, creating one with
// default language/country if this is the first contact.
func (s *UserStore) GetOrCreate(ctx context.Context, chatUserID, language, country string) (*models.User, error) {
	u, err := s.GetByChatUserID(ctx, chatUserID)
	if err == nil {
		return u, nil
	}
	if !apperr.Is(err, apperr.CodeNotFound) {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		INSERT INTO users (chat_user_id, language, country)
		VALUES ($1, $2, $3)
		ON CONFLICT (chat_user_id) DO UPDATE SET chat_user_id = EXCLUDED.chat_user_id
		RETURNING id, chat_user_id, language, country, safe_mode, view_mode, is_premium,
			premium_expires_at, auto_notifications, email, current_feed_id, inviter_id,
			level, badges, last_auto_notified_at, created_at, updated_at
	`, chatUserID, language, country)
	return scanUser(row)
}

func (s *UserStore) GetByChatUserID(ctx context.Context, chatUserID string) (*models.User, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, chat_user_id, language, country, safe_mode, view_mode, is_premium,
			premium_expires_at, auto_notifications, email, current_feed_id, inviter_id,
			level, badges, last_auto_notified_at, created_at, updated_at
		FROM users WHERE chat_user_id = $1
	`, chatUserID)
	return scanUser(row)
}

func (s *UserStore) GetByID(ctx context.Context, id int) (*models.User, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, chat_user_id, language, country, safe_mode, view_mode, is_premium,
			premium_expires_at, auto_notifications, email, current_feed_id, inviter_id,
			level, badges, last_auto_notified_at, created_at, updated_at
		FROM users WHERE id = $1
	`, id)
	return scanUser(row)
}

// ListDueForAutoNotify returns users in auto view mode with
// auto_notifications enabled whose last_auto_notified_at falls
// outside period, so overlapping scheduler runs never double-send.
func (s *UserStore) ListDueForAutoNotify(ctx context.Context, period string) ([]*models.User, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, chat_user_id, language, country, safe_mode, view_mode, is_premium,
			premium_expires_at, auto_notifications, email, current_feed_id, inviter_id,
			level, badges, last_auto_notified_at, created_at, updated_at
		FROM users
		WHERE view_mode = 'auto' AND auto_notifications = true
		AND (last_auto_notified_at IS NULL OR last_auto_notified_at < CURRENT_TIMESTAMP - $1::interval)
	`, period)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("list users due for auto-notify: %w", err))
	}
	defer rows.Close()

	var out []*models.User
	for rows.Next() {
		u, err := scanUserRow(rows)
		if err != nil {
			return nil, apperr.Internal(fmt.Errorf("scan auto-notify user: %w", err))
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// MarkAutoNotified stamps last_auto_notified_at, gating the next
// ListDueForAutoNotify call for this user.
func (s *UserStore) MarkAutoNotified(ctx context.Context, userID int) error {
	_, err := s.db.ExecContext(ctx, `UPDATE users SET last_auto_notified_at = CURRENT_TIMESTAMP WHERE id = $1`, userID)
	if err != nil {
		return apperr.Internal(fmt.Errorf("mark auto-notified: %w", err))
	}
	return nil
}

// UpdateProfile applies a partial profile update.
func (s *UserStore) UpdateProfile(ctx context.Context, u *models.User) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE users SET language = $1, country = $2, safe_mode = $3, view_mode = $4,
			auto_notifications = $5, email = $6, current_feed_id = $7, updated_at = CURRENT_TIMESTAMP
		WHERE id = $8
	`, u.Language, u.Country, u.SafeMode, u.ViewMode, u.AutoNotifications, u.Email, u.CurrentFeedID, u.ID)
	if err != nil {
		return apperr.Internal(fmt.Errorf("update user profile: %w", err))
	}
	return nil
}

// SetPremium grants or revokes premium status with an optional expiry.
func (s *UserStore) SetPremium(ctx context.Context, userID int, premium bool, expiresAt *string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE users SET is_premium = $1, premium_expires_at = $2, updated_at = CURRENT_TIMESTAMP
		WHERE id = $3
	`, premium, expiresAt, userID)
	if err != nil {
		return apperr.Internal(fmt.Errorf("set premium: %w", err))
	}
	return nil
}

// AddBadge appends badge to the user's badge list if not already present.
func (s *UserStore) AddBadge(ctx context.Context, userID int, badge string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE users SET badges = array_append(badges, $1), updated_at = CURRENT_TIMESTAMP
		WHERE id = $2 AND NOT ($1 = ANY(badges))
	`, badge, userID)
	if err != nil {
		return apperr.Internal(fmt.Errorf("add badge: %w", err))
	}
	return nil
}

// IncrementLevel bumps a user's gamification level by delta.
func (s *UserStore) IncrementLevel(ctx context.Context, userID, delta int) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE users SET level = level + $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2
	`, delta, userID)
	if err != nil {
		return apperr.Internal(fmt.Errorf("increment level: %w", err))
	}
	return nil
}

func scanUser(row *sql.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.ChatUserID, &u.Language, &u.Country, &u.SafeMode, &u.ViewMode,
		&u.IsPremium, &u.PremiumExpiresAt, &u.AutoNotifications, &u.Email, &u.CurrentFeedID,
		&u.InviterID, &u.Level, &u.Badges, &u.LastAutoNotifiedAt, &u.CreatedAt, &u.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("user not found")
	}
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("scan user: %w", err))
	}
	return &u, nil
}

func scanUserRow(rows *sql.Rows) (*models.User, error) {
	var u models.User
	err := rows.Scan(&u.ID, &u.ChatUserID, &u.Language, &u.Country, &u.SafeMode, &u.ViewMode,
		&u.IsPremium, &u.PremiumExpiresAt, &u.AutoNotifications, &u.Email, &u.CurrentFeedID,
		&u.InviterID, &u.Level, &u.Badges, &u.LastAutoNotifiedAt, &u.CreatedAt, &u.UpdatedAt)
	return &u, err
}

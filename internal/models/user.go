package models

import "time"

// ViewMode controls whether a user pulls their feed on demand or
// receives it automatically from the scheduler's auto-notifier.
type ViewMode string

const (
	ViewModeManual ViewMode = "manual"
	ViewModeAuto   ViewMode = "auto"
)

// User is identified externally by the chat front-end's user id
// (ChatUserID, e.g. a Telegram user id) and internally by a surrogate
// ID used across every other table. Created on first contact from the
// front-end; never hard-deleted.
type User struct {
	ID                int        `json:"id" db:"id"`
	ChatUserID        string     `json:"user_id" db:"chat_user_id"`
	Language          string     `json:"language" db:"language"`
	Country           string     `json:"country" db:"country"`
	SafeMode          bool       `json:"safe_mode" db:"safe_mode"`
	ViewMode          ViewMode   `json:"view_mode" db:"view_mode"`
	IsPremium         bool       `json:"is_premium" db:"is_premium"`
	PremiumExpiresAt  *time.Time `json:"premium_expires_at" db:"premium_expires_at"`
	AutoNotifications bool       `json:"auto_notifications" db:"auto_notifications"`
	Email             *string    `json:"email" db:"email"`
	CurrentFeedID     *int       `json:"current_feed_id" db:"current_feed_id"`
	InviterID         *int       `json:"inviter_id" db:"inviter_id"`
	Level             int        `json:"level" db:"level"`
	Badges            StringArray `json:"badges" db:"badges"`
	LastAutoNotifiedAt *time.Time `json:"last_auto_notified_at" db:"last_auto_notified_at"`
	CreatedAt         time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at" db:"updated_at"`
}

// EffectivePremium applies the advisory expiry rule: a user
// is only premium if the flag is set AND the expiry (if any) is still
// in the future.
func (u *User) EffectivePremium(now time.Time) bool {
	if !u.IsPremium {
		return false
	}
	if u.PremiumExpiresAt == nil {
		return true
	}
	return now.Before(*u.PremiumExpiresAt)
}

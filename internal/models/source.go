package models

import "time"

// SourceStatus is the admin-moderated lifecycle of a registered Source.
type SourceStatus string

const (
	SourceStatusActive  SourceStatus = "active"
	SourceStatusBlocked SourceStatus = "blocked"
)

// Source is a registered upstream a user can add via POST /sources/add.
type Source struct {
	ID              int          `json:"id" db:"id"`
	Name            string       `json:"name" db:"name"`
	Link            string       `json:"link" db:"link"`
	Type            SourceType   `json:"type" db:"type"`
	AddedByUserID   int          `json:"added_by_user_id" db:"added_by_user_id"`
	Verified        bool         `json:"verified" db:"verified"`
	ReliabilityScore float64     `json:"reliability_score" db:"reliability_score"`
	Status          SourceStatus `json:"status" db:"status"`
	CreatedAt       time.Time    `json:"created_at" db:"created_at"`
}

// Invite binds an opaque code to its creator; InvitedUserID and
// AcceptedAt are nil until accept_invite succeeds.
type Invite struct {
	ID            int        `json:"id" db:"id"`
	InviterUserID int        `json:"inviter_user_id" db:"inviter_user_id"`
	Code          string     `json:"invite_code" db:"invite_code"`
	InvitedUserID *int       `json:"invited_user_id" db:"invited_user_id"`
	AcceptedAt    *time.Time `json:"accepted_at" db:"accepted_at"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
}

// ArchivedNews is the shadow copy cleanup writes before a NewsItem is
// deleted; OriginalNewsID preserves the link back.
type ArchivedNews struct {
	ID             int64     `json:"id" db:"id"`
	OriginalNewsID int64     `json:"original_news_id" db:"original_news_id"`
	Title          string    `json:"title" db:"title"`
	Content        string    `json:"content" db:"content"`
	Source         string    `json:"source" db:"source"`
	PublishedAt    time.Time `json:"published_at" db:"published_at"`
	ArchivedAt     time.Time `json:"archived_at" db:"archived_at"`
}

// AdminActionType enumerates the moderation transitions that get audited.
type AdminActionType string

const (
	AdminActionApproveNews    AdminActionType = "approve_news"
	AdminActionRejectNews     AdminActionType = "reject_news"
	AdminActionApproveComment AdminActionType = "approve_comment"
	AdminActionRejectComment  AdminActionType = "reject_comment"
	AdminActionBlockSource    AdminActionType = "block_source"
	AdminActionUnblockSource  AdminActionType = "unblock_source"
)

// AdminAction is the audit row every moderation transition writes.
type AdminAction struct {
	ID         int64           `json:"id" db:"id"`
	ActorID    int             `json:"actor_id" db:"actor_id"`
	ActionType AdminActionType `json:"action_type" db:"action_type"`
	TargetID   *int64          `json:"target_id" db:"target_id"`
	Details    *string         `json:"details" db:"details"`
	CreatedAt  time.Time       `json:"created_at" db:"created_at"`
}

// AdminUser is an operator account gating /admin/* endpoints. The
// teacher's internal/auth.go authenticated end-user accounts against a
// `users` table its own migration never created; this repurposes that
// login/JWT logic onto a table this repo does create.
type AdminUser struct {
	ID           int       `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

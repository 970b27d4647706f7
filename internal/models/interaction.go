package models

import "time"

// Action enumerates what the interaction recorder can log.
type Action string

const (
	ActionView     Action = "view"
	ActionLike     Action = "like"
	ActionDislike  Action = "dislike"
	ActionSave     Action = "save"
	ActionSkip     Action = "skip"
	ActionReadFull Action = "read_full"
	ActionReport   Action = "report"
)

// Interaction is the append-only log of one row per
// (user, news_item, action, timestamp).
type Interaction struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int       `json:"user_id" db:"user_id"`
	NewsID    int64     `json:"news_id" db:"news_id"`
	Action    Action    `json:"action" db:"action"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// UserNewsView is the seen-set row the Feed Resolver subtracts
// against: one per (user, news_item).
type UserNewsView struct {
	UserID          int        `json:"user_id" db:"user_id"`
	NewsID          int64      `json:"news_id" db:"news_id"`
	Viewed          bool       `json:"viewed" db:"viewed"`
	FirstViewedAt   *time.Time `json:"first_viewed_at" db:"first_viewed_at"`
	LastViewedAt    *time.Time `json:"last_viewed_at" db:"last_viewed_at"`
	ReadFull        bool       `json:"read_full" db:"read_full"`
	TimeSpentSeconds int       `json:"time_spent_seconds" db:"time_spent_seconds"`
}

// Bookmark is a (user, news_item) pair; its presence prevents cleanup
// from deleting the referenced NewsItem.
type Bookmark struct {
	UserID    int       `json:"user_id" db:"user_id"`
	NewsID    int64     `json:"news_id" db:"news_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Rating is a (user, news_item) -> 1..5 upsert.
type Rating struct {
	UserID    int       `json:"user_id" db:"user_id"`
	NewsID    int64     `json:"news_id" db:"news_id"`
	Value     int       `json:"value" db:"value"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// ReactionKind enumerates the last-write-wins reaction a user can
// leave on a news item.
type ReactionKind string

const (
	ReactionLike    ReactionKind = "like"
	ReactionDislike ReactionKind = "dislike"
)

// Reaction is a (user, news_item) -> kind upsert, last-write-wins.
type Reaction struct {
	UserID    int          `json:"user_id" db:"user_id"`
	NewsID    int64        `json:"news_id" db:"news_id"`
	Kind      ReactionKind `json:"kind" db:"kind"`
	UpdatedAt time.Time    `json:"updated_at" db:"updated_at"`
}

// Comment belongs to a NewsItem and, optionally, a parent Comment.
// Only ModerationApproved comments are ever returned publicly.
type Comment struct {
	ID               int64            `json:"id" db:"id"`
	NewsID           int64            `json:"news_id" db:"news_id"`
	UserID           int              `json:"user_id" db:"user_id"`
	ParentCommentID  *int64           `json:"parent_comment_id" db:"parent_comment_id"`
	Content          string           `json:"content" db:"content"`
	ModerationStatus ModerationStatus `json:"moderation_status" db:"moderation_status"`
	CreatedAt        time.Time        `json:"created_at" db:"created_at"`
}

// Report is a standalone append-only complaint; NewsID is optional
// (a generic report).
type Report struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int       `json:"user_id" db:"user_id"`
	NewsID    *int64    `json:"news_id" db:"news_id"`
	Reason    string    `json:"reason" db:"reason"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// UserStats holds the lifetime-additive counters and gamification
// state for a user. Counters never decrement, even when
// moderation later removes the thing that incremented them (e.g. a
// deleted comment does not decrement CommentsCount).
type UserStats struct {
	UserID            int       `json:"user_id" db:"user_id"`
	ViewedCount       int       `json:"viewed_count" db:"viewed_count"`
	SavedCount        int       `json:"saved_count" db:"saved_count"`
	ReportedCount     int       `json:"reported_count" db:"reported_count"`
	ReadFullCount     int       `json:"read_full_count" db:"read_full_count"`
	SkippedCount      int       `json:"skipped_count" db:"skipped_count"`
	LikedCount        int       `json:"liked_count" db:"liked_count"`
	DislikedCount     int       `json:"disliked_count" db:"disliked_count"`
	CommentsCount     int       `json:"comments_count" db:"comments_count"`
	SourcesAddedCount int       `json:"sources_added_count" db:"sources_added_count"`
	LastActive        time.Time `json:"last_active" db:"last_active"`
}

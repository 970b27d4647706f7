// Package interactions exposes the interaction recorder as the
// HTTP API's entry point onto internal/store's transactional
// interaction bookkeeping — a thin facade so httpapi depends on
// intent-named operations (Record, Rate, Report, AddComment) rather
// than reaching into store directly.
package interactions

import (
	"context"

	"github.com/korolhresti/newsdigest/internal/models"
	"github.com/korolhresti/newsdigest/internal/store"
)

type Recorder struct {
	store *store.InteractionStore
}

func NewRecorder(s *store.InteractionStore) *Recorder {
	return &Recorder{store: s}
}

// Record logs a generic interaction (view/like/dislike/save/skip/read_full/report).
func (r *Recorder) Record(ctx context.Context, userID int, newsID int64, action models.Action) error {
	return r.store.Record(ctx, userID, newsID, action)
}

// TrackViewDuration accumulates time spent on a news item.
func (r *Recorder) TrackViewDuration(ctx context.Context, userID int, newsID int64, seconds int) error {
	return r.store.MarkViewed(ctx, userID, newsID, seconds)
}

// Bookmark saves a news item for a user.
func (r *Recorder) Bookmark(ctx context.Context, userID int, newsID int64) error {
	return r.store.Bookmark(ctx, userID, newsID)
}

func (r *Recorder) RemoveBookmark(ctx context.Context, userID int, newsID int64) error {
	return r.store.RemoveBookmark(ctx, userID, newsID)
}

// Rate records a 1..5 rating.
func (r *Recorder) Rate(ctx context.Context, userID int, newsID int64, value int) error {
	return r.store.Rate(ctx, userID, newsID, value)
}

// React records a like/dislike, last-write-wins.
func (r *Recorder) React(ctx context.Context, userID int, newsID int64, kind models.ReactionKind) error {
	return r.store.React(ctx, userID, newsID, kind)
}

// AddComment posts a comment, pending moderation.
func (r *Recorder) AddComment(ctx context.Context, newsID int64, userID int, parentID *int64, content string) (int64, error) {
	return r.store.AddComment(ctx, &models.Comment{
		NewsID:           newsID,
		UserID:           userID,
		ParentCommentID:  parentID,
		Content:          content,
		ModerationStatus: models.ModerationPending,
	})
}

// Report files a standalone report, optionally tied to a news item.
func (r *Recorder) Report(ctx context.Context, userID int, newsID *int64, reason string) (int64, error) {
	return r.store.AddReport(ctx, &models.Report{UserID: userID, NewsID: newsID, Reason: reason})
}

func (r *Recorder) Stats(ctx context.Context, userID int) (*models.UserStats, error) {
	return r.store.GetStats(ctx, userID)
}

// ListApprovedComments returns moderation-approved comments on a news item.
func (r *Recorder) ListApprovedComments(ctx context.Context, newsID int64) ([]*models.Comment, error) {
	return r.store.ListApprovedComments(ctx, newsID)
}

// ListBookmarks returns a user's saved items.
func (r *Recorder) ListBookmarks(ctx context.Context, userID int) ([]*models.Bookmark, error) {
	return r.store.ListBookmarks(ctx, userID)
}

// IncrementSourcesAdded bumps a user's sources_added_count, called
// after a successful POST /sources/add.
func (r *Recorder) IncrementSourcesAdded(ctx context.Context, userID int) error {
	return r.store.IncrementSourcesAdded(ctx, userID)
}

// SetCommentModeration applies an admin's approve/reject decision to a comment.
func (r *Recorder) SetCommentModeration(ctx context.Context, commentID int64, status models.ModerationStatus) error {
	return r.store.SetCommentModeration(ctx, commentID, status)
}

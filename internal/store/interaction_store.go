package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/korolhresti/newsdigest/internal/apperr"
	"github.com/korolhresti/newsdigest/internal/models"
)

// InteractionStore persists the append-only interaction log, the
// seen-set, bookmarks/ratings/reactions/comments/reports, and the
// lifetime-additive per-user counters derived from all of them. One
// store because the interaction recorder treats these as a
// single transactional unit per call.
type InteractionStore struct {
	db *sql.DB
}

func NewInteractionStore(db *sql.DB) *InteractionStore {
	return &InteractionStore{db: db}
}

// statCounterColumn maps an Action to the user_stats column it bumps;
// ActionView has no entry here; Record bumps viewed_count in its own
// ActionView branch.
var statCounterColumn = map[models.Action]string{
	models.ActionSave:     "saved_count",
	models.ActionReport:   "reported_count",
	models.ActionReadFull: "read_full_count",
	models.ActionSkip:     "skipped_count",
	models.ActionLike:     "liked_count",
	models.ActionDislike:  "disliked_count",
}

// Record appends an Interaction row and bumps the matching UserStats
// counter, in one transaction.
func (s *InteractionStore) Record(ctx context.Context, userID int, newsID int64, action models.Action) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperr.Internal(fmt.Errorf("begin record tx: %w", err))
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO interactions (user_id, news_id, action) VALUES ($1, $2, $3)
	`, userID, newsID, action); err != nil {
		return apperr.Internal(fmt.Errorf("insert interaction: %w", err))
	}

	if err := ensureUserStatsTx(ctx, tx, userID); err != nil {
		return err
	}

	if col, ok := statCounterColumn[action]; ok {
		if _, err := tx.ExecContext(ctx, fmt.Sprintf(`
			UPDATE user_stats SET %s = %s + 1, last_active = CURRENT_TIMESTAMP WHERE user_id = $1
		`, col, col), userID); err != nil {
			return apperr.Internal(fmt.Errorf("bump user stat: %w", err))
		}
	} else {
		if _, err := tx.ExecContext(ctx, `
			UPDATE user_stats SET last_active = CURRENT_TIMESTAMP WHERE user_id = $1
		`, userID); err != nil {
			return apperr.Internal(fmt.Errorf("touch user stat: %w", err))
		}
	}

	if action == models.ActionView {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO user_news_views (user_id, news_id, viewed, first_viewed_at, last_viewed_at)
			VALUES ($1, $2, true, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
			ON CONFLICT (user_id, news_id) DO UPDATE SET
				viewed = true, last_viewed_at = CURRENT_TIMESTAMP,
				first_viewed_at = COALESCE(user_news_views.first_viewed_at, CURRENT_TIMESTAMP)
		`, userID, newsID); err != nil {
			return apperr.Internal(fmt.Errorf("upsert view: %w", err))
		}
		if _, err := tx.ExecContext(ctx, `
			UPDATE user_stats SET viewed_count = viewed_count + 1 WHERE user_id = $1
		`, userID); err != nil {
			return apperr.Internal(fmt.Errorf("bump viewed_count: %w", err))
		}
	}

	if action == models.ActionReadFull {
		if _, err := tx.ExecContext(ctx, `
			UPDATE user_news_views SET read_full = true WHERE user_id = $1 AND news_id = $2
		`, userID, newsID); err != nil {
			return apperr.Internal(fmt.Errorf("mark read_full: %w", err))
		}
	}

	return tx.Commit()
}

// MarkViewed records time spent on a news item for the seen-set row.
func (s *InteractionStore) MarkViewed(ctx context.Context, userID int, newsID int64, secondsSpent int) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user_news_views (user_id, news_id, viewed, first_viewed_at, last_viewed_at, time_spent_seconds)
		VALUES ($1, $2, true, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP, $3)
		ON CONFLICT (user_id, news_id) DO UPDATE SET
			last_viewed_at = CURRENT_TIMESTAMP,
			time_spent_seconds = user_news_views.time_spent_seconds + $3
	`, userID, newsID, secondsSpent)
	if err != nil {
		return apperr.Internal(fmt.Errorf("mark viewed: %w", err))
	}
	return nil
}

func (s *InteractionStore) SeenNewsIDs(ctx context.Context, userID int) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT news_id FROM user_news_views WHERE user_id = $1 AND viewed = true
	`, userID)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("list seen news ids: %w", err))
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, apperr.Internal(fmt.Errorf("scan seen news id: %w", err))
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Bookmark toggles a bookmark on (idempotent) and bumps saved_count once.
func (s *InteractionStore) Bookmark(ctx context.Context, userID int, newsID int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperr.Internal(fmt.Errorf("begin bookmark tx: %w", err))
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO bookmarks (user_id, news_id) VALUES ($1, $2) ON CONFLICT DO NOTHING
	`, userID, newsID)
	if err != nil {
		return apperr.Internal(fmt.Errorf("insert bookmark: %w", err))
	}
	if n, _ := res.RowsAffected(); n > 0 {
		if err := ensureUserStatsTx(ctx, tx, userID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
			UPDATE user_stats SET saved_count = saved_count + 1, last_active = CURRENT_TIMESTAMP WHERE user_id = $1
		`, userID); err != nil {
			return apperr.Internal(fmt.Errorf("bump saved_count: %w", err))
		}
	}
	return tx.Commit()
}

func (s *InteractionStore) RemoveBookmark(ctx context.Context, userID int, newsID int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM bookmarks WHERE user_id = $1 AND news_id = $2`, userID, newsID)
	if err != nil {
		return apperr.Internal(fmt.Errorf("remove bookmark: %w", err))
	}
	return nil
}

// ListBookmarks returns a user's saved items, newest-first.
func (s *InteractionStore) ListBookmarks(ctx context.Context, userID int) ([]*models.Bookmark, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT user_id, news_id, created_at FROM bookmarks WHERE user_id = $1 ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("list bookmarks: %w", err))
	}
	defer rows.Close()

	var out []*models.Bookmark
	for rows.Next() {
		var b models.Bookmark
		if err := rows.Scan(&b.UserID, &b.NewsID, &b.CreatedAt); err != nil {
			return nil, apperr.Internal(fmt.Errorf("scan bookmark: %w", err))
		}
		out = append(out, &b)
	}
	return out, rows.Err()
}

func (s *InteractionStore) IsBookmarked(ctx context.Context, newsID int64) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM bookmarks WHERE news_id = $1)`, newsID).Scan(&exists)
	if err != nil {
		return false, apperr.Internal(fmt.Errorf("check bookmark existence: %w", err))
	}
	return exists, nil
}

// Rate upserts a 1..5 rating.
func (s *InteractionStore) Rate(ctx context.Context, userID int, newsID int64, value int) error {
	if value < 1 || value > 5 {
		return apperr.Validation("rating must be between 1 and 5, got %d", value)
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO ratings (user_id, news_id, value) VALUES ($1, $2, $3)
		ON CONFLICT (user_id, news_id) DO UPDATE SET value = EXCLUDED.value, updated_at = CURRENT_TIMESTAMP
	`, userID, newsID, value)
	if err != nil {
		return apperr.Internal(fmt.Errorf("upsert rating: %w", err))
	}
	return nil
}

func (s *InteractionStore) AverageRating(ctx context.Context, newsID int64) (float64, int, error) {
	var avg sql.NullFloat64
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT AVG(value), COUNT(*) FROM ratings WHERE news_id = $1
	`, newsID).Scan(&avg, &count)
	if err != nil {
		return 0, 0, apperr.Internal(fmt.Errorf("average rating: %w", err))
	}
	return avg.Float64, count, nil
}

// React upserts a like/dislike, last-write-wins, and bumps the
// matching lifetime counter exactly once per (user, news) pair
// transition so switching a reaction doesn't double count.
func (s *InteractionStore) React(ctx context.Context, userID int, newsID int64, kind models.ReactionKind) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperr.Internal(fmt.Errorf("begin react tx: %w", err))
	}
	defer tx.Rollback()

	var previous sql.NullString
	err = tx.QueryRowContext(ctx, `SELECT kind FROM reactions WHERE user_id = $1 AND news_id = $2`, userID, newsID).Scan(&previous)
	if err != nil && err != sql.ErrNoRows {
		return apperr.Internal(fmt.Errorf("read previous reaction: %w", err))
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO reactions (user_id, news_id, kind) VALUES ($1, $2, $3)
		ON CONFLICT (user_id, news_id) DO UPDATE SET kind = EXCLUDED.kind, updated_at = CURRENT_TIMESTAMP
	`, userID, newsID, kind); err != nil {
		return apperr.Internal(fmt.Errorf("upsert reaction: %w", err))
	}

	if !previous.Valid || previous.String != string(kind) {
		if err := ensureUserStatsTx(ctx, tx, userID); err != nil {
			return err
		}
		col := "liked_count"
		if kind == models.ReactionDislike {
			col = "disliked_count"
		}
		if _, err := tx.ExecContext(ctx, fmt.Sprintf(`
			UPDATE user_stats SET %s = %s + 1, last_active = CURRENT_TIMESTAMP WHERE user_id = $1
		`, col, col), userID); err != nil {
			return apperr.Internal(fmt.Errorf("bump reaction count: %w", err))
		}
	}

	return tx.Commit()
}

// AddComment inserts a Comment and bumps comments_count.
func (s *InteractionStore) AddComment(ctx context.Context, c *models.Comment) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, apperr.Internal(fmt.Errorf("begin comment tx: %w", err))
	}
	defer tx.Rollback()

	var id int64
	err = tx.QueryRowContext(ctx, `
		INSERT INTO comments (news_id, user_id, parent_comment_id, content, moderation_status)
		VALUES ($1, $2, $3, $4, $5) RETURNING id
	`, c.NewsID, c.UserID, c.ParentCommentID, c.Content, c.ModerationStatus).Scan(&id)
	if err != nil {
		return 0, apperr.Internal(fmt.Errorf("insert comment: %w", err))
	}

	if err := ensureUserStatsTx(ctx, tx, c.UserID); err != nil {
		return 0, err
	}
	if _, err := tx.ExecContext(ctx, `
		UPDATE user_stats SET comments_count = comments_count + 1, last_active = CURRENT_TIMESTAMP WHERE user_id = $1
	`, c.UserID); err != nil {
		return 0, apperr.Internal(fmt.Errorf("bump comments_count: %w", err))
	}

	if err := tx.Commit(); err != nil {
		return 0, apperr.Internal(fmt.Errorf("commit comment tx: %w", err))
	}
	return id, nil
}

// ListApprovedComments returns moderation-approved comments for a news item.
func (s *InteractionStore) ListApprovedComments(ctx context.Context, newsID int64) ([]*models.Comment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, news_id, user_id, parent_comment_id, content, moderation_status, created_at
		FROM comments WHERE news_id = $1 AND moderation_status = 'approved' ORDER BY created_at ASC
	`, newsID)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("list comments: %w", err))
	}
	defer rows.Close()

	var out []*models.Comment
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.ID, &c.NewsID, &c.UserID, &c.ParentCommentID, &c.Content, &c.ModerationStatus, &c.CreatedAt); err != nil {
			return nil, apperr.Internal(fmt.Errorf("scan comment: %w", err))
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}

func (s *InteractionStore) SetCommentModeration(ctx context.Context, id int64, status models.ModerationStatus) error {
	res, err := s.db.ExecContext(ctx, `UPDATE comments SET moderation_status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return apperr.Internal(fmt.Errorf("set comment moderation: %w", err))
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound("comment %d not found", id)
	}
	return nil
}

// AddReport inserts a standalone report and bumps reported_count.
func (s *InteractionStore) AddReport(ctx context.Context, r *models.Report) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, apperr.Internal(fmt.Errorf("begin report tx: %w", err))
	}
	defer tx.Rollback()

	var id int64
	if err := tx.QueryRowContext(ctx, `
		INSERT INTO reports (user_id, news_id, reason) VALUES ($1, $2, $3) RETURNING id
	`, r.UserID, r.NewsID, r.Reason).Scan(&id); err != nil {
		return 0, apperr.Internal(fmt.Errorf("insert report: %w", err))
	}

	if err := ensureUserStatsTx(ctx, tx, r.UserID); err != nil {
		return 0, err
	}
	if _, err := tx.ExecContext(ctx, `
		UPDATE user_stats SET reported_count = reported_count + 1, last_active = CURRENT_TIMESTAMP WHERE user_id = $1
	`, r.UserID); err != nil {
		return 0, apperr.Internal(fmt.Errorf("bump reported_count: %w", err))
	}

	if err := tx.Commit(); err != nil {
		return 0, apperr.Internal(fmt.Errorf("commit report tx: %w", err))
	}
	return id, nil
}

func (s *InteractionStore) GetStats(ctx context.Context, userID int) (*models.UserStats, error) {
	var st models.UserStats
	err := s.db.QueryRowContext(ctx, `
		SELECT user_id, viewed_count, saved_count, reported_count, read_full_count, skipped_count,
			liked_count, disliked_count, comments_count, sources_added_count, last_active
		FROM user_stats WHERE user_id = $1
	`, userID).Scan(&st.UserID, &st.ViewedCount, &st.SavedCount, &st.ReportedCount, &st.ReadFullCount,
		&st.SkippedCount, &st.LikedCount, &st.DislikedCount, &st.CommentsCount, &st.SourcesAddedCount, &st.LastActive)
	if err == sql.ErrNoRows {
		return &models.UserStats{UserID: userID}, nil
	}
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("get user stats: %w", err))
	}
	return &st, nil
}

// IncrementSourcesAdded bumps sources_added_count (called by the
// sources/add handler after SourceStore.Add succeeds).
func (s *InteractionStore) IncrementSourcesAdded(ctx context.Context, userID int) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperr.Internal(fmt.Errorf("begin tx: %w", err))
	}
	defer tx.Rollback()
	if err := ensureUserStatsTx(ctx, tx, userID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `
		UPDATE user_stats SET sources_added_count = sources_added_count + 1, last_active = CURRENT_TIMESTAMP WHERE user_id = $1
	`, userID); err != nil {
		return apperr.Internal(fmt.Errorf("bump sources_added_count: %w", err))
	}
	return tx.Commit()
}

func ensureUserStatsTx(ctx context.Context, tx *sql.Tx, userID int) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO user_stats (user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING
	`, userID)
	if err != nil {
		return apperr.Internal(fmt.Errorf("ensure user stats row: %w", err))
	}
	return nil
}

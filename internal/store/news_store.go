package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/korolhresti/newsdigest/internal/apperr"
	"github.com/korolhresti/newsdigest/internal/models"
)

// NewsStore persists news_items and their moderation lifecycle.
type NewsStore struct {
	db *sql.DB
}

func NewNewsStore(db *sql.DB) *NewsStore {
	return &NewsStore{db: db}
}

// Insert writes a new NewsItem and returns its assigned ID.
func (s *NewsStore) Insert(ctx context.Context, n *models.NewsItem) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO news_items (title, content, lang, country, tags, source, link, media_type,
			file_id, published_at, expires_at, moderation_status, source_type)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id
	`, n.Title, n.Content, n.Lang, n.Country, n.Tags, n.Source, n.Link, n.MediaType,
		n.FileID, n.PublishedAt, n.ExpiresAt, n.ModerationStatus, n.SourceType).Scan(&id)
	if err != nil {
		return 0, apperr.Internal(fmt.Errorf("insert news item: %w", err))
	}
	return id, nil
}

func (s *NewsStore) GetByID(ctx context.Context, id int64) (*models.NewsItem, error) {
	row := s.db.QueryRowContext(ctx, newsSelectColumns+` FROM news_items WHERE id = $1`, id)
	return scanNewsItem(row)
}

// ApplyEnrichment writes the enrichment provider's output back onto a
// news item. Called once per operation kind; each field is only
// written when it is still at its null/default value, so re-running
// enrichment on an already-processed item (a retry, a re-queued
// message) never clobbers a value a previous pass already committed.
// topics and is_duplicate are NOT NULL columns ('{}' and false are
// their defaults), so they test against that default instead of NULL;
// tone, sentiment_score and is_fake are nullable and test against NULL
// directly. topics is a pointer for the same reason the caller treats
// it specially: a nil *topics means classify didn't run (or failed)
// this pass, as opposed to a non-nil empty slice meaning classify ran
// and found no topics.
func (s *NewsStore) ApplyEnrichment(ctx context.Context, id int64, topics *[]string, tone *models.Tone,
	sentiment *float64, isFake *bool, isDuplicate *bool) error {
	var topicsArg any
	if topics != nil {
		topicsArg = models.StringArray(*topics)
	}
	_, err := s.db.ExecContext(ctx, `
		UPDATE news_items SET
			ai_classified_topics = CASE WHEN $1::text[] IS NOT NULL AND ai_classified_topics = '{}'
				THEN $1 ELSE ai_classified_topics END,
			tone = COALESCE(tone, $2),
			sentiment_score = COALESCE(sentiment_score, $3),
			is_fake = COALESCE(is_fake, $4),
			is_duplicate = CASE WHEN $5::boolean IS NOT NULL AND is_duplicate = false
				THEN $5 ELSE is_duplicate END
		WHERE id = $6
	`, topicsArg, tone, sentiment, isFake, isDuplicate, id)
	if err != nil {
		return apperr.Internal(fmt.Errorf("apply enrichment: %w", err))
	}
	return nil
}

// SetModerationStatus transitions a news item's moderation_status.
func (s *NewsStore) SetModerationStatus(ctx context.Context, id int64, status models.ModerationStatus) error {
	res, err := s.db.ExecContext(ctx, `UPDATE news_items SET moderation_status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return apperr.Internal(fmt.Errorf("set moderation status: %w", err))
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound("news item %d not found", id)
	}
	return nil
}

// FindCandidateDuplicates returns the 50 most recently published
// non-rejected items sharing the same source, for the enrichment
// pipeline's detect_duplicate step to compare against.
func (s *NewsStore) FindCandidateDuplicates(ctx context.Context, source string, excludeID int64) ([]*models.NewsItem, error) {
	rows, err := s.db.QueryContext(ctx, newsSelectColumns+`
		FROM news_items WHERE source = $1 AND id != $2 AND moderation_status != 'rejected'
		ORDER BY published_at DESC LIMIT 50
	`, source, excludeID)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("find candidate duplicates: %w", err))
	}
	defer rows.Close()
	return scanNewsItems(rows)
}

// ExpiredUnarchived returns every news item past expiry that has no
// matching archived_news row yet, regardless of bookmark status — the
// full set the scheduler's cleanup sweep must copy into the archive
// before any deletion happens.
func (s *NewsStore) ExpiredUnarchived(ctx context.Context, limit int) ([]*models.NewsItem, error) {
	rows, err := s.db.QueryContext(ctx, newsSelectColumns+`
		FROM news_items n
		WHERE n.expires_at < CURRENT_TIMESTAMP
		AND NOT EXISTS (SELECT 1 FROM archived_news a WHERE a.original_news_id = n.id)
		ORDER BY n.expires_at ASC LIMIT $1
	`, limit)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("list unarchived expired news items: %w", err))
	}
	defer rows.Close()
	return scanNewsItems(rows)
}

// ExpiredUnbookmarked returns news items past expiry that no user has
// bookmarked, the subset of the archived set the cleanup sweep deletes.
func (s *NewsStore) ExpiredUnbookmarked(ctx context.Context, limit int) ([]*models.NewsItem, error) {
	rows, err := s.db.QueryContext(ctx, newsSelectColumns+`
		FROM news_items n
		WHERE n.expires_at < CURRENT_TIMESTAMP
		AND NOT EXISTS (SELECT 1 FROM bookmarks b WHERE b.news_id = n.id)
		ORDER BY n.expires_at ASC LIMIT $1
	`, limit)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("list expired news items: %w", err))
	}
	defer rows.Close()
	return scanNewsItems(rows)
}

// Delete removes a news item outright; callers must archive first.
func (s *NewsStore) Delete(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM news_items WHERE id = $1`, id)
	if err != nil {
		return apperr.Internal(fmt.Errorf("delete news item: %w", err))
	}
	return nil
}

const newsSelectColumns = `
	SELECT id, title, content, lang, country, tags, ai_classified_topics, source, link,
		media_type, file_id, published_at, expires_at, tone, sentiment_score, is_fake,
		is_duplicate, moderation_status, source_type, created_at
`

type scannable interface {
	Scan(dest ...any) error
}

func scanNewsItemFrom(row scannable) (*models.NewsItem, error) {
	var n models.NewsItem
	err := row.Scan(&n.ID, &n.Title, &n.Content, &n.Lang, &n.Country, &n.Tags, &n.AIClassifiedTopics,
		&n.Source, &n.Link, &n.MediaType, &n.FileID, &n.PublishedAt, &n.ExpiresAt, &n.Tone,
		&n.SentimentScore, &n.IsFake, &n.IsDuplicate, &n.ModerationStatus, &n.SourceType, &n.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func scanNewsItem(row *sql.Row) (*models.NewsItem, error) {
	n, err := scanNewsItemFrom(row)
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("news item not found")
	}
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("scan news item: %w", err))
	}
	return n, nil
}

func scanNewsItems(rows *sql.Rows) ([]*models.NewsItem, error) {
	var out []*models.NewsItem
	for rows.Next() {
		n, err := scanNewsItemFrom(rows)
		if err != nil {
			return nil, apperr.Internal(fmt.Errorf("scan news item: %w", err))
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/korolhresti/newsdigest/internal/apperr"
	"github.com/korolhresti/newsdigest/internal/models"
)

// DiscoveryStore answers the three read-only endpoints that need no
// complex ranking or ML: search (substring + set match), trending
// (a views + rating heuristic) and recommend (trending filtered to a
// user's own topic affinity) — all computed in SQL, no model involved.
type DiscoveryStore struct {
	db *sql.DB
}

func NewDiscoveryStore(db *sql.DB) *DiscoveryStore {
	return &DiscoveryStore{db: db}
}

// Search matches query as a case-insensitive substring of title or
// content, or as a set member of tags/ai_classified_topics, among
// approved non-duplicate unexpired items.
func (s *DiscoveryStore) Search(ctx context.Context, query string, limit, offset int) ([]*models.NewsItem, error) {
	rows, err := s.db.QueryContext(ctx, newsSelectColumns+`
		FROM news_items
		WHERE moderation_status = 'approved' AND is_duplicate = false AND expires_at > CURRENT_TIMESTAMP
		AND (title ILIKE '%' || $1 || '%' OR content ILIKE '%' || $1 || '%'
			OR $1 = ANY(tags) OR $1 = ANY(ai_classified_topics))
		ORDER BY published_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`, query, limit, offset)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("search news items: %w", err))
	}
	defer rows.Close()
	return scanNewsItems(rows)
}

// trendingQuery is shared by Trending and Recommend: both rank
// approved, non-duplicate, unexpired items by
// views_last_24h + ratingWeight * avg_rating_last_24h, windowed by windowSeconds.
const trendingQuery = `
	SELECT n.id, n.title, n.content, n.lang, n.country, n.tags, n.ai_classified_topics, n.source, n.link,
		n.media_type, n.file_id, n.published_at, n.expires_at, n.tone, n.sentiment_score, n.is_fake,
		n.is_duplicate, n.moderation_status, n.source_type, n.created_at
	FROM news_items n
	LEFT JOIN (
		SELECT news_id, COUNT(*) AS views
		FROM interactions
		WHERE action = 'view' AND created_at > CURRENT_TIMESTAMP - ($1 || ' seconds')::interval
		GROUP BY news_id
	) v ON v.news_id = n.id
	LEFT JOIN (
		SELECT news_id, AVG(value) AS avg_rating
		FROM ratings
		WHERE updated_at > CURRENT_TIMESTAMP - ($1 || ' seconds')::interval
		GROUP BY news_id
	) r ON r.news_id = n.id
	WHERE n.moderation_status = 'approved' AND n.is_duplicate = false AND n.expires_at > CURRENT_TIMESTAMP
`

// Trending ranks items by the glossary heuristic within windowSeconds,
// globally (not personalized).
func (s *DiscoveryStore) Trending(ctx context.Context, windowSeconds int, ratingWeight float64, limit int) ([]*models.NewsItem, error) {
	rows, err := s.db.QueryContext(ctx, trendingQuery+`
		ORDER BY (COALESCE(v.views, 0) + $2 * COALESCE(r.avg_rating, 0)) DESC, n.published_at DESC, n.id DESC
		LIMIT $3
	`, windowSeconds, ratingWeight, limit)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("trending query: %w", err))
	}
	defer rows.Close()
	return scanNewsItems(rows)
}

// Recommend narrows the same trending heuristic to the tags/topics a
// user has shown affinity for (saved, liked or rated >=4) — a simple
// heuristic rather than a ranking model. When the user has no such
// history, it falls through to plain trending.
func (s *DiscoveryStore) Recommend(ctx context.Context, userID int, windowSeconds int, ratingWeight float64, limit int) ([]*models.NewsItem, error) {
	affinity, err := s.affinityTags(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(affinity) == 0 {
		return s.Trending(ctx, windowSeconds, ratingWeight, limit)
	}

	rows, err := s.db.QueryContext(ctx, trendingQuery+`
		AND (n.tags && $4 OR n.ai_classified_topics && $4)
		AND NOT EXISTS (SELECT 1 FROM user_news_views unv WHERE unv.user_id = $5 AND unv.news_id = n.id AND unv.viewed)
		ORDER BY (COALESCE(v.views, 0) + $2 * COALESCE(r.avg_rating, 0)) DESC, n.published_at DESC, n.id DESC
		LIMIT $3
	`, windowSeconds, ratingWeight, limit, models.StringArray(affinity), userID)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("recommend query: %w", err))
	}
	defer rows.Close()
	return scanNewsItems(rows)
}

// affinityTags collects the tags/topics of items the user saved,
// liked or rated 4-5, as a simple proxy for "what this user likes".
func (s *DiscoveryStore) affinityTags(ctx context.Context, userID int) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT unnest(n.tags || n.ai_classified_topics)
		FROM news_items n
		WHERE n.id IN (
			SELECT news_id FROM bookmarks WHERE user_id = $1
			UNION
			SELECT news_id FROM reactions WHERE user_id = $1 AND kind = 'like'
			UNION
			SELECT news_id FROM ratings WHERE user_id = $1 AND value >= 4
		)
		LIMIT 50
	`, userID)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("affinity tags: %w", err))
	}
	defer rows.Close()

	var tags []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, apperr.Internal(fmt.Errorf("scan affinity tag: %w", err))
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// Package feedresolver implements the per-user feed query:
// compose a user's positive filter or custom feed, subtract their
// blocklist, subtract safe-mode-restricted content, subtract items
// they've already seen, and page the remainder newest-first — all as
// one parameterized SQL statement built up clause by clause against
// lib/pq, never by string-interpolating a value.
package feedresolver

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/korolhresti/newsdigest/internal/apperr"
	"github.com/korolhresti/newsdigest/internal/models"
	"github.com/korolhresti/newsdigest/internal/store"
	"github.com/lib/pq"
)

// Resolver answers "what should this user see next".
type Resolver struct {
	db           *sql.DB
	filters      *store.FilterStore
	customFeeds  *store.CustomFeedStore
	blocks       *store.BlockStore
	interactions *store.InteractionStore
	nsfwTags     []string
}

func New(db *sql.DB, filters *store.FilterStore, customFeeds *store.CustomFeedStore,
	blocks *store.BlockStore, interactions *store.InteractionStore, nsfwTags []string) *Resolver {
	return &Resolver{
		db: db, filters: filters, customFeeds: customFeeds,
		blocks: blocks, interactions: interactions, nsfwTags: nsfwTags,
	}
}

// Resolve returns up to limit unseen, unblocked, approved news items
// for user, respecting their current positive filter/custom feed and
// safe mode, ordered newest first, skipping offset items.
func (r *Resolver) Resolve(ctx context.Context, user *models.User, limit, offset int) ([]*models.NewsItem, error) {
	qb := newQueryBuilder()
	// Step 1: base predicate — freshness, non-duplicate, approved.
	qb.where("expires_at > CURRENT_TIMESTAMP")
	qb.where("is_duplicate = false")
	qb.where("moderation_status = 'approved'")

	// Step 2: positive inclusion — custom feed takes priority over scalar filter.
	if user.CurrentFeedID != nil {
		cf, err := r.customFeeds.GetByID(ctx, *user.CurrentFeedID)
		if err == nil && cf.UserID == user.ID {
			applyCustomFeedFilters(qb, cf.Filters)
		}
	} else {
		filter, err := r.filters.Get(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		applyScalarFilter(qb, filter)
	}

	// Step 3: negative exclusion — blocklist. Dominates the positive filter
	// or custom feed: a blocked tag is excluded even if step 2 included it.
	blocks, err := r.blocks.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	applyBlocks(qb, blocks)

	// Step 4: safe mode — exclude negative/anxious tone and NSFW tags/topics.
	if user.SafeMode {
		qb.where("(tone IS NULL OR tone NOT IN ('negative','anxious'))")
		if len(r.nsfwTags) > 0 {
			qb.where(fmt.Sprintf("NOT (tags && %s) AND NOT (ai_classified_topics && %s)",
				qb.bindArray(r.nsfwTags), qb.bindArray(r.nsfwTags)))
		}
	}

	// Step 5: seen-set subtraction.
	seen, err := r.interactions.SeenNewsIDs(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if len(seen) > 0 {
		qb.where(fmt.Sprintf("id != ALL(%s)", qb.bindInt64Array(seen)))
	}

	// Step 6: order newest-first, tie-break by id for stable paging.
	qb.orderBy = "ORDER BY published_at DESC, id DESC"

	// Step 7: limit/offset.
	qb.limit = limit
	qb.offset = offset

	query, args := qb.build()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("resolve feed query: %w", err))
	}
	defer rows.Close()

	var out []*models.NewsItem
	for rows.Next() {
		var n models.NewsItem
		if err := rows.Scan(&n.ID, &n.Title, &n.Content, &n.Lang, &n.Country, &n.Tags, &n.AIClassifiedTopics,
			&n.Source, &n.Link, &n.MediaType, &n.FileID, &n.PublishedAt, &n.ExpiresAt, &n.Tone,
			&n.SentimentScore, &n.IsFake, &n.IsDuplicate, &n.ModerationStatus, &n.SourceType, &n.CreatedAt); err != nil {
			return nil, apperr.Internal(fmt.Errorf("scan resolved news item: %w", err))
		}
		out = append(out, &n)
	}
	return out, rows.Err()
}

func applyScalarFilter(qb *queryBuilder, f *models.Filter) {
	if f == nil {
		return
	}
	if f.Tag != nil {
		p := qb.bind(*f.Tag)
		qb.where(fmt.Sprintf("(%s = ANY(tags) OR %s = ANY(ai_classified_topics))", p, p))
	}
	if f.Category != nil {
		p := qb.bind(*f.Category)
		qb.where(fmt.Sprintf("(%s = ANY(tags) OR %s = ANY(ai_classified_topics))", p, p))
	}
	if f.Source != nil {
		qb.where(fmt.Sprintf("source = %s", qb.bind(*f.Source)))
	}
	if f.Language != nil {
		qb.where(fmt.Sprintf("lang = %s", qb.bind(*f.Language)))
	}
	if f.Country != nil {
		qb.where(fmt.Sprintf("country = %s", qb.bind(*f.Country)))
	}
	if f.ContentType != nil {
		qb.where(fmt.Sprintf("media_type = %s", qb.bind(*f.ContentType)))
	}
}

// applyCustomFeedFilters ORs within each kind, ANDs across kinds.
func applyCustomFeedFilters(qb *queryBuilder, filters models.FeedFilters) {
	for kind, values := range filters {
		if len(values) == 0 {
			continue
		}
		switch kind {
		case models.FilterKindTags:
			p := qb.bindArray(values)
			qb.where(fmt.Sprintf("(tags && %s OR ai_classified_topics && %s)", p, p))
		case models.FilterKindSources:
			qb.where(fmt.Sprintf("source = ANY(%s)", qb.bindArray(values)))
		case models.FilterKindLanguages:
			qb.where(fmt.Sprintf("lang = ANY(%s)", qb.bindArray(values)))
		case models.FilterKindCountries:
			qb.where(fmt.Sprintf("country = ANY(%s)", qb.bindArray(values)))
		case models.FilterKindContentTypes:
			qb.where(fmt.Sprintf("media_type = ANY(%s)", qb.bindArray(values)))
		}
	}
}

func applyBlocks(qb *queryBuilder, blocks []*models.Block) {
	for _, b := range blocks {
		switch b.BlockType {
		case models.BlockTypeTag:
			p := qb.bind(b.Value)
			qb.where(fmt.Sprintf("NOT (%s = ANY(tags) OR %s = ANY(ai_classified_topics))", p, p))
		case models.BlockTypeSource:
			qb.where(fmt.Sprintf("source != %s", qb.bind(b.Value)))
		case models.BlockTypeLanguage:
			qb.where(fmt.Sprintf("lang != %s", qb.bind(b.Value)))
		case models.BlockTypeCategory:
			qb.where(fmt.Sprintf("NOT (%s = ANY(ai_classified_topics))", qb.bind(b.Value)))
		}
	}
}

// queryBuilder accumulates WHERE clauses and positional args for a
// single parameterized SELECT against news_items. Every value reaches
// the query through bind/bindArray/bindInt64Array — never interpolated.
type queryBuilder struct {
	conditions []string
	args       []any
	orderBy    string
	limit      int
	offset     int
}

func newQueryBuilder() *queryBuilder {
	return &queryBuilder{}
}

func (qb *queryBuilder) where(cond string) {
	qb.conditions = append(qb.conditions, cond)
}

func (qb *queryBuilder) bind(v any) string {
	qb.args = append(qb.args, v)
	return fmt.Sprintf("$%d", len(qb.args))
}

func (qb *queryBuilder) bindArray(v []string) string {
	qb.args = append(qb.args, models.StringArray(v))
	return fmt.Sprintf("$%d", len(qb.args))
}

func (qb *queryBuilder) bindInt64Array(v []int64) string {
	qb.args = append(qb.args, pq.Int64Array(v))
	return fmt.Sprintf("$%d::bigint[]", len(qb.args))
}

func (qb *queryBuilder) build() (string, []any) {
	var b strings.Builder
	b.WriteString(newsSelectColumns)
	b.WriteString(" FROM news_items")
	if len(qb.conditions) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(qb.conditions, " AND "))
	}
	b.WriteString(" ")
	b.WriteString(qb.orderBy)
	args := qb.args
	if qb.limit > 0 {
		args = append(args, qb.limit)
		fmt.Fprintf(&b, " LIMIT $%d", len(args))
	}
	if qb.offset > 0 {
		args = append(args, qb.offset)
		fmt.Fprintf(&b, " OFFSET $%d", len(args))
	}
	return b.String(), args
}

const newsSelectColumns = `
	SELECT id, title, content, lang, country, tags, ai_classified_topics, source, link,
		media_type, file_id, published_at, expires_at, tone, sentiment_score, is_fake,
		is_duplicate, moderation_status, source_type, created_at
`

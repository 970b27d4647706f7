package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/korolhresti/newsdigest/internal/apperr"
	"github.com/korolhresti/newsdigest/internal/models"
)

// FilterStore persists a user's scalar Filter row, at most one per user.
type FilterStore struct {
	db *sql.DB
}

func NewFilterStore(db *sql.DB) *FilterStore {
	return &FilterStore{db: db}
}

// Upsert replaces the caller's filter row wholesale.
func (s *FilterStore) Upsert(ctx context.Context, f *models.Filter) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO filters (user_id, tag, category, source, language, country, content_type)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id) DO UPDATE SET
			tag = EXCLUDED.tag, category = EXCLUDED.category, source = EXCLUDED.source,
			language = EXCLUDED.language, country = EXCLUDED.country, content_type = EXCLUDED.content_type
	`, f.UserID, f.Tag, f.Category, f.Source, f.Language, f.Country, f.ContentType)
	if err != nil {
		return apperr.Internal(fmt.Errorf("upsert filter: %w", err))
	}
	return nil
}

// Get returns nil, nil when the user has never set a filter (not an error).
func (s *FilterStore) Get(ctx context.Context, userID int) (*models.Filter, error) {
	var f models.Filter
	err := s.db.QueryRowContext(ctx, `
		SELECT user_id, tag, category, source, language, country, content_type
		FROM filters WHERE user_id = $1
	`, userID).Scan(&f.UserID, &f.Tag, &f.Category, &f.Source, &f.Language, &f.Country, &f.ContentType)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("get filter: %w", err))
	}
	return &f, nil
}

// Reset clears a user's scalar filter row entirely.
func (s *FilterStore) Reset(ctx context.Context, userID int) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM filters WHERE user_id = $1`, userID)
	if err != nil {
		return apperr.Internal(fmt.Errorf("reset filter: %w", err))
	}
	return nil
}

// CustomFeedStore persists named filter bundles.
type CustomFeedStore struct {
	db *sql.DB
}

func NewCustomFeedStore(db *sql.DB) *CustomFeedStore {
	return &CustomFeedStore{db: db}
}

func (s *CustomFeedStore) Create(ctx context.Context, cf *models.CustomFeed) (int, error) {
	raw, err := json.Marshal(cf.Filters)
	if err != nil {
		return 0, apperr.Validation("invalid filters: %v", err)
	}
	var id int
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO custom_feeds (user_id, feed_name, filters) VALUES ($1, $2, $3) RETURNING id
	`, cf.UserID, cf.FeedName, raw).Scan(&id)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return 0, apperr.Conflict("a custom feed named %q already exists", cf.FeedName)
		}
		return 0, apperr.Internal(fmt.Errorf("create custom feed: %w", err))
	}
	return id, nil
}

func (s *CustomFeedStore) ListByUser(ctx context.Context, userID int) ([]*models.CustomFeed, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, feed_name, filters, created_at FROM custom_feeds WHERE user_id = $1
	`, userID)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("list custom feeds: %w", err))
	}
	defer rows.Close()

	var out []*models.CustomFeed
	for rows.Next() {
		cf, err := scanCustomFeed(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, cf)
	}
	return out, rows.Err()
}

func (s *CustomFeedStore) GetByID(ctx context.Context, id int) (*models.CustomFeed, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, feed_name, filters, created_at FROM custom_feeds WHERE id = $1
	`, id)
	cf, err := scanCustomFeed(row)
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("custom feed %d not found", id)
	}
	return cf, err
}

func (s *CustomFeedStore) Delete(ctx context.Context, id, userID int) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM custom_feeds WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return apperr.Internal(fmt.Errorf("delete custom feed: %w", err))
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound("custom feed %d not found", id)
	}
	return nil
}

func scanCustomFeed(row scannable) (*models.CustomFeed, error) {
	var cf models.CustomFeed
	var raw []byte
	if err := row.Scan(&cf.ID, &cf.UserID, &cf.FeedName, &raw, &cf.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, apperr.Internal(fmt.Errorf("scan custom feed: %w", err))
	}
	if err := json.Unmarshal(raw, &cf.Filters); err != nil {
		return nil, apperr.Internal(fmt.Errorf("decode custom feed filters: %w", err))
	}
	return &cf, nil
}

// BlockStore persists negative per-user filters.
type BlockStore struct {
	db *sql.DB
}

func NewBlockStore(db *sql.DB) *BlockStore {
	return &BlockStore{db: db}
}

func (s *BlockStore) Add(ctx context.Context, userID int, blockType models.BlockType, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO blocks (user_id, block_type, value) VALUES ($1, $2, $3)
		ON CONFLICT (user_id, block_type, value) DO NOTHING
	`, userID, blockType, value)
	if err != nil {
		return apperr.Internal(fmt.Errorf("add block: %w", err))
	}
	return nil
}

func (s *BlockStore) ListByUser(ctx context.Context, userID int) ([]*models.Block, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, block_type, value, created_at FROM blocks WHERE user_id = $1
	`, userID)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("list blocks: %w", err))
	}
	defer rows.Close()

	var out []*models.Block
	for rows.Next() {
		var b models.Block
		if err := rows.Scan(&b.ID, &b.UserID, &b.BlockType, &b.Value, &b.CreatedAt); err != nil {
			return nil, apperr.Internal(fmt.Errorf("scan block: %w", err))
		}
		out = append(out, &b)
	}
	return out, rows.Err()
}

// SubscriptionStore persists digest delivery preferences.
type SubscriptionStore struct {
	db *sql.DB
}

func NewSubscriptionStore(db *sql.DB) *SubscriptionStore {
	return &SubscriptionStore{db: db}
}

func (s *SubscriptionStore) Upsert(ctx context.Context, userID int, frequency models.Frequency) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO subscriptions (user_id, active, frequency) VALUES ($1, true, $2)
		ON CONFLICT (user_id) DO UPDATE SET active = true, frequency = EXCLUDED.frequency
	`, userID, frequency)
	if err != nil {
		return apperr.Internal(fmt.Errorf("upsert subscription: %w", err))
	}
	return nil
}

func (s *SubscriptionStore) Deactivate(ctx context.Context, userID int) error {
	_, err := s.db.ExecContext(ctx, `UPDATE subscriptions SET active = false WHERE user_id = $1`, userID)
	if err != nil {
		return apperr.Internal(fmt.Errorf("deactivate subscription: %w", err))
	}
	return nil
}

// ActiveDue returns active subscriptions of the given frequency whose
// last_dispatched_at is outside period, so the scheduler never
// double-dispatches within the same window.
func (s *SubscriptionStore) ActiveDue(ctx context.Context, frequency models.Frequency, period string) ([]*models.Subscription, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT user_id, active, frequency, last_dispatched_at FROM subscriptions
		WHERE active = true AND frequency = $1
		AND (last_dispatched_at IS NULL OR last_dispatched_at < CURRENT_TIMESTAMP - $2::interval)
	`, frequency, period)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("list due subscriptions: %w", err))
	}
	defer rows.Close()

	var out []*models.Subscription
	for rows.Next() {
		var sub models.Subscription
		if err := rows.Scan(&sub.UserID, &sub.Active, &sub.Frequency, &sub.LastDispatchedAt); err != nil {
			return nil, apperr.Internal(fmt.Errorf("scan subscription: %w", err))
		}
		out = append(out, &sub)
	}
	return out, rows.Err()
}

func (s *SubscriptionStore) MarkDispatched(ctx context.Context, userID int) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE subscriptions SET last_dispatched_at = CURRENT_TIMESTAMP WHERE user_id = $1
	`, userID)
	if err != nil {
		return apperr.Internal(fmt.Errorf("mark dispatched: %w", err))
	}
	return nil
}

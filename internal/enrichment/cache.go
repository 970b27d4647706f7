package enrichment

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/korolhresti/newsdigest/internal/models"
	"github.com/redis/go-redis/v9"
)

// CachingProvider decorates another Provider with a Redis-backed
// memo of each (operation, news_id) pair, so a retried enrichment
// step never re-spends an LLM call. A re-ingested link gets a new
// news_id and therefore a new cache key.
// Uses redis/go-redis/v9 for response caching.
type CachingProvider struct {
	inner Provider
	rdb   *redis.Client
	ttl   time.Duration
}

func NewCachingProvider(inner Provider, addr, password string, db int, ttl time.Duration) *CachingProvider {
	rdb := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	return &CachingProvider{inner: inner, rdb: rdb, ttl: ttl}
}

func cacheKey(op string, newsID int64, extra string) string {
	if extra != "" {
		return fmt.Sprintf("enrich:%s:%d:%s", op, newsID, extra)
	}
	return fmt.Sprintf("enrich:%s:%d", op, newsID)
}

// cacheKeyForText keys a bare-text request (no persisted news_id, so
// item.ID is the zero value) on a hash of the text itself, per
// (text_hash, target_lang)-style caching. Without this, every
// distinct text submitted with item.ID == 0 would collide on the same
// "enrich:<op>:0[:extra]" key and return each other's cached result.
func cacheKeyForText(op, text, extra string) string {
	sum := sha256.Sum256([]byte(text))
	hash := hex.EncodeToString(sum[:])
	if extra != "" {
		return fmt.Sprintf("enrich:%s:text:%s:%s", op, hash, extra)
	}
	return fmt.Sprintf("enrich:%s:text:%s", op, hash)
}

// keyForItem picks the id-based key for a persisted NewsItem and the
// text-hash key for a throwaway one (item.ID == 0), so bare-text
// /summary, /translate and /ai/rewrite_headline calls never share a
// cache slot with each other or with a persisted item.
func keyForItem(op string, item *models.NewsItem, text, extra string) string {
	if item.ID != 0 {
		return cacheKey(op, item.ID, extra)
	}
	return cacheKeyForText(op, text, extra)
}

func (c *CachingProvider) getOrCompute(ctx context.Context, key string, out any, compute func() (any, error)) error {
	if cached, err := c.rdb.Get(ctx, key).Result(); err == nil {
		return json.Unmarshal([]byte(cached), out)
	}

	val, err := compute()
	if err != nil {
		return err
	}
	raw, err := json.Marshal(val)
	if err != nil {
		return fmt.Errorf("marshal cache value: %w", err)
	}
	// Best-effort: a cache write failure must not fail the operation.
	_ = c.rdb.Set(ctx, key, raw, c.ttl).Err()

	tmp, err := json.Marshal(val)
	if err != nil {
		return err
	}
	return json.Unmarshal(tmp, out)
}

func (c *CachingProvider) Summarize(ctx context.Context, item *models.NewsItem) (string, error) {
	var out string
	key := keyForItem("summarize", item, item.Content, "")
	err := c.getOrCompute(ctx, key, &out, func() (any, error) {
		return c.inner.Summarize(ctx, item)
	})
	return out, err
}

func (c *CachingProvider) Classify(ctx context.Context, item *models.NewsItem) ([]string, error) {
	var out []string
	err := c.getOrCompute(ctx, cacheKey("classify", item.ID, ""), &out, func() (any, error) {
		return c.inner.Classify(ctx, item)
	})
	return out, err
}

func (c *CachingProvider) Sentiment(ctx context.Context, item *models.NewsItem) (models.Tone, float64, error) {
	type sentimentResult struct {
		Tone  models.Tone
		Score float64
	}
	var out sentimentResult
	err := c.getOrCompute(ctx, cacheKey("sentiment", item.ID, ""), &out, func() (any, error) {
		tone, score, err := c.inner.Sentiment(ctx, item)
		return sentimentResult{Tone: tone, Score: score}, err
	})
	return out.Tone, out.Score, err
}

func (c *CachingProvider) DetectFake(ctx context.Context, item *models.NewsItem) (bool, error) {
	var out bool
	err := c.getOrCompute(ctx, cacheKey("detect_fake", item.ID, ""), &out, func() (any, error) {
		return c.inner.DetectFake(ctx, item)
	})
	return out, err
}

// DetectDuplicate is not cached: its result depends on the candidate
// set at call time, which changes as new items are ingested.
func (c *CachingProvider) DetectDuplicate(ctx context.Context, item *models.NewsItem, candidates []*models.NewsItem) (bool, error) {
	return c.inner.DetectDuplicate(ctx, item, candidates)
}

func (c *CachingProvider) Translate(ctx context.Context, item *models.NewsItem, targetLang string) (string, error) {
	var out string
	// extra carries both source and target language, per the
	// (hash(text), source, target) cache key the translate endpoint
	// documents: two requests for the same text to different target
	// languages (or from different declared source languages) must
	// not collide on one slot.
	extra := fmt.Sprintf("%s>%s", item.Lang, targetLang)
	key := keyForItem("translate", item, item.Content, extra)
	err := c.getOrCompute(ctx, key, &out, func() (any, error) {
		return c.inner.Translate(ctx, item, targetLang)
	})
	return out, err
}

func (c *CachingProvider) RewriteHeadline(ctx context.Context, item *models.NewsItem) (string, error) {
	var out string
	key := keyForItem("rewrite_headline", item, item.Title, "")
	err := c.getOrCompute(ctx, key, &out, func() (any, error) {
		return c.inner.RewriteHeadline(ctx, item)
	})
	return out, err
}

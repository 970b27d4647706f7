// Package ingestion implements the news submission pipeline:
// validate and persist a NewsRequest, then enrich it asynchronously
// through a bounded worker pool so a burst of submissions degrades by
// rejecting new work (apperr.CodeOverloaded) rather than growing memory
// without bound — a bounded channel of workers instead of a single
// ticking goroutine.
package ingestion

import (
	"context"
	"log"
	"time"

	"github.com/korolhresti/newsdigest/internal/apperr"
	"github.com/korolhresti/newsdigest/internal/enrichment"
	"github.com/korolhresti/newsdigest/internal/models"
	"github.com/korolhresti/newsdigest/internal/store"
)

// job is one queued enrichment unit of work.
type job struct {
	newsID int64
}

// Pipeline validates and persists incoming NewsRequests, then enriches
// each one asynchronously.
type Pipeline struct {
	news       *store.NewsStore
	provider   enrichment.Provider
	queue      chan job
	maxRetries int
	workers    int
	stopChan   chan struct{}
}

// Config bundles Pipeline's tunables, read from config.Config by cmd/main.go.
type Config struct {
	QueueSize  int
	Workers    int
	MaxRetries int
	DefaultTTL time.Duration
	// AutoApprove maps source_type -> whether newly ingested items from
	// that source start out moderation_status=approved instead of pending.
	AutoApprove map[string]bool
}

func New(news *store.NewsStore, provider enrichment.Provider, cfg Config) *Pipeline {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 500
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 3
	}
	p := &Pipeline{
		news:       news,
		provider:   provider,
		queue:      make(chan job, cfg.QueueSize),
		maxRetries: cfg.MaxRetries,
		workers:    cfg.Workers,
		stopChan:   make(chan struct{}),
	}
	return p
}

// Start launches the fixed pool of enrichment workers. Call once at
// process startup. Stop signals the workers to exit and returns at
// once: it does not wait for an item being enriched, and items still
// queued are not enriched.
func (p *Pipeline) Start() {
	for i := 0; i < p.workers; i++ {
		go p.worker(i)
	}
}

func (p *Pipeline) Stop() {
	close(p.stopChan)
}

// Submit validates req, persists it, and enqueues enrichment. Returns
// apperr.CodeOverloaded immediately (never blocks) when the queue is full.
func (p *Pipeline) Submit(ctx context.Context, req *models.NewsRequest, defaultTTL time.Duration, autoApprove map[string]bool) (int64, error) {
	if err := validate(req); err != nil {
		return 0, err
	}

	ttl := defaultTTL
	if req.TTL != nil && *req.TTL > 0 {
		ttl = *req.TTL
	}

	status := models.ModerationPending
	if autoApprove[string(req.SourceType)] {
		status = models.ModerationApproved
	}

	item := &models.NewsItem{
		Title:            req.Title,
		Content:          req.Content,
		Lang:             req.Lang,
		Country:          req.Country,
		Tags:             models.StringArray(req.Tags),
		Source:           req.Source,
		Link:             req.Link,
		MediaType:        req.MediaType,
		FileID:           req.FileID,
		PublishedAt:      req.PublishedAt,
		ExpiresAt:        req.PublishedAt.Add(ttl),
		ModerationStatus: status,
		SourceType:       req.SourceType,
	}
	if item.MediaType == "" {
		item.MediaType = models.MediaTypeNone
	}

	id, err := p.news.Insert(ctx, item)
	if err != nil {
		return 0, err
	}

	select {
	case p.queue <- job{newsID: id}:
	default:
		return id, apperr.Overloaded("enrichment queue full, news item %d persisted but not yet enriched", id)
	}

	return id, nil
}

func validate(req *models.NewsRequest) error {
	if req.Title == "" {
		return apperr.Validation("title is required")
	}
	if req.Content == "" {
		return apperr.Validation("content is required")
	}
	if req.Source == "" {
		return apperr.Validation("source is required")
	}
	if req.PublishedAt.IsZero() {
		return apperr.Validation("published_at is required")
	}
	return nil
}

func (p *Pipeline) worker(id int) {
	for {
		select {
		case <-p.stopChan:
			return
		case j := <-p.queue:
			p.processWithRetry(j)
		}
	}
}

// processWithRetry runs enrichment for a single item with capped
// exponential backoff; a failure on the final attempt is logged and
// dropped — the item stays in its un-enriched state rather than
// blocking the worker pool indefinitely.
func (p *Pipeline) processWithRetry(j job) {
	backoff := 500 * time.Millisecond
	var err error
	for attempt := 0; attempt <= p.maxRetries; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		err = p.enrich(ctx, j.newsID)
		cancel()
		if err == nil {
			return
		}
		if attempt < p.maxRetries {
			time.Sleep(backoff)
			backoff *= 2
			if backoff > 30*time.Second {
				backoff = 30 * time.Second
			}
		}
	}
	log.Printf("enrichment failed permanently for news item %d after %d attempts: %v", j.newsID, p.maxRetries+1, err)
}

// enrich runs classify, sentiment, detect_duplicate and detect_fake for
// one item. A failed operation never aborts the ones after it: each
// step's result is collected independently and only the
// steps that actually succeeded are written back, so a single flaky
// call degrades to partial enrichment instead of none. The first error
// encountered (if any) is returned to drive the retry/backoff loop,
// but only after every step has had a chance to run.
func (p *Pipeline) enrich(ctx context.Context, newsID int64) error {
	item, err := p.news.GetByID(ctx, newsID)
	if err != nil {
		return err
	}

	var firstErr error
	note := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	var topicsPtr *[]string
	if t, err := p.provider.Classify(ctx, item); err != nil {
		note(err)
	} else {
		topicsPtr = &t
	}

	var tonePtr *models.Tone
	var sentimentPtr *float64
	if tone, sentiment, err := p.provider.Sentiment(ctx, item); err != nil {
		note(err)
	} else {
		tonePtr, sentimentPtr = &tone, &sentiment
	}

	// detect_duplicate failing leaves is_duplicate unset here, which
	// ApplyEnrichment leaves at the column's existing (safe) default
	// of false.
	var isDuplicatePtr *bool
	if candidates, err := p.news.FindCandidateDuplicates(ctx, item.Source, item.ID); err != nil {
		note(err)
	} else if dup, err := p.provider.DetectDuplicate(ctx, item, candidates); err != nil {
		note(err)
	} else {
		isDuplicatePtr = &dup
	}

	var isFakePtr *bool
	if fake, err := p.provider.DetectFake(ctx, item); err != nil {
		note(err)
	} else {
		isFakePtr = &fake
	}

	if err := p.news.ApplyEnrichment(ctx, newsID, topicsPtr, tonePtr, sentimentPtr, isFakePtr, isDuplicatePtr); err != nil {
		return err
	}
	return firstErr
}

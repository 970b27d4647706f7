// Package feedpoller periodically pulls RSS/Atom sources registered
// through sources/add and submits each item individually into the
// ingestion pipeline — rather than batching "build one digest from N
// feeds" — so every fetched item becomes its own NewsRequest and goes
// through the same validation, moderation and
// enrichment path as a manually submitted item. cmd/main.go starts it
// on every run, alongside manual/bot submissions.
package feedpoller

import (
	"context"
	"log"
	"time"

	"github.com/korolhresti/newsdigest/internal/ingestion"
	"github.com/korolhresti/newsdigest/internal/models"
	"github.com/korolhresti/newsdigest/internal/store"
	"github.com/mmcdole/gofeed"
)

// Service polls every active RSS source on an interval and feeds new
// items into the ingestion pipeline.
type Service struct {
	parser   *gofeed.Parser
	sources  *store.SourceStore
	pipeline *ingestion.Pipeline
	interval time.Duration
	defaultTTL time.Duration
	autoApprove map[string]bool

	stopChan chan struct{}
}

func NewService(sources *store.SourceStore, pipeline *ingestion.Pipeline, interval, defaultTTL time.Duration, autoApprove map[string]bool) *Service {
	return &Service{
		parser:      gofeed.NewParser(),
		sources:     sources,
		pipeline:    pipeline,
		interval:    interval,
		defaultTTL:  defaultTTL,
		autoApprove: autoApprove,
		stopChan:    make(chan struct{}),
	}
}

func (s *Service) Start() {
	go s.loop()
}

func (s *Service) Stop() {
	close(s.stopChan)
}

func (s *Service) loop() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.PollOnce(context.Background())
		case <-s.stopChan:
			return
		}
	}
}

// PollOnce fetches every active RSS source once and submits each item
// it finds. An individual feed's failure is logged and skipped so one
// unreachable source never blocks the rest.
func (s *Service) PollOnce(ctx context.Context) int {
	sources, err := s.sources.ListActive(ctx)
	if err != nil {
		log.Printf("feedpoller: list active sources failed: %v", err)
		return 0
	}

	submitted := 0
	for _, src := range sources {
		if src.Type != models.SourceTypeRSS {
			continue
		}
		n := s.pollSource(ctx, src)
		submitted += n
	}
	return submitted
}

func (s *Service) pollSource(ctx context.Context, src *models.Source) int {
	fetchCtx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	feed, err := s.parser.ParseURLWithContext(src.Link, fetchCtx)
	if err != nil {
		log.Printf("feedpoller: fetch %s (%s) failed: %v", src.Name, src.Link, err)
		return 0
	}

	submitted := 0
	for _, item := range feed.Items {
		req := itemToRequest(item, src)
		if _, err := s.pipeline.Submit(ctx, req, s.defaultTTL, s.autoApprove); err != nil {
			log.Printf("feedpoller: submit item from %s failed: %v", src.Name, err)
			continue
		}
		submitted++
	}
	log.Printf("feedpoller: submitted %d items from %s", submitted, src.Name)
	return submitted
}

func itemToRequest(item *gofeed.Item, src *models.Source) *models.NewsRequest {
	publishedAt := time.Now()
	if item.PublishedParsed != nil {
		publishedAt = *item.PublishedParsed
	}

	content := item.Content
	if content == "" {
		content = item.Description
	}

	var link *string
	if item.Link != "" {
		l := item.Link
		link = &l
	}

	var tags []string
	for _, cat := range item.Categories {
		tags = append(tags, cat)
	}

	return &models.NewsRequest{
		Title:       item.Title,
		Content:     content,
		Lang:        "",
		Country:     "",
		Tags:        tags,
		Source:      src.Name,
		Link:        link,
		MediaType:   models.MediaTypeNone,
		PublishedAt: publishedAt,
		SourceType:  models.SourceTypeRSS,
	}
}

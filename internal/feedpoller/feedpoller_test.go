package feedpoller

import (
	"testing"
	"time"

	"github.com/korolhresti/newsdigest/internal/models"
	"github.com/mmcdole/gofeed"
)

func TestItemToRequestPrefersContentOverDescription(t *testing.T) {
	src := &models.Source{Name: "BBC", Link: "https://bbc.com/feed", Type: models.SourceTypeRSS}
	item := &gofeed.Item{
		Title:       "headline",
		Content:     "full body",
		Description: "short blurb",
		Link:        "https://bbc.com/a",
		Categories:  []string{"world", "tech"},
	}

	req := itemToRequest(item, src)

	if req.Content != "full body" {
		t.Fatalf("expected Content field to win over Description, got %q", req.Content)
	}
	if req.Source != "BBC" {
		t.Fatalf("expected source name taken from the feed's source, got %q", req.Source)
	}
	if req.Link == nil || *req.Link != "https://bbc.com/a" {
		t.Fatalf("expected link to be carried through, got %v", req.Link)
	}
	if len(req.Tags) != 2 || req.Tags[0] != "world" || req.Tags[1] != "tech" {
		t.Fatalf("expected categories carried through as tags, got %#v", req.Tags)
	}
	if req.SourceType != models.SourceTypeRSS {
		t.Fatalf("expected source type RSS, got %v", req.SourceType)
	}
}

func TestItemToRequestFallsBackToDescriptionWhenContentEmpty(t *testing.T) {
	src := &models.Source{Name: "BBC", Link: "https://bbc.com/feed", Type: models.SourceTypeRSS}
	item := &gofeed.Item{Title: "headline", Description: "short blurb"}

	req := itemToRequest(item, src)

	if req.Content != "short blurb" {
		t.Fatalf("expected fallback to Description when Content is empty, got %q", req.Content)
	}
}

func TestItemToRequestLeavesLinkNilWhenFeedOmitsIt(t *testing.T) {
	src := &models.Source{Name: "BBC", Link: "https://bbc.com/feed", Type: models.SourceTypeRSS}
	item := &gofeed.Item{Title: "headline"}

	req := itemToRequest(item, src)

	if req.Link != nil {
		t.Fatalf("expected nil link when the feed item has none, got %v", *req.Link)
	}
}

func TestItemToRequestUsesParsedPublishDateWhenPresent(t *testing.T) {
	src := &models.Source{Name: "BBC", Link: "https://bbc.com/feed", Type: models.SourceTypeRSS}
	published := time.Date(2020, time.January, 2, 3, 4, 5, 0, time.UTC)
	item := &gofeed.Item{Title: "headline", PublishedParsed: &published}

	req := itemToRequest(item, src)

	if !req.PublishedAt.Equal(published) {
		t.Fatalf("expected PublishedAt to use the feed's parsed date, got %v", req.PublishedAt)
	}
}

func TestItemToRequestFallsBackToNowWhenPublishDateMissing(t *testing.T) {
	src := &models.Source{Name: "BBC", Link: "https://bbc.com/feed", Type: models.SourceTypeRSS}
	item := &gofeed.Item{Title: "headline"}

	before := time.Now()
	req := itemToRequest(item, src)
	after := time.Now()

	if req.PublishedAt.Before(before) || req.PublishedAt.After(after) {
		t.Fatalf("expected PublishedAt to default to roughly now, got %v", req.PublishedAt)
	}
}

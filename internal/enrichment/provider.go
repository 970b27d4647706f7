// Package enrichment implements the seven content-intelligence
// operations the ingestion pipeline runs over every NewsItem:
// summarize, classify, sentiment, detect_fake, detect_duplicate,
// translate and rewrite_headline. Swappable Provider implementations
// let the backend run against a local Ollama model, a hosted OpenAI
// model, or a dependency-free heuristic fallback, the way the
// teacher's internal/ai package wrapped a single Ollama backend behind
// Service.
package enrichment

import (
	"context"

	"github.com/korolhresti/newsdigest/internal/models"
)

// Result carries whichever fields an operation actually computed; the
// caller (ingestion.Pipeline) only persists the non-nil ones, so a
// Provider that doesn't support every operation can leave the rest zero.
type Result struct {
	Summary            string
	Topics             []string
	Tone               *models.Tone
	SentimentScore     *float64
	IsFake             *bool
	IsDuplicate        *bool
	TranslatedContent  string
	RewrittenHeadline  string
}

// Provider is the seam every enrichment backend implements. Each
// method operates on one NewsItem and is expected to be idempotent:
// calling it twice with the same item produces an equivalent Result.
type Provider interface {
	// Summarize produces a short synopsis of the item's content.
	Summarize(ctx context.Context, item *models.NewsItem) (string, error)
	// Classify assigns zero or more topic labels.
	Classify(ctx context.Context, item *models.NewsItem) ([]string, error)
	// Sentiment scores tone and a -1..1 sentiment value.
	Sentiment(ctx context.Context, item *models.NewsItem) (models.Tone, float64, error)
	// DetectFake estimates whether the item is fabricated or misleading.
	DetectFake(ctx context.Context, item *models.NewsItem) (bool, error)
	// DetectDuplicate compares item against candidates and reports
	// whether any of them is substantially the same story.
	DetectDuplicate(ctx context.Context, item *models.NewsItem, candidates []*models.NewsItem) (bool, error)
	// Translate renders the item's content in targetLang.
	Translate(ctx context.Context, item *models.NewsItem, targetLang string) (string, error)
	// RewriteHeadline produces an alternative headline for the item.
	RewriteHeadline(ctx context.Context, item *models.NewsItem) (string, error)
}

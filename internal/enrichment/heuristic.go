package enrichment

import (
	"context"
	"strings"

	"github.com/korolhresti/newsdigest/internal/models"
)

// HeuristicProvider is the dependency-free default backend: word-count
// truncation for summaries, simple lexicon scoring for sentiment, and
// Jaccard similarity over title words for duplicate detection. It
// exists so the backend boots and enriches content with
// ENRICHMENT_BACKEND=heuristic unset, without an LLM reachable.
type HeuristicProvider struct{}

func NewHeuristicProvider() *HeuristicProvider {
	return &HeuristicProvider{}
}

func (p *HeuristicProvider) Summarize(ctx context.Context, item *models.NewsItem) (string, error) {
	words := strings.Fields(item.Content)
	if len(words) <= 40 {
		return item.Content, nil
	}
	return strings.Join(words[:40], " ") + "...", nil
}

var topicKeywords = map[string][]string{
	"politics":  {"election", "government", "senate", "president", "congress", "minister", "parliament"},
	"technology": {"software", "ai", "startup", "app", "device", "chip", "internet"},
	"sports":    {"match", "tournament", "league", "championship", "goal", "score"},
	"business":  {"market", "stock", "earnings", "economy", "inflation", "trade"},
	"health":    {"vaccine", "hospital", "disease", "treatment", "outbreak", "virus"},
}

func (p *HeuristicProvider) Classify(ctx context.Context, item *models.NewsItem) ([]string, error) {
	text := strings.ToLower(item.Title + " " + item.Content)
	var topics []string
	for topic, keywords := range topicKeywords {
		for _, kw := range keywords {
			if strings.Contains(text, kw) {
				topics = append(topics, topic)
				break
			}
		}
	}
	return topics, nil
}

var positiveWords = []string{"win", "growth", "success", "breakthrough", "celebrate", "recovers", "improve"}
var negativeWords = []string{"crisis", "death", "disaster", "collapse", "war", "attack", "crash", "fails"}

func (p *HeuristicProvider) Sentiment(ctx context.Context, item *models.NewsItem) (models.Tone, float64, error) {
	text := strings.ToLower(item.Title + " " + item.Content)
	var score float64
	for _, w := range positiveWords {
		if strings.Contains(text, w) {
			score += 0.2
		}
	}
	for _, w := range negativeWords {
		if strings.Contains(text, w) {
			score -= 0.2
		}
	}
	if score > 1 {
		score = 1
	}
	if score < -1 {
		score = -1
	}

	tone := models.ToneNeutral
	switch {
	case score >= 0.3:
		tone = models.TonePositive
	case score <= -0.3:
		tone = models.ToneNegative
	case strings.Contains(text, "fear") || strings.Contains(text, "panic") || strings.Contains(text, "threat"):
		tone = models.ToneAnxious
	}
	return tone, score, nil
}

func (p *HeuristicProvider) DetectFake(ctx context.Context, item *models.NewsItem) (bool, error) {
	text := strings.ToLower(item.Title)
	for _, marker := range []string{"you won't believe", "shocking truth", "doctors hate", "this one trick"} {
		if strings.Contains(text, marker) {
			return true, nil
		}
	}
	return false, nil
}

func (p *HeuristicProvider) DetectDuplicate(ctx context.Context, item *models.NewsItem, candidates []*models.NewsItem) (bool, error) {
	itemWords := titleWordSet(item.Title)
	for _, c := range candidates {
		if jaccard(itemWords, titleWordSet(c.Title)) >= 0.5 {
			return true, nil
		}
	}
	return false, nil
}

func (p *HeuristicProvider) Translate(ctx context.Context, item *models.NewsItem, targetLang string) (string, error) {
	return item.Content, nil
}

func (p *HeuristicProvider) RewriteHeadline(ctx context.Context, item *models.NewsItem) (string, error) {
	return item.Title, nil
}

func titleWordSet(title string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(strings.ToLower(title)) {
		if len(w) > 3 {
			set[w] = struct{}{}
		}
	}
	return set
}

func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	intersection := 0
	for w := range a {
		if _, ok := b[w]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

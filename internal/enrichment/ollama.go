// Package enrichment's Ollama backend talks to a local Ollama instance
// over its /api/generate HTTP endpoint using a raw JSON request/response
// shape.
package enrichment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/korolhresti/newsdigest/internal/models"
)

const (
	defaultOllamaModel = "llama3.2:3b"
	ollamaCallTimeout  = 2 * time.Minute
	scrapeTimeout      = 20 * time.Second
	maxScrapedContent  = 8000
)

// ollamaRequest mirrors Ollama's /api/generate request body.
type ollamaRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	System string `json:"system,omitempty"`
	Stream bool   `json:"stream"`
}

// ollamaResponse mirrors Ollama's /api/generate response body when streaming is disabled.
type ollamaResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// OllamaProvider implements Provider against a local Ollama server.
type OllamaProvider struct {
	baseURL string
	model   string
	client  *http.Client
}

func NewOllamaProvider(baseURL, model string) *OllamaProvider {
	if model == "" {
		model = defaultOllamaModel
	}
	return &OllamaProvider{
		baseURL: baseURL,
		model:   model,
		client:  &http.Client{Timeout: ollamaCallTimeout},
	}
}

func (p *OllamaProvider) Summarize(ctx context.Context, item *models.NewsItem) (string, error) {
	content := p.effectiveContent(ctx, item)
	prompt := fmt.Sprintf("Summarize this news article in 2-3 sentences, factual tone, no preamble.\n\nTitle: %s\n\nContent: %s\n\nSummary:",
		item.Title, content)
	resp, err := p.generate(ctx, prompt, "")
	if err != nil {
		return "", fmt.Errorf("ollama summarize: %w", err)
	}
	return strings.TrimSpace(resp), nil
}

func (p *OllamaProvider) Classify(ctx context.Context, item *models.NewsItem) ([]string, error) {
	prompt := fmt.Sprintf(`Classify this news article into 1-3 topic labels from this set: politics, technology, sports, business, health, entertainment, science, world.
Return ONLY comma-separated labels, nothing else.

Title: %s
Content: %s

Labels:`, item.Title, item.Content)
	resp, err := p.generate(ctx, prompt, "")
	if err != nil {
		return nil, fmt.Errorf("ollama classify: %w", err)
	}
	var topics []string
	for _, raw := range strings.Split(resp, ",") {
		if t := strings.ToLower(strings.TrimSpace(raw)); t != "" {
			topics = append(topics, t)
		}
	}
	return topics, nil
}

func (p *OllamaProvider) Sentiment(ctx context.Context, item *models.NewsItem) (models.Tone, float64, error) {
	prompt := fmt.Sprintf(`Rate the sentiment of this article on a scale from -1.00 (very negative) to 1.00 (very positive).
Then classify its tone as exactly one of: positive, negative, neutral, anxious.
Respond with exactly two lines: the score, then the tone word. No other text.

Title: %s
Content: %s`, item.Title, item.Content)
	resp, err := p.generate(ctx, prompt, "")
	if err != nil {
		return models.ToneNeutral, 0, fmt.Errorf("ollama sentiment: %w", err)
	}

	lines := strings.Fields(resp)
	var score float64
	tone := models.ToneNeutral
	for _, tok := range lines {
		if f, err := strconv.ParseFloat(strings.Trim(tok, "+"), 64); err == nil {
			score = f
			continue
		}
		switch strings.ToLower(strings.Trim(tok, ".,")) {
		case "positive":
			tone = models.TonePositive
		case "negative":
			tone = models.ToneNegative
		case "anxious":
			tone = models.ToneAnxious
		}
	}
	if score > 1 {
		score = 1
	}
	if score < -1 {
		score = -1
	}
	return tone, score, nil
}

func (p *OllamaProvider) DetectFake(ctx context.Context, item *models.NewsItem) (bool, error) {
	prompt := fmt.Sprintf(`Does this article show hallmarks of misinformation or fabricated news (sensational claims with no sourcing, impossible facts, conspiracy framing)? Answer with exactly one word: yes or no.

Title: %s
Content: %s`, item.Title, item.Content)
	resp, err := p.generate(ctx, prompt, "")
	if err != nil {
		return false, fmt.Errorf("ollama detect_fake: %w", err)
	}
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(resp)), "yes"), nil
}

func (p *OllamaProvider) DetectDuplicate(ctx context.Context, item *models.NewsItem, candidates []*models.NewsItem) (bool, error) {
	if len(candidates) == 0 {
		return false, nil
	}
	var list strings.Builder
	for i, c := range candidates {
		if i >= 10 {
			break
		}
		fmt.Fprintf(&list, "%d. %s\n", i+1, c.Title)
	}
	prompt := fmt.Sprintf(`Is article A substantially the same story as any article in list B (same event, not just same topic)? Answer with exactly one word: yes or no.

Article A: %s

List B:
%s`, item.Title, list.String())
	resp, err := p.generate(ctx, prompt, "")
	if err != nil {
		return false, fmt.Errorf("ollama detect_duplicate: %w", err)
	}
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(resp)), "yes"), nil
}

func (p *OllamaProvider) Translate(ctx context.Context, item *models.NewsItem, targetLang string) (string, error) {
	prompt := fmt.Sprintf("Translate the following article content into %s. Return only the translated text.\n\n%s",
		targetLang, item.Content)
	resp, err := p.generate(ctx, prompt, "")
	if err != nil {
		return "", fmt.Errorf("ollama translate: %w", err)
	}
	return strings.TrimSpace(resp), nil
}

func (p *OllamaProvider) RewriteHeadline(ctx context.Context, item *models.NewsItem) (string, error) {
	prompt := fmt.Sprintf("Rewrite this headline to be clearer and less clickbait, one line, no quotes.\n\nOriginal: %s\n\nRewritten:", item.Title)
	resp, err := p.generate(ctx, prompt, "")
	if err != nil {
		return "", fmt.Errorf("ollama rewrite_headline: %w", err)
	}
	return strings.TrimSpace(strings.Trim(resp, `"`)), nil
}

// effectiveContent scrapes the full article body from item.Link when
// the stored content looks like a thin RSS teaser; falls back to the
// stored content on any scraping failure.
func (p *OllamaProvider) effectiveContent(ctx context.Context, item *models.NewsItem) string {
	if len(item.Content) > 500 || item.Link == nil {
		return item.Content
	}
	scraped, err := scrapeArticleBody(ctx, *item.Link)
	if err != nil || scraped == "" {
		return item.Content
	}
	return scraped
}

// scrapeArticleBody fetches articleURL and extracts its main text
// content via goquery, for summarizing full article bodies instead of
// bare RSS teasers.
func scrapeArticleBody(ctx context.Context, articleURL string) (string, error) {
	client := &http.Client{Timeout: scrapeTimeout}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, articleURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; newsdigest-bot/1.0)")

	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("scrape %s: status %d", articleURL, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", err
	}

	for _, selector := range []string{"article", ".article-content", ".entry-content", ".post-content", "main"} {
		if text := strings.TrimSpace(doc.Find(selector).First().Text()); len(text) > 200 {
			if len(text) > maxScrapedContent {
				text = text[:maxScrapedContent]
			}
			return text, nil
		}
	}
	return "", nil
}

func (p *OllamaProvider) generate(ctx context.Context, prompt, system string) (string, error) {
	reqBody := ollamaRequest{Model: p.model, Prompt: prompt, System: system, Stream: false}
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal ollama request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/api/generate", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("build ollama request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("call ollama: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("ollama error (status %d): %s", resp.StatusCode, string(body))
	}

	var out ollamaResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode ollama response: %w", err)
	}
	return stripTags(out.Response), nil
}

var tagPattern = regexp.MustCompile(`<[^>]*>`)

func stripTags(s string) string {
	return tagPattern.ReplaceAllString(s, "")
}

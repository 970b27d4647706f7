package enrichment

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/korolhresti/newsdigest/internal/models"
	openai "github.com/sashabaranov/go-openai"
)

// OpenAIProvider implements Provider against a hosted OpenAI chat
// model via github.com/sashabaranov/go-openai, as an alternative to
// the self-hosted Ollama backend.
type OpenAIProvider struct {
	client *openai.Client
	model  string
}

func NewOpenAIProvider(apiKey, model string) *OpenAIProvider {
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAIProvider{client: openai.NewClient(apiKey), model: model}
}

func (p *OpenAIProvider) complete(ctx context.Context, system, user string) (string, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai completion: no choices returned")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func (p *OpenAIProvider) Summarize(ctx context.Context, item *models.NewsItem) (string, error) {
	return p.complete(ctx, "You summarize news articles in 2-3 factual sentences.",
		fmt.Sprintf("Title: %s\n\nContent: %s", item.Title, item.Content))
}

func (p *OpenAIProvider) Classify(ctx context.Context, item *models.NewsItem) ([]string, error) {
	resp, err := p.complete(ctx,
		"You classify news articles into 1-3 topic labels from: politics, technology, sports, business, health, entertainment, science, world. Respond with comma-separated labels only.",
		fmt.Sprintf("Title: %s\n\nContent: %s", item.Title, item.Content))
	if err != nil {
		return nil, err
	}
	var topics []string
	for _, raw := range strings.Split(resp, ",") {
		if t := strings.ToLower(strings.TrimSpace(raw)); t != "" {
			topics = append(topics, t)
		}
	}
	return topics, nil
}

func (p *OpenAIProvider) Sentiment(ctx context.Context, item *models.NewsItem) (models.Tone, float64, error) {
	resp, err := p.complete(ctx,
		"You rate article sentiment from -1.00 to 1.00 and classify tone as positive, negative, neutral or anxious. Respond with exactly two tokens: the score then the tone word.",
		fmt.Sprintf("Title: %s\n\nContent: %s", item.Title, item.Content))
	if err != nil {
		return models.ToneNeutral, 0, err
	}
	tone := models.ToneNeutral
	var score float64
	for _, tok := range strings.Fields(resp) {
		if f, err := strconv.ParseFloat(strings.Trim(tok, "+,."), 64); err == nil {
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

func (p *OpenAIProvider) DetectFake(ctx context.Context, item *models.NewsItem) (bool, error) {
	resp, err := p.complete(ctx,
		"You detect hallmarks of fabricated or misleading news. Answer with exactly one word: yes or no.",
		fmt.Sprintf("Title: %s\n\nContent: %s", item.Title, item.Content))
	if err != nil {
		return false, err
	}
	return strings.HasPrefix(strings.ToLower(resp), "yes"), nil
}

func (p *OpenAIProvider) DetectDuplicate(ctx context.Context, item *models.NewsItem, candidates []*models.NewsItem) (bool, error) {
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
	resp, err := p.complete(ctx,
		"You decide whether article A covers the same event as any article in list B. Answer with exactly one word: yes or no.",
		fmt.Sprintf("Article A: %s\n\nList B:\n%s", item.Title, list.String()))
	if err != nil {
		return false, err
	}
	return strings.HasPrefix(strings.ToLower(resp), "yes"), nil
}

func (p *OpenAIProvider) Translate(ctx context.Context, item *models.NewsItem, targetLang string) (string, error) {
	return p.complete(ctx, fmt.Sprintf("You translate news article text into %s. Respond with only the translation.", targetLang), item.Content)
}

func (p *OpenAIProvider) RewriteHeadline(ctx context.Context, item *models.NewsItem) (string, error) {
	resp, err := p.complete(ctx, "You rewrite clickbait headlines to be clear and neutral, one line, no quotes.", item.Title)
	if err != nil {
		return "", err
	}
	return strings.Trim(resp, `"`), nil
}

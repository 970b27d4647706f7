package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/korolhresti/newsdigest/internal/apperr"
	"github.com/korolhresti/newsdigest/internal/models"
)

// HTTPNotifier pushes a digest to the chat front-end's webhook, so the
// bot can deliver it as a chat message instead of (or alongside) email.
// It is a thin JSON-over-HTTP client guarded by its own timeout,
// distinct from the SMTP path EmailNotifier uses.
type HTTPNotifier struct {
	baseURL string
	client  *http.Client
}

func NewHTTPNotifier(baseURL string, timeout time.Duration) *HTTPNotifier {
	return &HTTPNotifier{baseURL: baseURL, client: &http.Client{Timeout: timeout}}
}

type digestPayload struct {
	ChatUserID string          `json:"chat_user_id"`
	Items      []digestItemDTO `json:"items"`
}

type digestItemDTO struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Source      string `json:"source"`
	Link        string `json:"link,omitempty"`
	PublishedAt string `json:"published_at"`
}

func (n *HTTPNotifier) NotifyDigest(ctx context.Context, user *models.User, items []*models.NewsItem) error {
	if n.baseURL == "" {
		return nil
	}

	payload := digestPayload{ChatUserID: user.ChatUserID}
	for _, it := range items {
		dto := digestItemDTO{ID: it.ID, Title: it.Title, Source: it.Source, PublishedAt: it.PublishedAt.Format(time.RFC3339)}
		if it.Link != nil {
			dto.Link = *it.Link
		}
		payload.Items = append(payload.Items, dto)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return apperr.Internal(fmt.Errorf("marshal digest payload: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.baseURL+"/internal/digest", bytes.NewReader(body))
	if err != nil {
		return apperr.Internal(fmt.Errorf("build digest webhook request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return apperr.Transient(fmt.Errorf("post digest webhook: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return apperr.Transient(fmt.Errorf("digest webhook returned %d", resp.StatusCode))
	}
	if resp.StatusCode >= 400 {
		return apperr.Internal(fmt.Errorf("digest webhook rejected payload: status %d", resp.StatusCode))
	}
	return nil
}

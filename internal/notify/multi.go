package notify

import (
	"context"

	"github.com/korolhresti/newsdigest/internal/models"
)

// MultiNotifier fans a digest out to every configured channel,
// collecting the first error but still attempting the rest.
type MultiNotifier struct {
	notifiers []Notifier
}

func NewMultiNotifier(notifiers ...Notifier) *MultiNotifier {
	return &MultiNotifier{notifiers: notifiers}
}

func (m *MultiNotifier) NotifyDigest(ctx context.Context, user *models.User, items []*models.NewsItem) error {
	var firstErr error
	for _, n := range m.notifiers {
		if err := n.NotifyDigest(ctx, user, items); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Package notify delivers resolved feeds to users through whatever
// channel their client prefers. Notifier is the seam the scheduler
// depends on, so the digest
// dispatch logic never needs to know whether a user is reached by
// email or by a webhook back to the chat front end.
package notify

import (
	"context"

	"github.com/korolhresti/newsdigest/internal/models"
)

// Notifier pushes a resolved batch of news items to a single user.
type Notifier interface {
	NotifyDigest(ctx context.Context, user *models.User, items []*models.NewsItem) error
}

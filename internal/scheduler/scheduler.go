// Package scheduler runs the three independent background tasks the
// backend needs beyond request/response: dispatching digests to
// subscribed users, auto-notifying users in "auto" view mode, and
// sweeping expired, unbookmarked news items into the archive. Each
// runs on its own ticker and goroutine; all three share one stop
// channel, closed once by Stop.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/korolhresti/newsdigest/internal/config"
	"github.com/korolhresti/newsdigest/internal/feedresolver"
	"github.com/korolhresti/newsdigest/internal/models"
	"github.com/korolhresti/newsdigest/internal/notify"
	"github.com/korolhresti/newsdigest/internal/store"
)

// Service owns the three ticker-driven tasks and their lifecycle.
type Service struct {
	cfg          *config.Config
	users        *store.UserStore
	subs         *store.SubscriptionStore
	news         *store.NewsStore
	archive      *store.ArchiveStore
	interactions *store.InteractionStore
	resolver     *feedresolver.Resolver
	notifier     notify.Notifier

	digestTicker     *time.Ticker
	autoNotifyTicker *time.Ticker
	cleanupTicker    *time.Ticker
	stopChan         chan struct{}

	mutex   sync.RWMutex
	running bool
}

func NewService(cfg *config.Config, users *store.UserStore, subs *store.SubscriptionStore,
	news *store.NewsStore, archive *store.ArchiveStore, interactions *store.InteractionStore,
	resolver *feedresolver.Resolver, notifier notify.Notifier) *Service {
	return &Service{
		cfg: cfg, users: users, subs: subs, news: news, archive: archive,
		interactions: interactions, resolver: resolver, notifier: notifier,
		stopChan: make(chan struct{}),
	}
}

// Start launches all three background tasks. Idempotent: a second
// call while already running logs and returns.
func (s *Service) Start() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.running {
		log.Println("scheduler: already running")
		return
	}

	log.Println("scheduler: starting digest dispatcher, auto-notifier and cleanup sweep")
	s.running = true
	s.stopChan = make(chan struct{})

	s.digestTicker = time.NewTicker(s.cfg.DigestInterval)
	s.autoNotifyTicker = time.NewTicker(s.cfg.AutoNotifyInterval)
	s.cleanupTicker = time.NewTicker(s.cfg.CleanupInterval)

	go s.runLoop("digest", s.digestTicker, s.dispatchDigests)
	go s.runLoop("auto-notify", s.autoNotifyTicker, s.autoNotify)
	go s.runLoop("cleanup", s.cleanupTicker, s.cleanupExpired)
}

// Stop gracefully stops all three tasks. Idempotent.
func (s *Service) Stop() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if !s.running {
		return
	}

	log.Println("scheduler: stopping")
	s.running = false
	s.digestTicker.Stop()
	s.autoNotifyTicker.Stop()
	s.cleanupTicker.Stop()
	close(s.stopChan)
}

func (s *Service) IsRunning() bool {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.running
}

func (s *Service) runLoop(name string, ticker *time.Ticker, task func()) {
	for {
		select {
		case <-ticker.C:
			task()
		case <-s.stopChan:
			log.Printf("scheduler: %s task stopped", name)
			return
		}
	}
}

// dispatchDigests sends each due subscriber their resolved feed,
// honoring the rolling-vs-calendar-hour dispatch policy per frequency.
func (s *Service) dispatchDigests() {
	s.dispatchFrequency(models.FrequencyHourly, s.cfg.DigestPolicyHourly, s.cfg.DigestInterval)
	s.dispatchFrequency(models.FrequencyDaily, s.cfg.DigestPolicyDaily, 24*time.Hour)
}

func (s *Service) dispatchFrequency(freq models.Frequency, policy config.DigestPolicy, period time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.OutboundTimeout*4)
	defer cancel()

	if policy == config.DigestPolicyCalendarHour {
		now := time.Now().UTC()
		if now.Hour() != s.cfg.DailyDigestHour {
			return
		}
	}

	intervalLiteral := "1 hour"
	if freq == models.FrequencyDaily {
		intervalLiteral = "24 hours"
	}

	subs, err := s.subs.ActiveDue(ctx, freq, intervalLiteral)
	if err != nil {
		log.Printf("scheduler: list due %s subscriptions: %v", freq, err)
		return
	}

	for _, sub := range subs {
		if err := s.dispatchOne(ctx, sub.UserID); err != nil {
			log.Printf("scheduler: dispatch digest to user %d failed: %v", sub.UserID, err)
			continue
		}
		if err := s.subs.MarkDispatched(ctx, sub.UserID); err != nil {
			log.Printf("scheduler: mark dispatched for user %d failed: %v", sub.UserID, err)
		}
	}
}

// dispatchOne resolves a user's due digest and marks every dispatched
// item viewed before attempting the send.
func (s *Service) dispatchOne(ctx context.Context, userID int) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	items, err := s.resolver.Resolve(ctx, user, s.cfg.RecommendLimit, 0)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	for _, item := range items {
		if err := s.interactions.Record(ctx, user.ID, item.ID, models.ActionView); err != nil {
			log.Printf("scheduler: mark-viewed user %d item %d failed: %v", user.ID, item.ID, err)
		}
	}
	return s.notifier.NotifyDigest(ctx, user, items)
}

// autoNotify pushes at most one unseen item to each user in
// ViewModeAuto with auto_notifications enabled, independent of their
// digest subscription.
func (s *Service) autoNotify() {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.OutboundTimeout*4)
	defer cancel()

	interval := pgIntervalSeconds(s.cfg.AutoNotifyInterval)
	users, err := s.users.ListDueForAutoNotify(ctx, interval)
	if err != nil {
		log.Printf("scheduler: auto-notify candidate query failed: %v", err)
		return
	}

	for _, user := range users {
		items, err := s.resolver.Resolve(ctx, user, 1, 0)
		if err != nil || len(items) == 0 {
			continue
		}
		item := items[0]
		if err := s.interactions.Record(ctx, user.ID, item.ID, models.ActionView); err != nil {
			log.Printf("scheduler: mark-viewed user %d item %d failed: %v", user.ID, item.ID, err)
		}
		if err := s.users.MarkAutoNotified(ctx, user.ID); err != nil {
			log.Printf("scheduler: mark auto-notified user %d failed: %v", user.ID, err)
		}
		if err := s.notifier.NotifyDigest(ctx, user, items); err != nil {
			log.Printf("scheduler: auto-notify user %d failed: %v", user.ID, err)
		}
	}
}

// cleanupExpired archives every expired item, bookmarked or not, then
// deletes only the unbookmarked subset. Archive-then-delete ordering,
// and the archive store's ON CONFLICT DO NOTHING, make this idempotent
// across restarts: a bookmarked item keeps its archived_news row and
// its news_items row both, forever.
func (s *Service) cleanupExpired() {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.OutboundTimeout*4)
	defer cancel()

	toArchive, err := s.news.ExpiredUnarchived(ctx, 500)
	if err != nil {
		log.Printf("scheduler: list unarchived expired news items failed: %v", err)
		return
	}
	for _, item := range toArchive {
		if err := s.archive.Archive(ctx, item); err != nil {
			log.Printf("scheduler: archive news item %d failed: %v", item.ID, err)
		}
	}
	if len(toArchive) > 0 {
		log.Printf("scheduler: archived %d expired news items", len(toArchive))
	}

	toDelete, err := s.news.ExpiredUnbookmarked(ctx, 500)
	if err != nil {
		log.Printf("scheduler: list expired unbookmarked news items failed: %v", err)
		return
	}
	for _, item := range toDelete {
		if err := s.news.Delete(ctx, item.ID); err != nil {
			log.Printf("scheduler: delete news item %d failed: %v", item.ID, err)
		}
	}
	if len(toDelete) > 0 {
		log.Printf("scheduler: removed %d expired news items", len(toDelete))
	}
}

// pgIntervalSeconds renders d as a Postgres interval literal
// (`$1::interval`), since Go's Duration.String() ("10m0s") is not
// valid interval syntax.
func pgIntervalSeconds(d time.Duration) string {
	return fmt.Sprintf("%d seconds", int(d.Seconds()))
}

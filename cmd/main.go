package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/korolhresti/newsdigest/internal/adminauth"
	"github.com/korolhresti/newsdigest/internal/config"
	"github.com/korolhresti/newsdigest/internal/database"
	"github.com/korolhresti/newsdigest/internal/enrichment"
	"github.com/korolhresti/newsdigest/internal/feedpoller"
	"github.com/korolhresti/newsdigest/internal/feedresolver"
	"github.com/korolhresti/newsdigest/internal/httpapi"
	"github.com/korolhresti/newsdigest/internal/ingestion"
	"github.com/korolhresti/newsdigest/internal/interactions"
	"github.com/korolhresti/newsdigest/internal/notify"
	"github.com/korolhresti/newsdigest/internal/scheduler"
	"github.com/korolhresti/newsdigest/internal/store"
)

func main() {
	cfg := config.Load()

	db, err := database.NewDB()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	users := store.NewUserStore(db)
	news := store.NewNewsStore(db)
	filters := store.NewFilterStore(db)
	customFeeds := store.NewCustomFeedStore(db)
	blocks := store.NewBlockStore(db)
	subs := store.NewSubscriptionStore(db)
	sourcesStore := store.NewSourceStore(db)
	invites := store.NewInviteStore(db)
	archive := store.NewArchiveStore(db)
	adminActions := store.NewAdminActionStore(db)
	discovery := store.NewDiscoveryStore(db)
	interactionStore := store.NewInteractionStore(db)

	provider := buildEnrichmentProvider(cfg)

	pipeline := ingestion.New(news, provider, ingestion.Config{
		QueueSize:   cfg.EnrichmentQueueSize,
		Workers:     cfg.EnrichmentWorkers,
		MaxRetries:  cfg.EnrichmentMaxRetries,
		DefaultTTL:  cfg.DefaultNewsTTL,
		AutoApprove: cfg.AutoApproveSourceTypes,
	})
	pipeline.Start()
	defer pipeline.Stop()

	resolver := feedresolver.New(db, filters, customFeeds, blocks, interactionStore, cfg.SafeModeNSFWTags)
	recorder := interactions.NewRecorder(interactionStore)
	adminAuth := adminauth.NewService(db, cfg.AdminJWTSecret, cfg.AdminTokenTTL)

	notifier := buildNotifier(cfg)
	schedulerService := scheduler.NewService(cfg, users, subs, news, archive, interactionStore, resolver, notifier)
	schedulerService.Start()
	defer schedulerService.Stop()

	poller := feedpoller.NewService(sourcesStore, pipeline, 15*time.Minute, cfg.DefaultNewsTTL, cfg.AutoApproveSourceTypes)
	poller.Start()
	defer poller.Stop()

	router := httpapi.NewRouter(&httpapi.Deps{
		Cfg:           cfg,
		Users:         users,
		News:          news,
		Filters:       filters,
		CustomFeeds:   customFeeds,
		Blocks:        blocks,
		Subscriptions: subs,
		Sources:       sourcesStore,
		Invites:       invites,
		AdminActions:  adminActions,
		Discovery:     discovery,
		Resolver:      resolver,
		Ingestion:     pipeline,
		Interactions:  recorder,
		Enrichment:    provider,
		AdminAuth:     adminAuth,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on port %s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

// buildEnrichmentProvider selects the backend named by
// ENRICHMENT_BACKEND, wrapping it in a Redis-backed CachingProvider so
// repeat /summary, /verify and /translate calls against the same item
// don't re-hit the model.
func buildEnrichmentProvider(cfg *config.Config) enrichment.Provider {
	var base enrichment.Provider
	switch cfg.EnrichmentBackend {
	case "ollama":
		base = enrichment.NewOllamaProvider(cfg.OllamaURL, cfg.OllamaModel)
	case "openai":
		base = enrichment.NewOpenAIProvider(cfg.OpenAIAPIKey, cfg.OpenAIModel)
	default:
		base = enrichment.NewHeuristicProvider()
	}
	return enrichment.NewCachingProvider(base, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.EnrichmentCacheTTL)
}

// buildNotifier fans digests out over every channel this deployment
// has configured: the chat front end's webhook when FrontendBaseURL is
// set, SMTP email whenever a user has an address on file.
func buildNotifier(cfg *config.Config) notify.Notifier {
	var notifiers []notify.Notifier
	if cfg.FrontendBaseURL != "" {
		notifiers = append(notifiers, notify.NewHTTPNotifier(cfg.FrontendBaseURL, cfg.OutboundTimeout))
	}
	notifiers = append(notifiers, notify.NewEmailNotifier(notify.SMTPConfigFromEnv()))
	return notify.NewMultiNotifier(notifiers...)
}

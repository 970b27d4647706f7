// Package httpapi implements the request-serving layer: JSON
// handlers over github.com/go-chi/chi/v5, one file per endpoint group.
// Every dependency is consumed through a narrow interface defined in
// this file rather than the concrete *store.XStore type, so tests can
// swap in an in-memory fake without a database or a mocking library.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/korolhresti/newsdigest/internal/adminauth"
	"github.com/korolhresti/newsdigest/internal/config"
	"github.com/korolhresti/newsdigest/internal/models"
)

// UserStore is the subset of *store.UserStore the API needs.
type UserStore interface {
	GetOrCreate(ctx context.Context, chatUserID, language, country string) (*models.User, error)
	GetByChatUserID(ctx context.Context, chatUserID string) (*models.User, error)
	GetByID(ctx context.Context, id int) (*models.User, error)
	UpdateProfile(ctx context.Context, u *models.User) error
	SetPremium(ctx context.Context, userID int, premium bool, expiresAt *string) error
	IncrementLevel(ctx context.Context, userID, delta int) error
}

// NewsStore is the subset of *store.NewsStore the API needs.
type NewsStore interface {
	GetByID(ctx context.Context, id int64) (*models.NewsItem, error)
	SetModerationStatus(ctx context.Context, id int64, status models.ModerationStatus) error
}

// FilterStore is the subset of *store.FilterStore the API needs.
type FilterStore interface {
	Upsert(ctx context.Context, f *models.Filter) error
	Get(ctx context.Context, userID int) (*models.Filter, error)
	Reset(ctx context.Context, userID int) error
}

// CustomFeedStore is the subset of *store.CustomFeedStore the API needs.
type CustomFeedStore interface {
	Create(ctx context.Context, cf *models.CustomFeed) (int, error)
	ListByUser(ctx context.Context, userID int) ([]*models.CustomFeed, error)
	GetByID(ctx context.Context, id int) (*models.CustomFeed, error)
}

// BlockStore is the subset of *store.BlockStore the API needs.
type BlockStore interface {
	Add(ctx context.Context, userID int, blockType models.BlockType, value string) error
}

// SubscriptionStore is the subset of *store.SubscriptionStore the API needs.
type SubscriptionStore interface {
	Upsert(ctx context.Context, userID int, frequency models.Frequency) error
	Deactivate(ctx context.Context, userID int) error
}

// SourceStore is the subset of *store.SourceStore the API needs.
type SourceStore interface {
	Add(ctx context.Context, src *models.Source) (int, error)
	SetStatus(ctx context.Context, id int, status models.SourceStatus) error
}

// InviteStore is the subset of *store.InviteStore the API needs.
type InviteStore interface {
	Create(ctx context.Context, inviterUserID int, code string) (*models.Invite, error)
	GetByCode(ctx context.Context, code string) (*models.Invite, error)
	Accept(ctx context.Context, code string, invitedUserID int) (*models.Invite, error)
}

// AdminActionStore is the subset of *store.AdminActionStore the API needs.
type AdminActionStore interface {
	Record(ctx context.Context, actorID int, actionType models.AdminActionType, targetID *int64, details *string) error
}

// DiscoveryStore is the subset of *store.DiscoveryStore the API needs.
type DiscoveryStore interface {
	Search(ctx context.Context, query string, limit, offset int) ([]*models.NewsItem, error)
	Trending(ctx context.Context, windowSeconds int, ratingWeight float64, limit int) ([]*models.NewsItem, error)
	Recommend(ctx context.Context, userID int, windowSeconds int, ratingWeight float64, limit int) ([]*models.NewsItem, error)
}

// Resolver is *feedresolver.Resolver's public surface.
type Resolver interface {
	Resolve(ctx context.Context, user *models.User, limit, offset int) ([]*models.NewsItem, error)
}

// Ingestion is *ingestion.Pipeline's public surface.
type Ingestion interface {
	Submit(ctx context.Context, req *models.NewsRequest, defaultTTL time.Duration, autoApprove map[string]bool) (int64, error)
}

// Interactions is *interactions.Recorder's public surface.
type Interactions interface {
	Record(ctx context.Context, userID int, newsID int64, action models.Action) error
	Bookmark(ctx context.Context, userID int, newsID int64) error
	Rate(ctx context.Context, userID int, newsID int64, value int) error
	React(ctx context.Context, userID int, newsID int64, kind models.ReactionKind) error
	AddComment(ctx context.Context, newsID int64, userID int, parentID *int64, content string) (int64, error)
	Report(ctx context.Context, userID int, newsID *int64, reason string) (int64, error)
	Stats(ctx context.Context, userID int) (*models.UserStats, error)
	ListApprovedComments(ctx context.Context, newsID int64) ([]*models.Comment, error)
	ListBookmarks(ctx context.Context, userID int) ([]*models.Bookmark, error)
	IncrementSourcesAdded(ctx context.Context, userID int) error
	SetCommentModeration(ctx context.Context, commentID int64, status models.ModerationStatus) error
}

// Enrichment is the subset of enrichment.Provider consumed directly by
// the /summary, /verify, /ai/rewrite_headline and /translate endpoints.
// Some of them build a NewsItem from request text that is never persisted.
type Enrichment interface {
	Summarize(ctx context.Context, item *models.NewsItem) (string, error)
	DetectFake(ctx context.Context, item *models.NewsItem) (bool, error)
	RewriteHeadline(ctx context.Context, item *models.NewsItem) (string, error)
	Translate(ctx context.Context, item *models.NewsItem, targetLang string) (string, error)
}

// AdminAuth is *adminauth.Service's public surface.
type AdminAuth interface {
	Login(ctx context.Context, email, password string) (string, *models.AdminUser, error)
	ValidateToken(tokenString string) (int, error)
}

// Deps bundles every dependency the API's handlers read from. All
// fields are interfaces so tests construct a Deps from fakes without
// a database.
type Deps struct {
	Cfg           *config.Config
	Users         UserStore
	News          NewsStore
	Filters       FilterStore
	CustomFeeds   CustomFeedStore
	Blocks        BlockStore
	Subscriptions SubscriptionStore
	Sources       SourceStore
	Invites       InviteStore
	AdminActions  AdminActionStore
	Discovery     DiscoveryStore
	Resolver      Resolver
	Ingestion     Ingestion
	Interactions  Interactions
	Enrichment    Enrichment
	AdminAuth     AdminAuth
}

// NewRouter builds the full chi router for every endpoint, with a
// RequestID/Logger/Recoverer/60s Timeout/CORS middleware stack.
func NewRouter(d *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	h := &handler{d: d}

	r.Get("/health", h.health)

	r.Route("/users", func(r chi.Router) {
		r.Post("/register", h.registerUser)
		r.Get("/{userID}/profile", h.getProfile)
	})

	r.Route("/news", func(r chi.Router) {
		r.Post("/add", h.addNews)
		r.Get("/search", h.searchNews)
		r.Get("/{userID}", h.getNews)
	})

	r.Route("/filters", func(r chi.Router) {
		r.Post("/update", h.updateFilters)
		r.Get("/{userID}", h.getFilters)
		r.Delete("/reset/{userID}", h.resetFilters)
	})

	r.Route("/custom_feeds", func(r chi.Router) {
		r.Post("/create", h.createCustomFeed)
		r.Get("/{userID}", h.listCustomFeeds)
		r.Post("/switch", h.switchCustomFeed)
	})

	r.Route("/subscriptions", func(r chi.Router) {
		r.Post("/update", h.updateSubscription)
		r.Post("/unsubscribe", h.unsubscribe)
	})

	r.Route("/bookmarks", func(r chi.Router) {
		r.Post("/add", h.addBookmark)
		r.Get("/{userID}", h.listBookmarks)
	})

	r.Route("/comments", func(r chi.Router) {
		r.Post("/add", h.addComment)
		r.Get("/{newsID}", h.listComments)
	})

	r.Post("/rate", h.rate)
	r.Post("/block", h.block)
	r.Post("/report", h.report)
	r.Post("/log_user_activity", h.logUserActivity)

	r.Post("/summary", h.summary)
	r.Get("/verify/{newsID}", h.verify)
	r.Post("/ai/rewrite_headline", h.rewriteHeadline)
	r.Post("/translate", h.translate)

	r.Get("/recommend/{userID}", h.recommend)
	r.Get("/trending", h.trending)
	r.Get("/analytics/{userID}", h.analytics)

	r.Route("/invite", func(r chi.Router) {
		r.Post("/generate", h.generateInvite)
		r.Post("/accept", h.acceptInvite)
	})

	r.Post("/sources/add", h.addSource)

	r.Route("/admin", func(r chi.Router) {
		r.Post("/login", h.adminLogin)
		r.Group(func(r chi.Router) {
			r.Use(h.requireAdmin)
			r.Post("/moderate", h.moderate)
		})
	})

	return r
}

func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// requireAdmin validates the bearer token and stores the actor id on
// the request context for handlers to read via adminauth.ActorIDFromContext.
func (h *handler) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			writeError(w, apperrForbidden("missing admin bearer token"))
			return
		}
		actorID, err := h.d.AdminAuth.ValidateToken(token)
		if err != nil {
			writeError(w, apperrForbidden("invalid admin bearer token"))
			return
		}
		ctx := adminauth.WithActorID(r.Context(), actorID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(auth) > len(prefix) && auth[:len(prefix)] == prefix {
		return auth[len(prefix):]
	}
	return ""
}

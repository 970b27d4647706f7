package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/korolhresti/newsdigest/internal/apperr"
	"github.com/korolhresti/newsdigest/internal/config"
	"github.com/korolhresti/newsdigest/internal/models"
)

// --- fakes implementing the narrow interfaces declared in server.go ---

type fakeUserStore struct {
	users      map[int]*models.User
	byChatUser map[string]*models.User
	nextID     int
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[int]*models.User{}, byChatUser: map[string]*models.User{}}
}

func (f *fakeUserStore) GetOrCreate(ctx context.Context, chatUserID, language, country string) (*models.User, error) {
	if u, ok := f.byChatUser[chatUserID]; ok {
		return u, nil
	}
	f.nextID++
	u := &models.User{ID: f.nextID, ChatUserID: chatUserID, Language: language, Country: country, ViewMode: models.ViewModeManual}
	f.users[u.ID] = u
	f.byChatUser[chatUserID] = u
	return u, nil
}

func (f *fakeUserStore) GetByChatUserID(ctx context.Context, chatUserID string) (*models.User, error) {
	if u, ok := f.byChatUser[chatUserID]; ok {
		return u, nil
	}
	return nil, apperr.NotFound("user not found")
}

func (f *fakeUserStore) GetByID(ctx context.Context, id int) (*models.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, apperr.NotFound("user %d not found", id)
}

func (f *fakeUserStore) UpdateProfile(ctx context.Context, u *models.User) error {
	f.users[u.ID] = u
	return nil
}

func (f *fakeUserStore) SetPremium(ctx context.Context, userID int, premium bool, expiresAt *string) error {
	u, ok := f.users[userID]
	if !ok {
		return apperr.NotFound("user %d not found", userID)
	}
	u.IsPremium = premium
	if expiresAt != nil {
		t, err := time.Parse(time.RFC3339, *expiresAt)
		if err != nil {
			return err
		}
		u.PremiumExpiresAt = &t
	}
	return nil
}

func (f *fakeUserStore) IncrementLevel(ctx context.Context, userID, delta int) error {
	u, ok := f.users[userID]
	if !ok {
		return apperr.NotFound("user %d not found", userID)
	}
	u.Level += delta
	return nil
}

type fakeCustomFeedStore struct {
	feeds  map[int]*models.CustomFeed
	nextID int
}

func newFakeCustomFeedStore() *fakeCustomFeedStore {
	return &fakeCustomFeedStore{feeds: map[int]*models.CustomFeed{}}
}

func (f *fakeCustomFeedStore) Create(ctx context.Context, cf *models.CustomFeed) (int, error) {
	f.nextID++
	cf.ID = f.nextID
	f.feeds[cf.ID] = cf
	return cf.ID, nil
}

func (f *fakeCustomFeedStore) ListByUser(ctx context.Context, userID int) ([]*models.CustomFeed, error) {
	var out []*models.CustomFeed
	for _, cf := range f.feeds {
		if cf.UserID == userID {
			out = append(out, cf)
		}
	}
	return out, nil
}

func (f *fakeCustomFeedStore) GetByID(ctx context.Context, id int) (*models.CustomFeed, error) {
	cf, ok := f.feeds[id]
	if !ok {
		return nil, apperr.NotFound("custom feed %d not found", id)
	}
	return cf, nil
}

type fakeInviteStore struct {
	invites map[string]*models.Invite
}

func newFakeInviteStore() *fakeInviteStore {
	return &fakeInviteStore{invites: map[string]*models.Invite{}}
}

func (f *fakeInviteStore) Create(ctx context.Context, inviterUserID int, code string) (*models.Invite, error) {
	inv := &models.Invite{InviterUserID: inviterUserID, Code: code}
	f.invites[code] = inv
	return inv, nil
}

func (f *fakeInviteStore) GetByCode(ctx context.Context, code string) (*models.Invite, error) {
	inv, ok := f.invites[code]
	if !ok {
		return nil, apperr.Validation("invite code %q not found", code)
	}
	return inv, nil
}

func (f *fakeInviteStore) Accept(ctx context.Context, code string, invitedUserID int) (*models.Invite, error) {
	inv, ok := f.invites[code]
	if !ok {
		return nil, apperr.Validation("invite code %q not found", code)
	}
	if inv.AcceptedAt != nil {
		return nil, apperr.Validation("invite code %q already accepted", code)
	}
	now := time.Now()
	inv.InvitedUserID = &invitedUserID
	inv.AcceptedAt = &now
	return inv, nil
}

type fakeAdminActionStore struct {
	records []models.AdminAction
}

func (f *fakeAdminActionStore) Record(ctx context.Context, actorID int, actionType models.AdminActionType, targetID *int64, details *string) error {
	f.records = append(f.records, models.AdminAction{ActorID: actorID, ActionType: actionType, TargetID: targetID, Details: details})
	return nil
}

type fakeNewsStore struct {
	items map[int64]*models.NewsItem
}

func (f *fakeNewsStore) GetByID(ctx context.Context, id int64) (*models.NewsItem, error) {
	n, ok := f.items[id]
	if !ok {
		return nil, apperr.NotFound("news %d not found", id)
	}
	return n, nil
}

func (f *fakeNewsStore) SetModerationStatus(ctx context.Context, id int64, status models.ModerationStatus) error {
	n, ok := f.items[id]
	if !ok {
		return apperr.NotFound("news %d not found", id)
	}
	n.ModerationStatus = status
	return nil
}

type fakeSourceStore struct {
	byName map[string]*models.Source
	nextID int
}

func newFakeSourceStore() *fakeSourceStore {
	return &fakeSourceStore{byName: map[string]*models.Source{}}
}

func (f *fakeSourceStore) Add(ctx context.Context, src *models.Source) (int, error) {
	if _, exists := f.byName[src.Name]; exists {
		return 0, apperr.Conflict("source %q already exists", src.Name)
	}
	f.nextID++
	src.ID = f.nextID
	f.byName[src.Name] = src
	return src.ID, nil
}

func (f *fakeSourceStore) SetStatus(ctx context.Context, id int, status models.SourceStatus) error {
	for _, s := range f.byName {
		if s.ID == id {
			s.Status = status
			return nil
		}
	}
	return apperr.NotFound("source %d not found", id)
}

// minimal no-op fakes for interfaces not exercised by a given test.

type fakeFilterStore struct{ f *models.Filter }

func (f *fakeFilterStore) Upsert(ctx context.Context, flt *models.Filter) error { f.f = flt; return nil }
func (f *fakeFilterStore) Get(ctx context.Context, userID int) (*models.Filter, error) {
	return f.f, nil
}
func (f *fakeFilterStore) Reset(ctx context.Context, userID int) error { f.f = nil; return nil }

type fakeBlockStore struct{ added []models.Block }

func (f *fakeBlockStore) Add(ctx context.Context, userID int, blockType models.BlockType, value string) error {
	f.added = append(f.added, models.Block{UserID: userID, BlockType: blockType, Value: value})
	return nil
}

type fakeSubscriptionStore struct{ active bool }

func (f *fakeSubscriptionStore) Upsert(ctx context.Context, userID int, frequency models.Frequency) error {
	f.active = true
	return nil
}
func (f *fakeSubscriptionStore) Deactivate(ctx context.Context, userID int) error {
	f.active = false
	return nil
}

type fakeDiscoveryStore struct{}

func (fakeDiscoveryStore) Search(ctx context.Context, query string, limit, offset int) ([]*models.NewsItem, error) {
	return nil, nil
}
func (fakeDiscoveryStore) Trending(ctx context.Context, windowSeconds int, ratingWeight float64, limit int) ([]*models.NewsItem, error) {
	return nil, nil
}
func (fakeDiscoveryStore) Recommend(ctx context.Context, userID int, windowSeconds int, ratingWeight float64, limit int) ([]*models.NewsItem, error) {
	return nil, nil
}

type fakeResolver struct{ items []*models.NewsItem }

func (f *fakeResolver) Resolve(ctx context.Context, user *models.User, limit, offset int) ([]*models.NewsItem, error) {
	return f.items, nil
}

type fakeIngestion struct {
	nextID int64
	last   *models.NewsRequest
}

func (f *fakeIngestion) Submit(ctx context.Context, req *models.NewsRequest, defaultTTL time.Duration, autoApprove map[string]bool) (int64, error) {
	f.last = req
	f.nextID++
	return f.nextID, nil
}

type fakeInteractions struct {
	rated map[int64]int
}

func newFakeInteractions() *fakeInteractions { return &fakeInteractions{rated: map[int64]int{}} }

func (f *fakeInteractions) Record(ctx context.Context, userID int, newsID int64, action models.Action) error {
	return nil
}
func (f *fakeInteractions) Bookmark(ctx context.Context, userID int, newsID int64) error { return nil }
func (f *fakeInteractions) Rate(ctx context.Context, userID int, newsID int64, value int) error {
	if value < 1 || value > 5 {
		return apperr.Validation("rating must be between 1 and 5, got %d", value)
	}
	f.rated[newsID] = value
	return nil
}
func (f *fakeInteractions) React(ctx context.Context, userID int, newsID int64, kind models.ReactionKind) error {
	return nil
}
func (f *fakeInteractions) AddComment(ctx context.Context, newsID int64, userID int, parentID *int64, content string) (int64, error) {
	return 1, nil
}
func (f *fakeInteractions) Report(ctx context.Context, userID int, newsID *int64, reason string) (int64, error) {
	return 1, nil
}
func (f *fakeInteractions) Stats(ctx context.Context, userID int) (*models.UserStats, error) {
	return &models.UserStats{UserID: userID}, nil
}
func (f *fakeInteractions) ListApprovedComments(ctx context.Context, newsID int64) ([]*models.Comment, error) {
	return nil, nil
}
func (f *fakeInteractions) ListBookmarks(ctx context.Context, userID int) ([]*models.Bookmark, error) {
	return nil, nil
}
func (f *fakeInteractions) IncrementSourcesAdded(ctx context.Context, userID int) error { return nil }
func (f *fakeInteractions) SetCommentModeration(ctx context.Context, commentID int64, status models.ModerationStatus) error {
	return nil
}

type fakeEnrichment struct{}

func (fakeEnrichment) Summarize(ctx context.Context, item *models.NewsItem) (string, error) {
	return "", nil
}
func (fakeEnrichment) DetectFake(ctx context.Context, item *models.NewsItem) (bool, error) {
	return false, nil
}
func (fakeEnrichment) RewriteHeadline(ctx context.Context, item *models.NewsItem) (string, error) {
	return "", nil
}
func (fakeEnrichment) Translate(ctx context.Context, item *models.NewsItem, targetLang string) (string, error) {
	return "", nil
}

type fakeAdminAuth struct {
	validToken string
	actorID    int
}

func (f *fakeAdminAuth) Login(ctx context.Context, email, password string) (string, *models.AdminUser, error) {
	if email == "admin@example.com" && password == "correct" {
		return f.validToken, &models.AdminUser{ID: f.actorID, Email: email}, nil
	}
	return "", nil, apperr.Forbidden("invalid credentials")
}

func (f *fakeAdminAuth) ValidateToken(tokenString string) (int, error) {
	if tokenString == f.validToken {
		return f.actorID, nil
	}
	return 0, apperr.Forbidden("invalid token")
}

// --- test harness ---

func newTestDeps() *Deps {
	return &Deps{
		Cfg:           config.Load(),
		Users:         newFakeUserStore(),
		News:          &fakeNewsStore{items: map[int64]*models.NewsItem{}},
		Filters:       &fakeFilterStore{},
		CustomFeeds:   newFakeCustomFeedStore(),
		Blocks:        &fakeBlockStore{},
		Subscriptions: &fakeSubscriptionStore{},
		Sources:       newFakeSourceStore(),
		Invites:       newFakeInviteStore(),
		AdminActions:  &fakeAdminActionStore{},
		Discovery:     fakeDiscoveryStore{},
		Resolver:      &fakeResolver{},
		Ingestion:     &fakeIngestion{},
		Interactions:  newFakeInteractions(),
		Enrichment:    fakeEnrichment{},
		AdminAuth:     &fakeAdminAuth{validToken: "test-token", actorID: 99},
	}
}

func doJSON(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestRegisterUserUpsertsAndGrantsPremiumDuration(t *testing.T) {
	deps := newTestDeps()
	router := NewRouter(deps)

	rec := doJSON(t, router, http.MethodPost, "/users/register", map[string]any{
		"user_id":    "chat-1",
		"language":   "uk",
		"is_premium": true,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var user models.User
	if err := json.NewDecoder(rec.Body).Decode(&user); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !user.IsPremium || user.PremiumExpiresAt == nil {
		t.Fatalf("expected premium grant with expiry, got %+v", user)
	}
	if got := user.PremiumExpiresAt.Sub(time.Now().UTC()); got < 29*24*time.Hour {
		t.Fatalf("expected ~30 day premium expiry, got %v", got)
	}
}

func TestRegisterUserRequiresUserID(t *testing.T) {
	deps := newTestDeps()
	router := NewRouter(deps)
	rec := doJSON(t, router, http.MethodPost, "/users/register", map[string]any{"language": "uk"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing user_id, got %d", rec.Code)
	}
}

func TestSwitchCustomFeedForbiddenWhenNotOwned(t *testing.T) {
	deps := newTestDeps()
	users := deps.Users.(*fakeUserStore)
	owner, _ := users.GetOrCreate(context.Background(), "owner", "en", "US")
	intruder, _ := users.GetOrCreate(context.Background(), "intruder", "en", "US")

	feeds := deps.CustomFeeds.(*fakeCustomFeedStore)
	feedID, _ := feeds.Create(context.Background(), &models.CustomFeed{UserID: owner.ID, FeedName: "tech"})

	router := NewRouter(deps)
	rec := doJSON(t, router, http.MethodPost, "/custom_feeds/switch", map[string]any{
		"user_id": intruder.ID,
		"feed_id": feedID,
	})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 switching to another user's feed, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestSwitchCustomFeedSucceedsForOwner(t *testing.T) {
	deps := newTestDeps()
	users := deps.Users.(*fakeUserStore)
	owner, _ := users.GetOrCreate(context.Background(), "owner", "en", "US")
	feeds := deps.CustomFeeds.(*fakeCustomFeedStore)
	feedID, _ := feeds.Create(context.Background(), &models.CustomFeed{UserID: owner.ID, FeedName: "tech"})

	router := NewRouter(deps)
	rec := doJSON(t, router, http.MethodPost, "/custom_feeds/switch", map[string]any{
		"user_id": owner.ID,
		"feed_id": feedID,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	updated, _ := users.GetByID(context.Background(), owner.ID)
	if updated.CurrentFeedID == nil || *updated.CurrentFeedID != feedID {
		t.Fatalf("expected current_feed_id to be set to %d, got %+v", feedID, updated.CurrentFeedID)
	}
}

func TestAcceptInviteRejectsSelfReferral(t *testing.T) {
	deps := newTestDeps()
	users := deps.Users.(*fakeUserStore)
	u, _ := users.GetOrCreate(context.Background(), "solo", "en", "US")

	invites := deps.Invites.(*fakeInviteStore)
	invites.Create(context.Background(), u.ID, "CODE1")

	router := NewRouter(deps)
	rec := doJSON(t, router, http.MethodPost, "/invite/accept", map[string]any{
		"invite_code":     "CODE1",
		"invited_user_id": u.ID,
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for self-referral, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestAcceptInviteGrantsPremiumAndLevelOnce(t *testing.T) {
	deps := newTestDeps()
	users := deps.Users.(*fakeUserStore)
	inviter, _ := users.GetOrCreate(context.Background(), "inviter", "en", "US")
	invited, _ := users.GetOrCreate(context.Background(), "invited", "en", "US")

	invites := deps.Invites.(*fakeInviteStore)
	invites.Create(context.Background(), inviter.ID, "CODE2")

	router := NewRouter(deps)
	rec := doJSON(t, router, http.MethodPost, "/invite/accept", map[string]any{
		"invite_code":     "CODE2",
		"invited_user_id": invited.ID,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	updatedInviter, _ := users.GetByID(context.Background(), inviter.ID)
	if updatedInviter.Level != deps.Cfg.InviteBonusInviterLevel {
		t.Fatalf("expected inviter level bump to %d, got %d", deps.Cfg.InviteBonusInviterLevel, updatedInviter.Level)
	}
	updatedInvited, _ := users.GetByID(context.Background(), invited.ID)
	if !updatedInvited.IsPremium || updatedInvited.InviterID == nil || *updatedInvited.InviterID != inviter.ID {
		t.Fatalf("expected invited user premium + inviter_id set, got %+v", updatedInvited)
	}

	// Second accept of the same code must fail (already accepted).
	rec2 := doJSON(t, router, http.MethodPost, "/invite/accept", map[string]any{
		"invite_code":     "CODE2",
		"invited_user_id": invited.ID,
	})
	if rec2.Code == http.StatusOK {
		t.Fatalf("expected re-accepting a consumed invite code to fail")
	}
}

func TestRateOutOfRangeReturns400(t *testing.T) {
	deps := newTestDeps()
	router := NewRouter(deps)
	rec := doJSON(t, router, http.MethodPost, "/rate", map[string]any{
		"user_id": 1, "news_id": 1, "value": 0,
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for out-of-range rating, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRateWithinRangeReturns200(t *testing.T) {
	deps := newTestDeps()
	router := NewRouter(deps)
	rec := doJSON(t, router, http.MethodPost, "/rate", map[string]any{
		"user_id": 1, "news_id": 1, "value": 5,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestSubscriptionUpdateRejectsInvalidFrequency(t *testing.T) {
	deps := newTestDeps()
	router := NewRouter(deps)
	rec := doJSON(t, router, http.MethodPost, "/subscriptions/update", map[string]any{
		"user_id": 1, "frequency": "weekly",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid frequency, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestAdminModerateRequiresBearerToken(t *testing.T) {
	deps := newTestDeps()
	router := NewRouter(deps)

	req := httptest.NewRequest(http.MethodPost, "/admin/moderate", bytes.NewBufferString(`{"action_type":"approve_news","target_id":1}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 without admin token, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestAdminModerateApprovesNewsAndAudits(t *testing.T) {
	deps := newTestDeps()
	news := deps.News.(*fakeNewsStore)
	news.items[42] = &models.NewsItem{ID: 42, ModerationStatus: models.ModerationPending}

	router := NewRouter(deps)
	req := httptest.NewRequest(http.MethodPost, "/admin/moderate", bytes.NewBufferString(`{"action_type":"approve_news","target_id":42}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer test-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if news.items[42].ModerationStatus != models.ModerationApproved {
		t.Fatalf("expected news item to be approved, got %q", news.items[42].ModerationStatus)
	}
	audit := deps.AdminActions.(*fakeAdminActionStore)
	if len(audit.records) != 1 || audit.records[0].ActionType != models.AdminActionApproveNews {
		t.Fatalf("expected one audit record for approve_news, got %+v", audit.records)
	}
}

func TestAddSourceReturnsConflictOnDuplicateName(t *testing.T) {
	deps := newTestDeps()
	router := NewRouter(deps)

	first := doJSON(t, router, http.MethodPost, "/sources/add", map[string]any{
		"user_id": 1, "name": "BBC", "link": "https://bbc.com", "type": "website",
	})
	if first.Code != http.StatusOK {
		t.Fatalf("expected first add to succeed, got %d: %s", first.Code, first.Body.String())
	}
	second := doJSON(t, router, http.MethodPost, "/sources/add", map[string]any{
		"user_id": 1, "name": "BBC", "link": "https://bbc.com/2", "type": "website",
	})
	if second.Code != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate source name, got %d: %s", second.Code, second.Body.String())
	}
}

func TestGetNewsReturns404ForUnknownUser(t *testing.T) {
	deps := newTestDeps()
	router := NewRouter(deps)
	rec := httptest.NewRequest(http.MethodGet, "/news/999", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, rec)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown user, got %d: %s", w.Code, w.Body.String())
	}
}

func TestAddNewsDefaultsMediaTypeAndSourceType(t *testing.T) {
	deps := newTestDeps()
	r := NewRouter(deps)

	rec := doJSON(t, r, http.MethodPost, "/news/add", map[string]any{
		"title":   "headline",
		"content": "body",
		"source":  "bbc",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp newsIDResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.NewsID == 0 {
		t.Fatalf("expected a non-zero news id")
	}
	submitted := deps.Ingestion.(*fakeIngestion).last
	if submitted.MediaType != models.MediaTypeNone {
		t.Fatalf("expected media type to default to %q, got %q", models.MediaTypeNone, submitted.MediaType)
	}
	if submitted.SourceType != models.SourceTypeManual {
		t.Fatalf("expected source type to default to %q, got %q", models.SourceTypeManual, submitted.SourceType)
	}
}

func TestUpdateFiltersRequiresUserID(t *testing.T) {
	deps := newTestDeps()
	r := NewRouter(deps)

	rec := doJSON(t, r, http.MethodPost, "/filters/update", map[string]any{"tag": "tech"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing user_id, got %d", rec.Code)
	}
}

func TestFiltersUpdateGetResetRoundTrip(t *testing.T) {
	deps := newTestDeps()
	r := NewRouter(deps)

	rec := doJSON(t, r, http.MethodPost, "/filters/update", map[string]any{"user_id": 1, "tag": "tech"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from update, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, r, http.MethodGet, "/filters/1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from get, got %d", rec.Code)
	}
	var f models.Filter
	if err := json.NewDecoder(rec.Body).Decode(&f); err != nil {
		t.Fatalf("decode filter: %v", err)
	}
	if f.Tag == nil || *f.Tag != "tech" {
		t.Fatalf("expected the previously-stored tag filter to round-trip, got %#v", f.Tag)
	}

	rec = doJSON(t, r, http.MethodDelete, "/filters/reset/1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from reset, got %d", rec.Code)
	}
}

func TestGetNewsReturnsResolvedItems(t *testing.T) {
	deps := newTestDeps()
	users := deps.Users.(*fakeUserStore)
	u, _ := users.GetOrCreate(context.Background(), "u1", "en", "US")
	deps.Resolver = &fakeResolver{items: []*models.NewsItem{{ID: 1, Title: "hello"}}}

	router := NewRouter(deps)
	path := "/news/" + strconv.Itoa(u.ID)
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var items []*models.NewsItem
	if err := json.NewDecoder(rec.Body).Decode(&items); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(items) != 1 || items[0].Title != "hello" {
		t.Fatalf("unexpected resolved items: %+v", items)
	}
}

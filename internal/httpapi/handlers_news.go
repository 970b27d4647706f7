package httpapi

import (
	"net/http"
	"time"

	"github.com/korolhresti/newsdigest/internal/models"
)

func (h *handler) addNews(w http.ResponseWriter, r *http.Request) {
	var req addNewsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	publishedAt := time.Now().UTC()
	if req.PublishedAt != nil {
		publishedAt = *req.PublishedAt
	}

	var ttl *time.Duration
	if req.TTLSeconds != nil && *req.TTLSeconds > 0 {
		d := time.Duration(*req.TTLSeconds) * time.Second
		ttl = &d
	}

	mediaType := models.MediaType(req.MediaType)
	if mediaType == "" {
		mediaType = models.MediaTypeNone
	}
	sourceType := models.SourceType(req.SourceType)
	if sourceType == "" {
		sourceType = models.SourceTypeManual
	}

	newsID, err := h.d.Ingestion.Submit(r.Context(), &models.NewsRequest{
		Title:       req.Title,
		Content:     req.Content,
		Lang:        req.Lang,
		Country:     req.Country,
		Tags:        req.Tags,
		Source:      req.Source,
		Link:        req.Link,
		FileID:      req.FileID,
		MediaType:   mediaType,
		PublishedAt: publishedAt,
		SourceType:  sourceType,
		TTL:         ttl,
	}, h.d.Cfg.DefaultNewsTTL, h.d.Cfg.AutoApproveSourceTypes)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newsIDResponse{NewsID: newsID})
}

// getNews resolves a user's personalized feed, honoring filters,
// blocks, safe mode and the seen-set.
func (h *handler) getNews(w http.ResponseWriter, r *http.Request) {
	userID, err := intParam(r, "userID")
	if err != nil {
		writeError(w, err)
		return
	}
	user, err := h.d.Users.GetByID(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	limit := queryInt(r, "limit", 20)
	offset := queryInt(r, "offset", 0)

	items, err := h.d.Resolver.Resolve(r.Context(), user, limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *handler) searchNews(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	if query == "" {
		writeError(w, apperrValidation("query is required"))
		return
	}
	limit := queryInt(r, "limit", 20)
	offset := queryInt(r, "offset", 0)

	items, err := h.d.Discovery.Search(r.Context(), query, limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

package httpapi

import (
	"net/http"

	"github.com/korolhresti/newsdigest/internal/models"
)

// summary backs POST /summary: either a persisted news_id (resolved
// through News, so identical requests hit the enrichment cache) or a
// bare text snippet wrapped in a throwaway NewsItem.
func (h *handler) summary(w http.ResponseWriter, r *http.Request) {
	var req summaryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	item, err := h.resolveSummarizable(r, req)
	if err != nil {
		writeError(w, err)
		return
	}

	text, err := h.d.Enrichment.Summarize(r.Context(), item)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summaryResponse{Summary: text})
}

func (h *handler) resolveSummarizable(r *http.Request, req summaryRequest) (*models.NewsItem, error) {
	if req.NewsID != nil {
		return h.d.News.GetByID(r.Context(), *req.NewsID)
	}
	if req.Text == nil || *req.Text == "" {
		return nil, apperrValidation("news_id or text is required")
	}
	return &models.NewsItem{Content: *req.Text}, nil
}

// verify backs GET /verify/{news_id}: runs detect_fake against the
// persisted item. Provider.DetectFake reports only a boolean verdict,
// so confidence is derived from it rather than measured directly —
// recorded as an open decision, not a real probability.
func (h *handler) verify(w http.ResponseWriter, r *http.Request) {
	newsID, err := int64Param(r, "newsID")
	if err != nil {
		writeError(w, err)
		return
	}
	item, err := h.d.News.GetByID(r.Context(), newsID)
	if err != nil {
		writeError(w, err)
		return
	}
	isFake, err := h.d.Enrichment.DetectFake(r.Context(), item)
	if err != nil {
		writeError(w, err)
		return
	}
	confidence := 0.3
	if isFake {
		confidence = 0.7
	}
	writeJSON(w, http.StatusOK, verifyResponse{IsFake: isFake, Confidence: confidence, Source: item.Source})
}

func (h *handler) rewriteHeadline(w http.ResponseWriter, r *http.Request) {
	var req rewriteHeadlineRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Text == "" {
		writeError(w, apperrValidation("text is required"))
		return
	}
	rewritten, err := h.d.Enrichment.RewriteHeadline(r.Context(), &models.NewsItem{Title: req.Text})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rewriteHeadlineResponse{Text: rewritten})
}

func (h *handler) translate(w http.ResponseWriter, r *http.Request) {
	var req translateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Text == "" || req.TargetLanguage == "" {
		writeError(w, apperrValidation("text and target_language are required"))
		return
	}
	translated, err := h.d.Enrichment.Translate(r.Context(), &models.NewsItem{Content: req.Text, Lang: req.SourceLanguage}, req.TargetLanguage)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, translateResponse{Text: translated})
}

package httpapi

import (
	"net/http"

	"github.com/korolhresti/newsdigest/internal/models"
)

func (h *handler) updateFilters(w http.ResponseWriter, r *http.Request) {
	var req updateFiltersRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.UserID == 0 {
		writeError(w, apperrValidation("user_id is required"))
		return
	}
	f := &models.Filter{
		UserID:      req.UserID,
		Tag:         req.Tag,
		Category:    req.Category,
		Source:      req.Source,
		Language:    req.Language,
		Country:     req.Country,
		ContentType: req.ContentType,
	}
	if err := h.d.Filters.Upsert(r.Context(), f); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, f)
}

func (h *handler) getFilters(w http.ResponseWriter, r *http.Request) {
	userID, err := intParam(r, "userID")
	if err != nil {
		writeError(w, err)
		return
	}
	f, err := h.d.Filters.Get(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	if f == nil {
		writeJSON(w, http.StatusOK, map[string]any{})
		return
	}
	writeJSON(w, http.StatusOK, f)
}

func (h *handler) resetFilters(w http.ResponseWriter, r *http.Request) {
	userID, err := intParam(r, "userID")
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.d.Filters.Reset(r.Context(), userID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nil)
}

package httpapi

import (
	"net/http"

	"github.com/korolhresti/newsdigest/internal/models"
)

// addSource backs POST /sources/add. A duplicate name
// surfaces as 409 via SourceStore.Add; on success the contributing
// user's sources_added_count is bumped for badge eligibility.
func (h *handler) addSource(w http.ResponseWriter, r *http.Request) {
	var req addSourceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Name == "" || req.Link == "" {
		writeError(w, apperrValidation("name and link are required"))
		return
	}

	src := &models.Source{
		Name:          req.Name,
		Link:          req.Link,
		Type:          models.SourceType(req.Type),
		AddedByUserID: req.UserID,
	}
	if src.Type == "" {
		src.Type = models.SourceTypeWebsite
	}

	id, err := h.d.Sources.Add(r.Context(), src)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.d.Interactions.IncrementSourcesAdded(r.Context(), req.UserID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sourceIDResponse{SourceID: id})
}

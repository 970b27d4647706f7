package httpapi

import (
	"net/http"

	"github.com/korolhresti/newsdigest/internal/apperr"
	"github.com/korolhresti/newsdigest/internal/models"
)

func (h *handler) createCustomFeed(w http.ResponseWriter, r *http.Request) {
	var req createCustomFeedRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.UserID == 0 || req.FeedName == "" {
		writeError(w, apperrValidation("user_id and feed_name are required"))
		return
	}

	filters := make(models.FeedFilters, len(req.Filters))
	for k, v := range req.Filters {
		filters[models.FilterKind(k)] = v
	}

	id, err := h.d.CustomFeeds.Create(r.Context(), &models.CustomFeed{
		UserID:   req.UserID,
		FeedName: req.FeedName,
		Filters:  filters,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, feedIDResponse{FeedID: id})
}

func (h *handler) listCustomFeeds(w http.ResponseWriter, r *http.Request) {
	userID, err := intParam(r, "userID")
	if err != nil {
		writeError(w, err)
		return
	}
	feeds, err := h.d.CustomFeeds.ListByUser(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, feeds)
}

// switchCustomFeed points a user's current_feed_id at one of their own
// feeds; 403 if the feed belongs to someone else.
func (h *handler) switchCustomFeed(w http.ResponseWriter, r *http.Request) {
	var req switchCustomFeedRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	feed, err := h.d.CustomFeeds.GetByID(r.Context(), req.FeedID)
	if err != nil {
		writeError(w, err)
		return
	}
	if feed.UserID != req.UserID {
		writeError(w, apperr.Forbidden("custom feed %d is not owned by user %d", req.FeedID, req.UserID))
		return
	}

	user, err := h.d.Users.GetByID(r.Context(), req.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	user.CurrentFeedID = &req.FeedID
	if err := h.d.Users.UpdateProfile(r.Context(), user); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

package httpapi

import (
	"net/http"

	"github.com/korolhresti/newsdigest/internal/models"
)

func (h *handler) addBookmark(w http.ResponseWriter, r *http.Request) {
	var req bookmarkRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := h.d.Interactions.Bookmark(r.Context(), req.UserID, req.NewsID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nil)
}

func (h *handler) listBookmarks(w http.ResponseWriter, r *http.Request) {
	userID, err := intParam(r, "userID")
	if err != nil {
		writeError(w, err)
		return
	}
	bookmarks, err := h.d.Interactions.ListBookmarks(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bookmarks)
}

func (h *handler) addComment(w http.ResponseWriter, r *http.Request) {
	var req addCommentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Content == "" {
		writeError(w, apperrValidation("content is required"))
		return
	}
	id, err := h.d.Interactions.AddComment(r.Context(), req.NewsID, req.UserID, req.ParentCommentID, req.Content)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, commentIDResponse{CommentID: id})
}

func (h *handler) listComments(w http.ResponseWriter, r *http.Request) {
	newsID, err := int64Param(r, "newsID")
	if err != nil {
		writeError(w, err)
		return
	}
	comments, err := h.d.Interactions.ListApprovedComments(r.Context(), newsID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, comments)
}

func (h *handler) rate(w http.ResponseWriter, r *http.Request) {
	var req rateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := h.d.Interactions.Rate(r.Context(), req.UserID, req.NewsID, req.Value); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nil)
}

func (h *handler) block(w http.ResponseWriter, r *http.Request) {
	var req blockRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	bt := models.BlockType(req.BlockType)
	switch bt {
	case models.BlockTypeTag, models.BlockTypeSource, models.BlockTypeLanguage, models.BlockTypeCategory:
	default:
		writeError(w, apperrValidation("invalid block_type %q", req.BlockType))
		return
	}
	if err := h.d.Blocks.Add(r.Context(), req.UserID, bt, req.Value); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nil)
}

func (h *handler) report(w http.ResponseWriter, r *http.Request) {
	var req reportRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Reason == "" {
		writeError(w, apperrValidation("reason is required"))
		return
	}
	id, err := h.d.Interactions.Report(r.Context(), req.UserID, req.NewsID, req.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reportIDResponse{ReportID: id})
}

// logUserActivity records a generic interaction: view,
// read_full, skip, like, dislike or save. Likes/dislikes go through
// React so a repeated toggle doesn't double-count; save goes through
// Bookmark; view, read_full and skip go through Record.
func (h *handler) logUserActivity(w http.ResponseWriter, r *http.Request) {
	var req logActivityRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	switch models.Action(req.Action) {
	case models.ActionLike:
		if err := h.d.Interactions.React(r.Context(), req.UserID, req.NewsID, models.ReactionLike); err != nil {
			writeError(w, err)
			return
		}
	case models.ActionDislike:
		if err := h.d.Interactions.React(r.Context(), req.UserID, req.NewsID, models.ReactionDislike); err != nil {
			writeError(w, err)
			return
		}
	case models.ActionSave:
		if err := h.d.Interactions.Bookmark(r.Context(), req.UserID, req.NewsID); err != nil {
			writeError(w, err)
			return
		}
	case models.ActionView, models.ActionReadFull, models.ActionSkip:
		if err := h.d.Interactions.Record(r.Context(), req.UserID, req.NewsID, models.Action(req.Action)); err != nil {
			writeError(w, err)
			return
		}
	default:
		writeError(w, apperrValidation("invalid action %q", req.Action))
		return
	}
	writeJSON(w, http.StatusOK, nil)
}

func (h *handler) analytics(w http.ResponseWriter, r *http.Request) {
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
	stats, err := h.d.Interactions.Stats(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		*models.UserStats
		Level  int                `json:"level"`
		Badges models.StringArray `json:"badges"`
	}{UserStats: stats, Level: user.Level, Badges: user.Badges})
}

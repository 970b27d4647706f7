package httpapi

import (
	"net/http"

	"github.com/korolhresti/newsdigest/internal/adminauth"
	"github.com/korolhresti/newsdigest/internal/models"
)

func (h *handler) adminLogin(w http.ResponseWriter, r *http.Request) {
	var req adminLoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	token, _, err := h.d.AdminAuth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, apperrForbidden("invalid admin credentials"))
		return
	}
	writeJSON(w, http.StatusOK, adminLoginResponse{Token: token})
}

// moderate backs POST /admin/moderate, gated by requireAdmin. Every
// transition is both applied and audited via AdminActions.Record,
// using the actor id requireAdmin placed on the request context
// rather than trusting the request body's admin_user_id.
func (h *handler) moderate(w http.ResponseWriter, r *http.Request) {
	var req moderateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	actorID, ok := adminauth.ActorIDFromContext(r.Context())
	if !ok {
		writeError(w, apperrForbidden("missing admin actor"))
		return
	}

	actionType := models.AdminActionType(req.ActionType)
	ctx := r.Context()

	switch actionType {
	case models.AdminActionApproveNews:
		if req.TargetID == nil {
			writeError(w, apperrValidation("target_id is required"))
			return
		}
		if err := h.d.News.SetModerationStatus(ctx, *req.TargetID, models.ModerationApproved); err != nil {
			writeError(w, err)
			return
		}
	case models.AdminActionRejectNews:
		if req.TargetID == nil {
			writeError(w, apperrValidation("target_id is required"))
			return
		}
		if err := h.d.News.SetModerationStatus(ctx, *req.TargetID, models.ModerationRejected); err != nil {
			writeError(w, err)
			return
		}
	case models.AdminActionApproveComment:
		if req.TargetID == nil {
			writeError(w, apperrValidation("target_id is required"))
			return
		}
		if err := h.d.Interactions.SetCommentModeration(ctx, *req.TargetID, models.ModerationApproved); err != nil {
			writeError(w, err)
			return
		}
	case models.AdminActionRejectComment:
		if req.TargetID == nil {
			writeError(w, apperrValidation("target_id is required"))
			return
		}
		if err := h.d.Interactions.SetCommentModeration(ctx, *req.TargetID, models.ModerationRejected); err != nil {
			writeError(w, err)
			return
		}
	case models.AdminActionBlockSource:
		if req.TargetID == nil {
			writeError(w, apperrValidation("target_id is required"))
			return
		}
		if err := h.d.Sources.SetStatus(ctx, int(*req.TargetID), models.SourceStatusBlocked); err != nil {
			writeError(w, err)
			return
		}
	case models.AdminActionUnblockSource:
		if req.TargetID == nil {
			writeError(w, apperrValidation("target_id is required"))
			return
		}
		if err := h.d.Sources.SetStatus(ctx, int(*req.TargetID), models.SourceStatusActive); err != nil {
			writeError(w, err)
			return
		}
	default:
		writeError(w, apperrValidation("invalid action_type %q", req.ActionType))
		return
	}

	if err := h.d.AdminActions.Record(ctx, actorID, actionType, req.TargetID, req.Details); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nil)
}

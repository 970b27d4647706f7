package httpapi

import (
	"net/http"

	"github.com/google/uuid"
)

// generateInvite backs POST /invite/generate: mints an opaque code
// bound to the inviter. Collisions are astronomically unlikely with a
// uuid but Invites.Create still maps a unique-constraint hit to
// apperr.Conflict the same way CustomFeedStore.Create does.
func (h *handler) generateInvite(w http.ResponseWriter, r *http.Request) {
	var req generateInviteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	code := uuid.NewString()
	invite, err := h.d.Invites.Create(r.Context(), req.InviterUserID, code)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, inviteCodeResponse{InviteCode: invite.Code})
}

// acceptInvite backs POST /invite/accept. Self-referral is rejected
// before the code is consumed; the reward (premium days for the
// invited user, a level bump for the inviter) is granted only once,
// guarded by Invites.Accept's own accepted_at IS NULL condition.
func (h *handler) acceptInvite(w http.ResponseWriter, r *http.Request) {
	var req acceptInviteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	ctx := r.Context()
	existing, err := h.d.Invites.GetByCode(ctx, req.InviteCode)
	if err != nil {
		writeError(w, err)
		return
	}
	if existing.InviterUserID == req.InvitedUserID {
		writeError(w, apperrValidation("cannot accept your own invite"))
		return
	}

	invite, err := h.d.Invites.Accept(ctx, req.InviteCode, req.InvitedUserID)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.d.Users.IncrementLevel(ctx, invite.InviterUserID, h.d.Cfg.InviteBonusInviterLevel); err != nil {
		writeError(w, err)
		return
	}

	invited, err := h.d.Users.GetByID(ctx, req.InvitedUserID)
	if err != nil {
		writeError(w, err)
		return
	}
	if invited.InviterID == nil {
		invited.InviterID = &invite.InviterUserID
		if err := h.d.Users.UpdateProfile(ctx, invited); err != nil {
			writeError(w, err)
			return
		}
	}

	expiresAt := nowPlusDays(h.d.Cfg.InviteBonusPremiumDays)
	if err := h.d.Users.SetPremium(ctx, req.InvitedUserID, true, &expiresAt); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, nil)
}

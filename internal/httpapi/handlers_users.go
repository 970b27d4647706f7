package httpapi

import (
	"net/http"
	"time"

	"github.com/korolhresti/newsdigest/internal/models"
)

// registerUser upserts a user and applies the optional profile fields
// in the request, including the is_premium=true -> +30 days grant.
func (h *handler) registerUser(w http.ResponseWriter, r *http.Request) {
	var req registerUserRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.UserID == "" {
		writeError(w, apperrValidation("user_id is required"))
		return
	}

	language := req.Language
	if language == "" {
		language = "en"
	}
	country := req.Country
	if country == "" {
		country = "US"
	}

	user, err := h.d.Users.GetOrCreate(r.Context(), req.UserID, language, country)
	if err != nil {
		writeError(w, err)
		return
	}

	user.Language = language
	user.Country = country
	if req.SafeMode != nil {
		user.SafeMode = *req.SafeMode
	}
	if req.AutoNotifications != nil {
		user.AutoNotifications = *req.AutoNotifications
	}
	if req.Email != nil {
		user.Email = req.Email
	}
	if req.ViewMode != "" {
		user.ViewMode = models.ViewMode(req.ViewMode)
	}
	if err := h.d.Users.UpdateProfile(r.Context(), user); err != nil {
		writeError(w, err)
		return
	}

	if req.IsPremium != nil && *req.IsPremium {
		expires := time.Now().UTC().Add(h.d.Cfg.PremiumDefaultDuration).Format(time.RFC3339)
		if err := h.d.Users.SetPremium(r.Context(), user.ID, true, &expires); err != nil {
			writeError(w, err)
			return
		}
	}

	user, err = h.d.Users.GetByID(r.Context(), user.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *handler) getProfile(w http.ResponseWriter, r *http.Request) {
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
	writeJSON(w, http.StatusOK, user)
}

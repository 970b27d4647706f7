package httpapi

import (
	"net/http"

	"github.com/korolhresti/newsdigest/internal/models"
)

func (h *handler) updateSubscription(w http.ResponseWriter, r *http.Request) {
	var req updateSubscriptionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	freq := models.Frequency(req.Frequency)
	if freq != models.FrequencyHourly && freq != models.FrequencyDaily {
		writeError(w, apperrValidation("frequency must be hourly or daily, got %q", req.Frequency))
		return
	}
	if err := h.d.Subscriptions.Upsert(r.Context(), req.UserID, freq); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nil)
}

func (h *handler) unsubscribe(w http.ResponseWriter, r *http.Request) {
	userID := queryInt(r, "user_id", 0)
	if userID == 0 {
		writeError(w, apperrValidation("user_id is required"))
		return
	}
	if err := h.d.Subscriptions.Deactivate(r.Context(), userID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nil)
}

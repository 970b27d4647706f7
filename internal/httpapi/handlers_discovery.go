package httpapi

import "net/http"

func (h *handler) recommend(w http.ResponseWriter, r *http.Request) {
	userID, err := intParam(r, "userID")
	if err != nil {
		writeError(w, err)
		return
	}
	items, err := h.d.Discovery.Recommend(r.Context(), userID,
		int(h.d.Cfg.TrendingWindow.Seconds()), h.d.Cfg.TrendingRatingWeight, h.d.Cfg.RecommendLimit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *handler) trending(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", h.d.Cfg.TrendingLimit)
	items, err := h.d.Discovery.Trending(r.Context(), int(h.d.Cfg.TrendingWindow.Seconds()), h.d.Cfg.TrendingRatingWeight, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

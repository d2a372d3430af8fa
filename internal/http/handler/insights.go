package handler

import (
	"encoding/json"
	"net/http"

	"manam/internal/auth"
	"manam/internal/insight"
)

type InsightHandler struct {
	Svc *insight.Service
}

func (h *InsightHandler) Patterns(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	patterns, err := h.Svc.CachedPatterns(r.Context(), uid)
	if err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(patterns)
}

func (h *InsightHandler) Summary(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	summary, err := h.Svc.CachedSummary(r.Context(), uid)
	if err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"summary": summary})
}

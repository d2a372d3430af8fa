package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"manam/internal/auth"
	"manam/internal/mood"
)

type MoodHandler struct {
	Svc *mood.Service
}

type entryDTO struct {
	ID        uint64    `json:"id"`
	Mood      mood.Mood `json:"mood"`
	Notes     string    `json:"notes"`
	Timestamp time.Time `json:"timestamp"`
}

func toEntryDTO(e mood.Entry) entryDTO {
	return entryDTO{ID: e.ID, Mood: e.Mood, Notes: e.Notes, Timestamp: e.Timestamp}
}

type createEntryReq struct {
	Mood  *string `json:"mood"` // omit to infer from notes
	Notes string  `json:"notes"`
}

func (h *MoodHandler) Create(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	var req createEntryReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	req.Notes = strings.TrimSpace(req.Notes)

	in := mood.CreateInput{Notes: req.Notes}
	if req.Mood != nil && strings.TrimSpace(*req.Mood) != "" {
		m, ok := mood.ParseMood(*req.Mood)
		if !ok {
			http.Error(w, "unknown mood", http.StatusBadRequest)
			return
		}
		in.Mood = &m
	} else if req.Notes == "" {
		http.Error(w, "mood or notes required", http.StatusBadRequest)
		return
	}

	e, err := h.Svc.Create(r.Context(), uid, in)
	if err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(toEntryDTO(e))
}

func (h *MoodHandler) List(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	entries, err := h.Svc.List(r.Context(), uid)
	if err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	out := make([]entryDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, toEntryDTO(e))
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(out)
}

func (h *MoodHandler) Delete(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	id64, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	switch err := h.Svc.Delete(r.Context(), uid, id64); err {
	case nil:
		w.WriteHeader(http.StatusNoContent)
	case mood.ErrNotFound:
		http.Error(w, "not found", http.StatusNotFound)
	default:
		http.Error(w, "server error", http.StatusInternalServerError)
	}
}

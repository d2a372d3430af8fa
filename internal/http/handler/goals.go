package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"manam/internal/auth"
	"manam/internal/goal"
)

type GoalHandler struct {
	Svc *goal.Service
}

type goalDTO struct {
	ID           uint64 `json:"id"`
	Text         string `json:"text"`
	Completed    bool   `json:"completed"`
	TargetCount  int    `json:"target_count"`
	CurrentCount int    `json:"current_count"`
}

func toGoalDTO(g goal.Goal) goalDTO {
	return goalDTO{
		ID:           g.ID,
		Text:         g.Text,
		Completed:    g.Completed,
		TargetCount:  g.TargetCount,
		CurrentCount: g.CurrentCount,
	}
}

type createGoalReq struct {
	Text        string `json:"text"`
	TargetCount int    `json:"target_count"`
}

func (h *GoalHandler) Create(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	var req createGoalReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	req.Text = strings.TrimSpace(req.Text)

	g, err := h.Svc.Create(r.Context(), uid, req.Text, req.TargetCount)
	if err == goal.ErrInvalidInput {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}
	if err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(toGoalDTO(g))
}

func (h *GoalHandler) List(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	goals, err := h.Svc.List(r.Context(), uid)
	if err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	out := make([]goalDTO, 0, len(goals))
	for _, g := range goals {
		out = append(out, toGoalDTO(g))
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(out)
}

type incrementReq struct {
	Delta *int `json:"delta"` // default 1
}

func (h *GoalHandler) Increment(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	id64, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	delta := 1
	var req incrementReq
	if err := json.NewDecoder(r.Body).Decode(&req); err == nil && req.Delta != nil {
		delta = *req.Delta
	}

	g, err := h.Svc.Increment(r.Context(), uid, id64, delta)
	if err == goal.ErrNotFound {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(toGoalDTO(g))
}

func (h *GoalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	id64, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	switch err := h.Svc.Delete(r.Context(), uid, id64); err {
	case nil:
		w.WriteHeader(http.StatusNoContent)
	case goal.ErrNotFound:
		http.Error(w, "not found", http.StatusNotFound)
	default:
		http.Error(w, "server error", http.StatusInternalServerError)
	}
}

package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"manam/internal/auth"
	"manam/internal/mood"
)

// AggregateHandler serves the derived views: streak, distribution,
// timeline, and the live SSE stream that recomputes them on every
// snapshot change.
type AggregateHandler struct {
	Svc       *mood.Service
	Broadcast *mood.Broadcaster
}

func (h *AggregateHandler) Streak(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	entries, err := h.Svc.List(r.Context(), uid)
	if err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"streak": mood.Streak(entries, time.Now()),
	})
}

func (h *AggregateHandler) Distribution(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	window, ok := mood.ParseWindow(r.URL.Query().Get("range"))
	if !ok {
		http.Error(w, "invalid range", http.StatusBadRequest)
		return
	}

	entries, err := h.Svc.List(r.Context(), uid)
	if err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(mood.Distribution(entries, window, time.Now()))
}

func (h *AggregateHandler) Timeline(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	window, ok := mood.ParseWindow(r.URL.Query().Get("range"))
	if !ok || window == mood.WindowAll {
		http.Error(w, "invalid range", http.StatusBadRequest)
		return
	}

	entries, err := h.Svc.List(r.Context(), uid)
	if err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(mood.Timeline(entries, window.Days(), time.Now()))
}

type aggregateEvent struct {
	Streak       int                `json:"streak"`
	Distribution []mood.MoodCount   `json:"distribution"`
	Timeline     []mood.TimelineDay `json:"timeline"`
}

func buildAggregateEvent(entries []mood.Entry, window mood.Window, now time.Time) aggregateEvent {
	return aggregateEvent{
		Streak:       mood.Streak(entries, now),
		Distribution: mood.Distribution(entries, window, now),
		Timeline:     mood.Timeline(entries, window.Days(), now),
	}
}

// Stream pushes freshly computed aggregates over SSE on every snapshot
// change. Each delivery is a full recompute; there is no delta model.
func (h *AggregateHandler) Stream(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	window, ok := mood.ParseWindow(r.URL.Query().Get("range"))
	if !ok || window == mood.WindowAll {
		http.Error(w, "invalid range", http.StatusBadRequest)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	snapshots, unsubscribe := h.Broadcast.Subscribe(uid)
	defer unsubscribe()

	send := func(entries []mood.Entry) {
		b, err := json.Marshal(buildAggregateEvent(entries, window, time.Now()))
		if err != nil {
			return
		}
		fmt.Fprintf(w, "event: aggregates\ndata: %s\n\n", b)
		flusher.Flush()
	}

	// Initial state, then one event per store change.
	if entries, err := h.Svc.List(r.Context(), uid); err == nil {
		send(entries)
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case entries, ok := <-snapshots:
			if !ok {
				return
			}
			send(entries)
		}
	}
}

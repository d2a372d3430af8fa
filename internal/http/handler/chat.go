package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"manam/internal/auth"
	"manam/internal/insight"
)

type ChatHandler struct {
	Mgr *insight.ChatManager
}

type sessionDTO struct {
	ID         uuid.UUID      `json:"id"`
	Transcript []insight.Turn `json:"transcript"`
}

func (h *ChatHandler) Open(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	s := h.Mgr.Open(uid)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(sessionDTO{ID: s.ID, Transcript: s.Transcript()})
}

func (h *ChatHandler) Get(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	s, err := h.session(r, uid)
	if err != nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(sessionDTO{ID: s.ID, Transcript: s.Transcript()})
}

type sendMessageReq struct {
	Text string `json:"text"`
}

// Send runs one chat turn and streams the assistant reply as SSE delta
// events, finishing with a done event carrying the full text. While a
// turn is streaming, further turns on the session are rejected with 409.
func (h *ChatHandler) Send(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	s, err := h.session(r, uid)
	if err != nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	var req sendMessageReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	req.Text = strings.TrimSpace(req.Text)
	if req.Text == "" {
		http.Error(w, "text required", http.StatusBadRequest)
		return
	}

	if s.Busy() {
		http.Error(w, "turn in flight", http.StatusConflict)
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

	onDelta := func(delta string) {
		b, _ := json.Marshal(map[string]string{"delta": delta})
		fmt.Fprintf(w, "event: delta\ndata: %s\n\n", b)
		flusher.Flush()
	}

	reply, err := h.Mgr.Send(r.Context(), s, req.Text, onDelta)
	if err == insight.ErrBusy {
		// Lost the race after the pre-check; nothing has been written
		// yet, so a plain error response is still possible.
		http.Error(w, "turn in flight", http.StatusConflict)
		return
	}

	b, _ := json.Marshal(map[string]string{"text": reply})
	fmt.Fprintf(w, "event: done\ndata: %s\n\n", b)
	flusher.Flush()
}

func (h *ChatHandler) session(r *http.Request, uid uint64) (*insight.Session, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return nil, err
	}
	return h.Mgr.Get(uid, id)
}

package insight

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	ErrSessionNotFound = errors.New("chat session not found")
	// ErrBusy rejects a turn submitted while the previous reply is still
	// streaming. Turns are strictly serialized per session.
	ErrBusy = errors.New("chat turn in flight")
)

const (
	chatGreeting   = "Hi there! I'm MANAM AI, your personal wellness companion. How are you feeling today? 😊"
	chatErrorReply = "I'm having a little trouble connecting right now. Please try again in a moment."

	sessionIdleTimeout = 30 * time.Minute
)

// Session is one ordered, turn-based exchange. The transcript always
// starts with the assistant greeting.
type Session struct {
	ID     uuid.UUID `json:"id"`
	UserID uint64    `json:"-"`

	mu         sync.Mutex
	busy       bool
	transcript []Turn
	lastActive time.Time
}

// Busy reports whether a turn is currently streaming. Callers use it to
// reject a new turn before committing to a streaming response; Send
// still re-checks under the lock.
func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

// Transcript returns a copy of the visible messages.
func (s *Session) Transcript() []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Turn, len(s.transcript))
	copy(out, s.transcript)
	return out
}

// ChatManager owns in-memory sessions. Sessions are ephemeral: closing
// the surface and idling out both just drop the transcript.
type ChatManager struct {
	Model Model

	mu       sync.Mutex
	sessions map[uuid.UUID]*Session
}

func NewChatManager(model Model) *ChatManager {
	return &ChatManager{Model: model, sessions: map[uuid.UUID]*Session{}}
}

// Open creates a session seeded with the greeting.
func (m *ChatManager) Open(userID uint64) *Session {
	s := &Session{
		ID:         uuid.New(),
		UserID:     userID,
		transcript: []Turn{{Role: "assistant", Text: chatGreeting}},
		lastActive: time.Now(),
	}

	m.mu.Lock()
	m.sweepLocked()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	return s
}

// Get returns the session if it exists and belongs to userID.
func (m *ChatManager) Get(userID uint64, id uuid.UUID) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok || s.UserID != userID {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Send runs one turn: append the user message, stream the reply through
// onDelta, append the final assistant text. A transport failure becomes
// the fixed apologetic reply instead of an error; the only real error is
// ErrBusy when a prior turn is still streaming.
func (m *ChatManager) Send(ctx context.Context, s *Session, text string, onDelta func(string)) (string, error) {
	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return "", ErrBusy
	}
	s.busy = true
	s.transcript = append(s.transcript, Turn{Role: "user", Text: text})
	turns := make([]Turn, len(s.transcript))
	copy(turns, s.transcript)
	s.mu.Unlock()

	reply, err := m.Model.Stream(ctx, chatSystemPrompt, turns, onDelta)
	if err != nil {
		log.Printf("chat stream: %v\n", err)
		reply = chatErrorReply
	}

	s.mu.Lock()
	s.transcript = append(s.transcript, Turn{Role: "assistant", Text: reply})
	s.lastActive = time.Now()
	s.busy = false
	s.mu.Unlock()

	return reply, nil
}

// sweepLocked drops idle sessions. Caller holds m.mu.
func (m *ChatManager) sweepLocked() {
	for id, s := range m.sessions {
		s.mu.Lock()
		idle := !s.busy && time.Since(s.lastActive) > sessionIdleTimeout
		s.mu.Unlock()
		if idle {
			delete(m.sessions, id)
		}
	}
}

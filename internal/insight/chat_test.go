package insight

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChat_OpenSeedsGreeting(t *testing.T) {
	mgr := NewChatManager(&stubModel{})

	s := mgr.Open(1)

	transcript := s.Transcript()
	require.Len(t, transcript, 1)
	assert.Equal(t, "assistant", transcript[0].Role)
	assert.Equal(t, chatGreeting, transcript[0].Text)
}

func TestChat_GetChecksOwnership(t *testing.T) {
	mgr := NewChatManager(&stubModel{})
	s := mgr.Open(1)

	_, err := mgr.Get(2, s.ID)
	require.ErrorIs(t, err, ErrSessionNotFound)

	got, err := mgr.Get(1, s.ID)
	require.NoError(t, err)
	require.Same(t, s, got)
}

func TestChat_SendStreamsAndAppends(t *testing.T) {
	m := &stubModel{streamDeltas: []string{"Hel", "lo ", "there!"}}
	mgr := NewChatManager(m)
	s := mgr.Open(1)

	var streamed strings.Builder
	reply, err := mgr.Send(context.Background(), s, "hi", func(d string) { streamed.WriteString(d) })
	require.NoError(t, err)
	require.Equal(t, "Hello there!", reply)
	require.Equal(t, "Hello there!", streamed.String())

	transcript := s.Transcript()
	require.Len(t, transcript, 3)
	assert.Equal(t, Turn{Role: "user", Text: "hi"}, transcript[1])
	assert.Equal(t, Turn{Role: "assistant", Text: "Hello there!"}, transcript[2])
}

func TestChat_TransportFailureBecomesApology(t *testing.T) {
	mgr := NewChatManager(&stubModel{streamErr: errors.New("connection reset")})
	s := mgr.Open(1)

	reply, err := mgr.Send(context.Background(), s, "hi", nil)
	require.NoError(t, err, "failures surface as a transcript entry, not an error")
	require.Equal(t, chatErrorReply, reply)

	transcript := s.Transcript()
	require.Equal(t, chatErrorReply, transcript[len(transcript)-1].Text)
}

func TestChat_RejectsConcurrentTurn(t *testing.T) {
	m := &stubModel{
		streamDeltas: []string{"ok"},
		started:      make(chan struct{}),
		release:      make(chan struct{}),
	}
	started := m.started
	mgr := NewChatManager(m)
	s := mgr.Open(1)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = mgr.Send(context.Background(), s, "first", nil)
	}()

	<-started
	require.True(t, s.Busy())
	_, err := mgr.Send(context.Background(), s, "second", nil)
	require.ErrorIs(t, err, ErrBusy)

	close(m.release)
	wg.Wait()
	require.False(t, s.Busy())

	// The session accepts turns again once the stream finished.
	_, err = mgr.Send(context.Background(), s, "third", nil)
	require.NoError(t, err)
}

func TestChat_BusyReflectsInFlightTurn(t *testing.T) {
	mgr := NewChatManager(&stubModel{streamDeltas: []string{"ok"}})
	s := mgr.Open(1)

	require.False(t, s.Busy())
	_, err := mgr.Send(context.Background(), s, "hi", nil)
	require.NoError(t, err)
	require.False(t, s.Busy())
}

package insight

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/openai/openai-go/option"
	"github.com/stretchr/testify/require"
)

// sseServer answers the Responses API streaming endpoint with the given
// text deltas.
func sseServer(t *testing.T, deltas []string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		require.True(t, ok)

		w.Header().Set("Content-Type", "text/event-stream")
		for _, d := range deltas {
			fmt.Fprintf(w, "event: response.output_text.delta\ndata: {\"type\":\"response.output_text.delta\",\"delta\":%q}\n\n", d)
			flusher.Flush()
		}
		fmt.Fprint(w, "event: response.completed\ndata: {\"type\":\"response.completed\"}\n\n")
		flusher.Flush()
	}))
}

func TestClientStream_AccumulatesTextDeltas(t *testing.T) {
	srv := sseServer(t, []string{"Hel", "lo ", "there!"})
	defer srv.Close()

	c := NewClient("test-key", "test-model", option.WithBaseURL(srv.URL))

	var streamed strings.Builder
	turns := []Turn{{Role: "user", Text: "hi"}}
	got, err := c.Stream(context.Background(), "be nice", turns, func(d string) {
		streamed.WriteString(d)
	})
	require.NoError(t, err)
	require.Equal(t, "Hello there!", got)
	require.Equal(t, "Hello there!", streamed.String())
}

func TestClientStream_IgnoresNonTextEvents(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "event: response.created\ndata: {\"type\":\"response.created\"}\n\n")
		fmt.Fprint(w, "event: response.output_text.delta\ndata: {\"type\":\"response.output_text.delta\",\"delta\":\"ok\"}\n\n")
		fmt.Fprint(w, "event: response.completed\ndata: {\"type\":\"response.completed\"}\n\n")
	}))
	defer srv.Close()

	c := NewClient("test-key", "test-model", option.WithBaseURL(srv.URL))

	got, err := c.Stream(context.Background(), "", []Turn{{Role: "user", Text: "hi"}}, nil)
	require.NoError(t, err)
	require.Equal(t, "ok", got)
}

package insight

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"manam/internal/mood"
)

// stubModel is a canned Model so boundary behavior is testable without
// the network.
type stubModel struct {
	completeOut string
	completeErr error
	jsonOut     string
	jsonErr     error

	streamDeltas []string
	streamErr    error
	started      chan struct{}
	release      chan struct{}

	calls int
}

func (s *stubModel) Complete(ctx context.Context, instructions, input string) (string, error) {
	s.calls++
	return s.completeOut, s.completeErr
}

func (s *stubModel) CompleteJSON(ctx context.Context, schemaName string, schema map[string]any, instructions, input string) (string, error) {
	s.calls++
	return s.jsonOut, s.jsonErr
}

func (s *stubModel) Stream(ctx context.Context, instructions string, turns []Turn, onDelta func(string)) (string, error) {
	s.calls++
	if s.started != nil {
		close(s.started)
		s.started = nil
	}
	if s.release != nil {
		<-s.release
	}
	var full string
	for _, d := range s.streamDeltas {
		full += d
		if onDelta != nil {
			onDelta(d)
		}
	}
	if s.streamErr != nil {
		return "", s.streamErr
	}
	return full, nil
}

func fiveEntries() []mood.Entry {
	out := make([]mood.Entry, 5)
	for i := range out {
		out[i] = mood.Entry{
			Mood:      mood.MoodHappy,
			Notes:     "walked outside",
			Timestamp: time.Date(2024, 3, 5+i, 9, 0, 0, 0, time.UTC),
		}
	}
	return out
}

func TestClassifyMood_ValidReply(t *testing.T) {
	s := &Service{Model: &stubModel{completeOut: "sad"}}
	require.Equal(t, mood.MoodSad, s.ClassifyMood(context.Background(), "rough day"))
}

func TestClassifyMood_UnrecognizedReplyFallsBack(t *testing.T) {
	s := &Service{Model: &stubModel{completeOut: "melancholy"}}
	require.Equal(t, mood.DefaultMood, s.ClassifyMood(context.Background(), "rough day"))
}

func TestClassifyMood_ErrorFallsBack(t *testing.T) {
	s := &Service{Model: &stubModel{completeErr: errors.New("boom")}}
	require.Equal(t, mood.DefaultMood, s.ClassifyMood(context.Background(), "rough day"))
}

func TestIdentifyPatterns_TooFewEntriesSkipsModel(t *testing.T) {
	m := &stubModel{}
	s := &Service{Model: m}

	got := s.IdentifyPatterns(context.Background(), fiveEntries()[:3])

	require.Equal(t, notEnoughDataPatterns, got)
	require.Zero(t, m.calls, "must not invoke the model below the threshold")
}

func TestIdentifyPatterns_ParsesStructuredOutput(t *testing.T) {
	m := &stubModel{jsonOut: `{"patterns":[{"pattern":"Mornings run low","suggestion":"Try a short walk before work."}]}`}
	s := &Service{Model: m}

	got := s.IdentifyPatterns(context.Background(), fiveEntries())

	require.Len(t, got, 1)
	assert.Equal(t, "Mornings run low", got[0].Pattern)
	assert.Equal(t, "Try a short walk before work.", got[0].Suggestion)
}

func TestIdentifyPatterns_ErrorFallsBack(t *testing.T) {
	s := &Service{Model: &stubModel{jsonErr: errors.New("timeout")}}
	require.Equal(t, couldNotAnalyzePatterns, s.IdentifyPatterns(context.Background(), fiveEntries()))
}

func TestIdentifyPatterns_MalformedJSONFallsBack(t *testing.T) {
	s := &Service{Model: &stubModel{jsonOut: `{"patterns": [`}}
	require.Equal(t, couldNotAnalyzePatterns, s.IdentifyPatterns(context.Background(), fiveEntries()))
}

func TestWeeklySummary_EmptySkipsModel(t *testing.T) {
	m := &stubModel{}
	s := &Service{Model: m}

	require.Equal(t, emptyWeekSummary, s.WeeklySummary(context.Background(), nil))
	require.Zero(t, m.calls)
}

func TestWeeklySummary_ReturnsModelText(t *testing.T) {
	s := &Service{Model: &stubModel{completeOut: "This week, I noticed you felt upbeat!"}}
	require.Equal(t, "This week, I noticed you felt upbeat!", s.WeeklySummary(context.Background(), fiveEntries()))
}

func TestWeeklySummary_ErrorFallsBack(t *testing.T) {
	s := &Service{Model: &stubModel{completeErr: errors.New("boom")}}
	require.Equal(t, summaryUnavailable, s.WeeklySummary(context.Background(), fiveEntries()))
}

func TestCompute_ModelFailureIsDegraded(t *testing.T) {
	s := &Service{Model: &stubModel{jsonErr: errors.New("down"), completeErr: errors.New("down")}}

	c := s.compute(context.Background(), fiveEntries(), time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC))

	require.True(t, c.degraded, "connectivity fallbacks must not be cached")
	assert.Equal(t, couldNotAnalyzePatterns, c.patterns)
	assert.Equal(t, summaryUnavailable, c.summary)
}

func TestCompute_SparseDataIsNotDegraded(t *testing.T) {
	m := &stubModel{}
	s := &Service{Model: m}

	// Below the pattern threshold and with nothing in the past week:
	// both fixed strings are genuine results, not failures.
	c := s.compute(context.Background(), fiveEntries()[:3], time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))

	require.False(t, c.degraded)
	assert.Equal(t, notEnoughDataPatterns, c.patterns)
	assert.Equal(t, emptyWeekSummary, c.summary)
	assert.Zero(t, m.calls)
}

func TestIsFallback(t *testing.T) {
	ok := []Pattern{{Pattern: "Mornings run low", Suggestion: "Walk early."}}

	assert.False(t, isFallback(ok, "a fine week"))
	assert.False(t, isFallback(notEnoughDataPatterns, emptyWeekSummary))
	assert.True(t, isFallback(couldNotAnalyzePatterns, "a fine week"))
	assert.True(t, isFallback(ok, summaryUnavailable))
}

func TestGenerateSchema_StrictObject(t *testing.T) {
	schema := generateSchema[patternList]()

	require.Equal(t, "object", schema["type"])
	require.Equal(t, false, schema["additionalProperties"])
	require.Contains(t, schema["required"], "patterns")

	props, ok := schema["properties"].(map[string]any)
	require.True(t, ok)
	require.Contains(t, props, "patterns")
}

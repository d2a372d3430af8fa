package mood

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseMood(t *testing.T) {
	tests := []struct {
		in     string
		want   Mood
		wantOK bool
	}{
		{"Happy", MoodHappy, true},
		{"happy", MoodHappy, true},
		{"  STRESSED ", MoodStressed, true},
		{"Excited", MoodExcited, true},
		{"", MoodNeutral, false},
		{"melancholy", MoodNeutral, false},
	}
	for _, tt := range tests {
		got, ok := ParseMood(tt.in)
		assert.Equal(t, tt.want, got, tt.in)
		assert.Equal(t, tt.wantOK, ok, tt.in)
	}
}

func TestMoods_CanonicalOrder(t *testing.T) {
	assert.Equal(t, []Mood{
		MoodHappy, MoodCalm, MoodNeutral, MoodAnxious, MoodSad, MoodStressed, MoodExcited,
	}, Moods())
}

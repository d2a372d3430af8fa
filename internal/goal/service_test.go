package goal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyProgress(t *testing.T) {
	tests := []struct {
		name          string
		start         Goal
		delta         int
		wantCount     int
		wantCompleted bool
	}{
		{"advance", Goal{TargetCount: 7, CurrentCount: 3}, 1, 4, false},
		{"reach target", Goal{TargetCount: 7, CurrentCount: 6}, 1, 7, true},
		{"clamped above target", Goal{TargetCount: 7, CurrentCount: 6}, 5, 7, true},
		{"clamped below zero", Goal{TargetCount: 7, CurrentCount: 1}, -3, 0, false},
		{"regress clears completed", Goal{TargetCount: 5, CurrentCount: 5, Completed: true}, -1, 4, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := tt.start
			applyProgress(&g, tt.delta)
			assert.Equal(t, tt.wantCount, g.CurrentCount)
			assert.Equal(t, tt.wantCompleted, g.Completed)
		})
	}
}

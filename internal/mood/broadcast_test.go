package mood

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBroadcaster_DeliversSnapshotsPerUser(t *testing.T) {
	b := NewBroadcaster()

	ch, unsubscribe := b.Subscribe(1)
	defer unsubscribe()

	b.Publish(1, []Entry{{ID: 7, Mood: MoodHappy}})
	b.Publish(2, []Entry{{ID: 9, Mood: MoodSad}}) // other user, not delivered

	got := <-ch
	require.Len(t, got, 1)
	require.Equal(t, uint64(7), got[0].ID)

	select {
	case extra := <-ch:
		t.Fatalf("unexpected delivery: %v", extra)
	default:
	}
}

func TestBroadcaster_UnsubscribeClosesChannel(t *testing.T) {
	b := NewBroadcaster()

	ch, unsubscribe := b.Subscribe(1)
	unsubscribe()

	_, open := <-ch
	require.False(t, open)

	// Publishing after unsubscribe must not panic.
	b.Publish(1, nil)

	// Unsubscribing twice is safe.
	unsubscribe()
}

func TestBroadcaster_SlowObserverSkipsNotBlocks(t *testing.T) {
	b := NewBroadcaster()

	ch, unsubscribe := b.Subscribe(1)
	defer unsubscribe()

	// Buffer is 4; overfill without reading.
	for i := 0; i < 10; i++ {
		b.Publish(1, []Entry{{ID: uint64(i)}})
	}

	delivered := 0
	for {
		select {
		case <-ch:
			delivered++
			continue
		default:
		}
		break
	}
	require.Equal(t, 4, delivered)
}

package mood

import "sync"

// Broadcaster fans full snapshots out to per-user observers. The
// aggregation functions never see it; they take plain snapshots, so the
// dashboard stream stays testable without a live store.
type Broadcaster struct {
	mu     sync.Mutex
	nextID uint64
	subs   map[uint64]map[uint64]chan []Entry
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subs: map[uint64]map[uint64]chan []Entry{}}
}

// Subscribe registers an observer for one user's snapshots and returns
// the delivery channel plus an unsubscribe handle. The channel is never
// closed by Publish; unsubscribing closes it.
func (b *Broadcaster) Subscribe(userID uint64) (<-chan []Entry, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	if b.subs[userID] == nil {
		b.subs[userID] = map[uint64]chan []Entry{}
	}
	ch := make(chan []Entry, 4)
	b.subs[userID][id] = ch

	unsubscribe := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if m, ok := b.subs[userID]; ok {
			if c, ok := m[id]; ok {
				delete(m, id)
				close(c)
			}
			if len(m) == 0 {
				delete(b.subs, userID)
			}
		}
	}
	return ch, unsubscribe
}

// Publish delivers snapshot to every observer of userID. Slow observers
// skip deliveries rather than blocking the writer; each delivery is a
// full snapshot, so a skipped one is superseded by the next.
func (b *Broadcaster) Publish(userID uint64, snapshot []Entry) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.subs[userID] {
		select {
		case ch <- snapshot:
		default:
		}
	}
}

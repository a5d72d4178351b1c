// Package buffer is a bounded FIFO of battery snapshots sitting between the
// poller and the remote writer, absorbing remote-sink outages without
// unbounded memory growth.
package buffer

import (
	"sync"
	"sync/atomic"

	"renogyfleet/internal/snapshot"
)

// Buffer is a bounded, oldest-eviction FIFO. It is safe for concurrent use.
type Buffer struct {
	mu       sync.Mutex
	items    []*snapshot.Snapshot
	capacity int

	overflowLogged atomic.Bool
	onOverflow     func()
}

// New creates a buffer holding at most capacity items.
func New(capacity int, onOverflow func()) *Buffer {
	return &Buffer{capacity: capacity, onOverflow: onOverflow}
}

// Push appends one snapshot, evicting the oldest item if the buffer is
// already at capacity. The overflow callback fires once per overflow
// episode; it re-arms after the buffer is drained back below capacity.
func (b *Buffer) Push(s *snapshot.Snapshot) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.items) >= b.capacity {
		b.items = b.items[1:]
		if !b.overflowLogged.Swap(true) && b.onOverflow != nil {
			b.onOverflow()
		}
	}
	b.items = append(b.items, s)
}

// ExtendFront re-queues items at the head of the buffer, preserving their
// original relative order, dropping from the tail if capacity is exceeded.
// Used by the remote writer to requeue a batch that failed to send.
func (b *Buffer) ExtendFront(items []*snapshot.Snapshot) {
	if len(items) == 0 {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	merged := make([]*snapshot.Snapshot, 0, len(items)+len(b.items))
	merged = append(merged, items...)
	merged = append(merged, b.items...)
	if len(merged) > b.capacity {
		merged = merged[:b.capacity]
	}
	b.items = merged
}

// DrainAll empties the buffer and returns everything it held, resetting the
// overflow latch so the next overflow episode logs again.
func (b *Buffer) DrainAll() []*snapshot.Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()

	drained := b.items
	b.items = nil
	b.overflowLogged.Store(false)
	return drained
}

// IsEmpty reports whether the buffer currently holds no items.
func (b *Buffer) IsEmpty() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.items) == 0
}

// Len reports the current number of buffered items.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.items)
}

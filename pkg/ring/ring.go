// Package ring provides a fixed-capacity buffer that keeps the most recent
// items.
package ring

import "sync"

// Buffer is a thread-safe circular buffer. Once full, each write
// overwrites the oldest item.
type Buffer[T any] struct {
	items []T
	head  int // Next write position
	count int // Number of valid items (up to capacity)
	mu    sync.RWMutex
}

// New creates a buffer with the given capacity. Capacity must be positive.
func New[T any](capacity int) *Buffer[T] {
	if capacity <= 0 {
		panic("ring: capacity must be positive")
	}

	return &Buffer[T]{
		items: make([]T, capacity),
	}
}

// Write appends items, overwriting the oldest when full.
func (b *Buffer[T]) Write(items ...T) {
	if len(items) == 0 {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	capacity := len(b.items)

	for _, item := range items {
		b.items[b.head] = item
		b.head = (b.head + 1) % capacity

		if b.count < capacity {
			b.count++
		}
	}
}

// Last returns up to n most recent items in the order they were written.
// Returns nil when empty or n <= 0.
func (b *Buffer[T]) Last(n int) []T {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.count == 0 || n <= 0 {
		return nil
	}

	n = min(n, b.count)

	result := make([]T, n)
	capacity := len(b.items)

	// head is the next write position, so the last n start at head-n.
	start := (b.head - n + capacity) % capacity

	for i := range n {
		result[i] = b.items[(start+i)%capacity]
	}

	return result
}

// All returns every held item, oldest first.
func (b *Buffer[T]) All() []T {
	return b.Last(b.Cap())
}

// Count returns the number of held items.
func (b *Buffer[T]) Count() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return b.count
}

// Cap returns the capacity.
func (b *Buffer[T]) Cap() int {
	return len(b.items)
}

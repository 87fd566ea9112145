// File: pool/ring.go
// Author: momentics <momentics@gmail.com>
//
// Bounded FIFO ring on top of eapache/queue. Oldest items are evicted first
// once the capacity is reached. Callers provide their own locking.

package pool

import (
	"github.com/eapache/queue"

	"github.com/wsxyanua/tcp-timeserver/api"
)

// Ring is a fixed-capacity FIFO. A capacity of zero disables eviction.
type Ring[T any] struct {
	q   *queue.Queue
	cap int
}

var _ api.Ring[int] = (*Ring[int])(nil)

// NewRing allocates a ring holding at most capacity items.
func NewRing[T any](capacity int) *Ring[T] {
	if capacity < 0 {
		capacity = 0
	}
	return &Ring[T]{q: queue.New(), cap: capacity}
}

// Push appends val at the tail and trims the head back to capacity.
func (r *Ring[T]) Push(val T) {
	r.q.Add(val)
	if r.cap == 0 {
		return
	}
	for r.q.Length() > r.cap {
		r.q.Remove()
	}
}

// Snapshot copies the items out, oldest first.
func (r *Ring[T]) Snapshot() []T {
	n := r.q.Length()
	out := make([]T, n)
	for i := 0; i < n; i++ {
		out[i] = r.q.Get(i).(T)
	}
	return out
}

// Len returns number of items in the ring.
func (r *Ring[T]) Len() int {
	return r.q.Length()
}

// Cap returns logical ring capacity.
func (r *Ring[T]) Cap() int {
	return r.cap
}

// Package api
// Author: momentics@gmail.com
//
// Bounded FIFO ring contract.

package api

// Ring is a fixed-capacity FIFO that evicts its oldest item when full.
// Implementations are not required to be safe for concurrent use.
type Ring[T any] interface {
	// Push appends an item, evicting from the head while over capacity.
	Push(item T)
	// Snapshot returns a copy of the items, oldest first.
	Snapshot() []T
	// Len returns current number of items.
	Len() int
	// Cap returns the capacity; zero means unbounded.
	Cap() int
}

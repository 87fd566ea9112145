// Package pool
// Author: momentics <momentics@gmail.com>
//
// Memory layer for the session server: bounded FIFO rings used by the event
// log and per-session histories, and pooled fixed-size read buffers.
// See ring.go and bytepool.go for implementation details.
package pool

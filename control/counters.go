// control/counters.go
// Author: momentics <momentics@gmail.com>
//
// Running totals for the session server: messages processed, time requests,
// and the instant the counters were last reset.

package control

import (
	"sync"
	"time"
)

// Counters holds the server's running totals behind a single mutex.
type Counters struct {
	mu            sync.RWMutex
	totalMessages int64
	timeRequests  int64
	startTime     time.Time
	now           func() time.Time
}

// CountersSnapshot is a consistent copy of all counters.
type CountersSnapshot struct {
	TotalMessages int64
	TimeRequests  int64
	StartTime     time.Time
}

// NewCounters creates zeroed counters starting now. A nil clock means time.Now.
func NewCounters(now func() time.Time) *Counters {
	if now == nil {
		now = time.Now
	}
	return &Counters{startTime: now(), now: now}
}

// IncMessages counts one received message.
func (c *Counters) IncMessages() {
	c.mu.Lock()
	c.totalMessages++
	c.mu.Unlock()
}

// IncTimeRequests counts one TIME: command.
func (c *Counters) IncTimeRequests() {
	c.mu.Lock()
	c.timeRequests++
	c.mu.Unlock()
}

// Reset zeroes both totals and restarts the clock. It returns the new start time.
func (c *Counters) Reset() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.totalMessages = 0
	c.timeRequests = 0
	c.startTime = c.now()
	return c.startTime
}

// Snapshot returns the latest counters.
func (c *Counters) Snapshot() CountersSnapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return CountersSnapshot{
		TotalMessages: c.totalMessages,
		TimeRequests:  c.timeRequests,
		StartTime:     c.startTime,
	}
}

// Uptime is the time elapsed since the last reset.
func (c *Counters) Uptime() time.Duration {
	start := c.Snapshot().StartTime
	return c.now().Sub(start)
}

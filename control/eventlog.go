// control/eventlog.go
// Author: momentics <momentics@gmail.com>
//
// Bounded operational event log. Entries are kept in a FIFO ring for the
// control surface and mirrored to the process logger.

package control

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/wsxyanua/tcp-timeserver/api"
	"github.com/wsxyanua/tcp-timeserver/pool"
)

// DefaultLogCapacity is the number of entries the event log retains.
const DefaultLogCapacity = 1000

// EventLog is a thread-safe bounded event buffer.
type EventLog struct {
	mu     sync.Mutex
	ring   *pool.Ring[api.LogEntry]
	logger *slog.Logger
	now    func() time.Time
}

// NewEventLog creates a log retaining at most capacity entries. Entries are
// also written to logger when it is non-nil.
func NewEventLog(capacity int, logger *slog.Logger, now func() time.Time) *EventLog {
	if capacity <= 0 {
		capacity = DefaultLogCapacity
	}
	if now == nil {
		now = time.Now
	}
	return &EventLog{
		ring:   pool.NewRing[api.LogEntry](capacity),
		logger: logger,
		now:    now,
	}
}

// Info records an Information event.
func (l *EventLog) Info(msg, clientID, clientName string) {
	l.Add(api.LevelInformation, msg, clientID, clientName)
}

// Warn records a Warning event.
func (l *EventLog) Warn(msg, clientID, clientName string) {
	l.Add(api.LevelWarning, msg, clientID, clientName)
}

// Error records an Error event.
func (l *EventLog) Error(msg, clientID, clientName string) {
	l.Add(api.LevelError, msg, clientID, clientName)
}

// Add stamps and appends a new entry.
func (l *EventLog) Add(level api.LogLevel, msg, clientID, clientName string) {
	l.Append(api.LogEntry{
		Timestamp:  l.now(),
		Level:      level,
		Message:    msg,
		ClientID:   clientID,
		ClientName: clientName,
	})
}

// Append adds entry at the tail, evicting the oldest entries beyond capacity.
func (l *EventLog) Append(entry api.LogEntry) {
	l.mu.Lock()
	l.ring.Push(entry)
	l.mu.Unlock()

	if l.logger == nil {
		return
	}
	attrs := make([]slog.Attr, 0, 2)
	if entry.ClientID != "" {
		attrs = append(attrs, slog.String("client_id", entry.ClientID))
	}
	if entry.ClientName != "" {
		attrs = append(attrs, slog.String("client_name", entry.ClientName))
	}
	l.logger.LogAttrs(context.Background(), slogLevel(entry.Level), entry.Message, attrs...)
}

// Snapshot returns the retained entries, oldest first.
func (l *EventLog) Snapshot() []api.LogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.ring.Snapshot()
}

// Len returns the number of retained entries.
func (l *EventLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.ring.Len()
}

func slogLevel(level api.LogLevel) slog.Level {
	switch level {
	case api.LevelWarning:
		return slog.LevelWarn
	case api.LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

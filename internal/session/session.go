// File: internal/session/session.go
// Package session
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Per-connection session metadata with idempotent teardown.

package session

import (
	"io"
	"sync"
	"time"

	"github.com/wsxyanua/tcp-timeserver/api"
	"github.com/wsxyanua/tcp-timeserver/pool"
)

// Session holds the state of one accepted connection. The owning handler is
// the only writer of the mutable fields; Close may be called from anywhere.
type Session struct {
	id          string
	name        string
	remote      string
	connectedAt time.Time

	mu           sync.Mutex
	status       api.SessionStatus
	lastActivity time.Time
	lastRequest  time.Time
	history      *pool.Ring[string]

	conn      io.Closer
	closeOnce sync.Once
	closeErr  error
}

// New creates a session in the Connecting state. historyLimit bounds the
// retained message history; zero keeps every message.
func New(id, name, remote string, conn io.Closer, historyLimit int, now time.Time) *Session {
	return &Session{
		id:           id,
		name:         name,
		remote:       remote,
		connectedAt:  now,
		status:       api.SessionConnecting,
		lastActivity: now,
		history:      pool.NewRing[string](historyLimit),
		conn:         conn,
	}
}

// ID returns the unique session identifier.
func (s *Session) ID() string {
	return s.id
}

// Name returns the display name.
func (s *Session) Name() string {
	return s.name
}

// RemoteEndpoint returns the peer address as seen at accept time.
func (s *Session) RemoteEndpoint() string {
	return s.remote
}

// Status reports the current lifecycle state.
func (s *Session) Status() api.SessionStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// SetStatus moves the session to st.
func (s *Session) SetStatus(st api.SessionStatus) {
	s.mu.Lock()
	s.status = st
	s.mu.Unlock()
}

// Touch updates the activity timestamp.
func (s *Session) Touch(t time.Time) {
	s.mu.Lock()
	s.lastActivity = t
	s.mu.Unlock()
}

// RecordMessage touches the session and appends text to its history.
func (s *Session) RecordMessage(text string, t time.Time) {
	s.mu.Lock()
	s.lastActivity = t
	s.history.Push(text)
	s.mu.Unlock()
}

// MarkRequest records the time of the latest TIME: command.
func (s *Session) MarkRequest(t time.Time) {
	s.mu.Lock()
	s.lastRequest = t
	s.mu.Unlock()
}

// Close releases the connection once. Later calls return nil.
func (s *Session) Close() error {
	var first bool
	s.closeOnce.Do(func() {
		first = true
		if s.conn != nil {
			s.closeErr = s.conn.Close()
		}
	})
	if !first {
		return nil
	}
	return s.closeErr
}


// Info returns a detached copy of the session for read-only consumers.
func (s *Session) Info() api.ClientInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	info := api.ClientInfo{
		ID:             s.id,
		DisplayName:    s.name,
		RemoteEndpoint: s.remote,
		Status:         s.status,
		ConnectedAt:    s.connectedAt,
		LastActivityAt: s.lastActivity,
		Messages:       s.history.Snapshot(),
	}
	if !s.lastRequest.IsZero() {
		t := s.lastRequest
		info.LastRequestAt = &t
	}
	return info
}

// File: api/types.go
// Author: momentics <momentics@gmail.com>
//
// Shared API-level type declarations, DTOs, and constants.

package api

import (
	"fmt"
	"time"
)

// SessionStatus enumerates the state of a client session.
type SessionStatus int

const (
	SessionUnknown SessionStatus = iota
	SessionConnecting
	SessionActive
	SessionClosing
	SessionClosed
)

func (s SessionStatus) String() string {
	switch s {
	case SessionConnecting:
		return "connecting"
	case SessionActive:
		return "active"
	case SessionClosing:
		return "closing"
	case SessionClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// MarshalText renders the status by name in JSON payloads.
func (s SessionStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses a status name produced by MarshalText.
func (s *SessionStatus) UnmarshalText(b []byte) error {
	for st := SessionUnknown; st <= SessionClosed; st++ {
		if st.String() == string(b) {
			*s = st
			return nil
		}
	}
	return fmt.Errorf("unknown session status %q", b)
}

// LogLevel classifies an operational event.
type LogLevel string

const (
	LevelInformation LogLevel = "Information"
	LevelWarning     LogLevel = "Warning"
	LevelError       LogLevel = "Error"
)

// LogEntry is one immutable operational event.
type LogEntry struct {
	Timestamp  time.Time `json:"timestamp"`
	Level      LogLevel  `json:"level"`
	Message    string    `json:"message"`
	ClientID   string    `json:"clientId,omitempty"`
	ClientName string    `json:"clientName,omitempty"`
}

// ClientInfo is a point-in-time copy of one registered session.
type ClientInfo struct {
	ID             string        `json:"id"`
	DisplayName    string        `json:"displayName"`
	RemoteEndpoint string        `json:"remoteEndpoint"`
	Status         SessionStatus `json:"status"`
	ConnectedAt    time.Time     `json:"connectedAt"`
	LastActivityAt time.Time     `json:"lastActivityAt"`
	LastRequestAt  *time.Time    `json:"lastRequestAt,omitempty"`
	Messages       []string      `json:"messages"`
}

// Status provides a standard layout for server health/statistics reporting.
type Status struct {
	Running           bool          `json:"running"`
	ListenAddr        string        `json:"listenAddr,omitempty"`
	TotalMessages     int64         `json:"totalMessages"`
	TimeRequests      int64         `json:"timeRequests"`
	ActiveConnections int           `json:"activeConnections"`
	StartTime         time.Time     `json:"startTime"`
	Uptime            time.Duration `json:"-"`
	UptimeSeconds     float64       `json:"uptimeSeconds"`
}

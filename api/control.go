// File: api/control.go
// Package api defines Control interface.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package api

import "time"

// Control is the administrative surface of the session server. Monitoring
// and management layers depend only on this contract.
type Control interface {
	Start() error
	Stop()
	DisconnectClient(id string)
	ResetCounters()

	IsRunning() bool
	TotalMessages() int64
	TimeRequests() int64
	ActiveConnections() int
	Uptime() time.Duration
	StartTime() time.Time
	Status() Status
	Clients() map[string]ClientInfo
	Logs() []LogEntry
	Debug() map[string]any
}

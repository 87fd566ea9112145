// File: server/types.go
// Package server defines the server configuration.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package server

import (
	"time"
)

// Config holds all server-side configuration parameters.
type Config struct {
	Host            string        // bind host; empty means all interfaces
	Port            int           // TCP port, e.g. 8888; 0 picks an ephemeral port
	HistoryLimit    int           // per-session message history cap (0 = unbounded)
	RegistryShards  int           // client registry shard count
	ReadTimeout     time.Duration // optional per-read idle deadline
	WriteTimeout    time.Duration // optional per-write deadline
	ShutdownTimeout time.Duration // how long Stop waits for handlers to drain
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Port:            8888,
		HistoryLimit:    1000,
		RegistryShards:  16,
		ReadTimeout:     0,
		WriteTimeout:    10 * time.Second,
		ShutdownTimeout: 5 * time.Second,
	}
}

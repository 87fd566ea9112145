// File: server/options.go
// Package server defines functional options for the Server.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package server

import (
	"log/slog"
	"time"
)

// ServerOption customizes server initialization.
type ServerOption func(*Server)

// WithLogger mirrors operational events to logger instead of slog.Default().
func WithLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the time source used for timestamps and responses.
func WithClock(now func() time.Time) ServerOption {
	return func(s *Server) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator overrides client identifier generation.
func WithIDGenerator(gen func() string) ServerOption {
	return func(s *Server) {
		if gen != nil {
			s.newID = gen
		}
	}
}

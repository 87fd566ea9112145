// File: server/server.go
// Package server provides the concurrent TCP time/echo session server and its
// control surface: start, stop, forced disconnect, counter reset and
// read-only snapshots of the live state.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wsxyanua/tcp-timeserver/api"
	"github.com/wsxyanua/tcp-timeserver/control"
	"github.com/wsxyanua/tcp-timeserver/internal/session"
	"github.com/wsxyanua/tcp-timeserver/pool"
	"github.com/wsxyanua/tcp-timeserver/protocol"
)

// Server owns the listener, the client registry, the counters and the event
// log. All exported methods are safe for concurrent use.
type Server struct {
	cfg    *Config
	logger *slog.Logger
	now    func() time.Time
	newID  func() string

	// lifeMu serializes Start and Stop; stateMu guards the fields below it.
	lifeMu  sync.Mutex
	stateMu sync.RWMutex
	running bool
	current *run

	counters *control.Counters
	registry *session.Registry
	events   *control.EventLog
	probes   api.DebugProber
	buffers  *pool.BytePool
}

// run is the state of one Start..Stop cycle.
type run struct {
	ctx        context.Context
	cancel     context.CancelFunc
	ln         net.Listener
	addr       string
	acceptDone chan struct{}
	handlers   sync.WaitGroup
}

var _ api.Control = (*Server)(nil)

// NewServer constructs a Server with the given Config and options. The
// server does not listen until Start is called.
func NewServer(cfg *Config, opts ...ServerOption) (*Server, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := validate(cfg); err != nil {
		return nil, err
	}

	own := *cfg
	s := &Server{
		cfg:    &own,
		logger: slog.Default(),
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.counters = control.NewCounters(s.now)
	s.registry = session.NewRegistry(cfg.RegistryShards)
	s.events = control.NewEventLog(control.DefaultLogCapacity, s.logger, s.now)
	s.buffers = pool.NewBytePool(protocol.MaxMessageSize)
	s.probes = control.NewDebugProbes()
	s.probes.RegisterProbe("server.running", func() any { return s.IsRunning() })
	s.probes.RegisterProbe("sessions.active", func() any { return s.registry.Len() })
	s.probes.RegisterProbe("eventlog.length", func() any { return s.events.Len() })
	return s, nil
}

func validate(cfg *Config) error {
	switch {
	case cfg.Port < 0 || cfg.Port > 65535:
		return fmt.Errorf("%w: port %d out of range", api.ErrInvalidConfig, cfg.Port)
	case cfg.HistoryLimit < 0:
		return fmt.Errorf("%w: negative history limit", api.ErrInvalidConfig)
	case cfg.ReadTimeout < 0 || cfg.WriteTimeout < 0 || cfg.ShutdownTimeout < 0:
		return fmt.Errorf("%w: negative timeout", api.ErrInvalidConfig)
	}
	return nil
}

// ResetCounters zeroes the message and time-request counters and restarts
// the uptime clock. Connections and registry contents are untouched.
func (s *Server) ResetCounters() {
	s.counters.Reset()
	s.events.Info("Server counters reset", "", "")
}

// IsRunning reports whether the listener is accepting.
func (s *Server) IsRunning() bool {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.running
}

// Addr returns the bound listen address, or "" when stopped.
func (s *Server) Addr() string {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	if s.current == nil {
		return ""
	}
	return s.current.addr
}

// TotalMessages returns the number of messages read since the last reset.
func (s *Server) TotalMessages() int64 {
	return s.counters.Snapshot().TotalMessages
}

// TimeRequests returns the number of TIME: commands since the last reset.
func (s *Server) TimeRequests() int64 {
	return s.counters.Snapshot().TimeRequests
}

// ActiveConnections returns the number of registered sessions.
func (s *Server) ActiveConnections() int {
	return s.registry.Len()
}

// Uptime is the time since the last start or reset.
func (s *Server) Uptime() time.Duration {
	return s.counters.Uptime()
}

// StartTime is the instant of the last start or reset.
func (s *Server) StartTime() time.Time {
	return s.counters.Snapshot().StartTime
}

// Status returns every scalar accessor in one value.
func (s *Server) Status() api.Status {
	snap := s.counters.Snapshot()
	uptime := s.now().Sub(snap.StartTime)
	return api.Status{
		Running:           s.IsRunning(),
		ListenAddr:        s.Addr(),
		TotalMessages:     snap.TotalMessages,
		TimeRequests:      snap.TimeRequests,
		ActiveConnections: s.registry.Len(),
		StartTime:         snap.StartTime,
		Uptime:            uptime,
		UptimeSeconds:     uptime.Seconds(),
	}
}

// Clients returns a point-in-time copy of the registry.
func (s *Server) Clients() map[string]api.ClientInfo {
	return s.registry.Snapshot()
}

// Logs returns the retained events, oldest first.
func (s *Server) Logs() []api.LogEntry {
	return s.events.Snapshot()
}

// Debug returns the output of all registered debug probes.
func (s *Server) Debug() map[string]any {
	return s.probes.DumpState()
}

// File: server/run.go
// Package server implements startup, the connection acceptor and graceful
// shutdown of the session server.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/wsxyanua/tcp-timeserver/api"
	"github.com/wsxyanua/tcp-timeserver/transport/tcp"
)

const (
	minAcceptBackoff = 5 * time.Millisecond
	maxAcceptBackoff = time.Second
)

// Start binds the listener and launches the accept loop. Calling Start on a
// running server logs a warning and returns nil. A bind failure leaves the
// server stopped and is returned as *api.BindError.
func (s *Server) Start() error {
	s.lifeMu.Lock()
	defer s.lifeMu.Unlock()

	if s.IsRunning() {
		s.events.Warn("Server is already running", "", "")
		return nil
	}

	lcfg := tcp.ListenerConfig{Host: s.cfg.Host, Port: s.cfg.Port}
	ctx, cancel := context.WithCancel(context.Background())
	ln, err := tcp.Listen(ctx, lcfg)
	if err != nil {
		cancel()
		s.events.Error(fmt.Sprintf("Failed to start TCP server: %v", err), "", "")
		return &api.BindError{Addr: lcfg.Addr(), Err: err}
	}

	r := &run{
		ctx:        ctx,
		cancel:     cancel,
		ln:         ln,
		addr:       ln.Addr().String(),
		acceptDone: make(chan struct{}),
	}
	s.counters.Reset()

	s.stateMu.Lock()
	s.current = r
	s.running = true
	s.stateMu.Unlock()

	port := tcp.Port(ln)
	s.events.Info(fmt.Sprintf("TCP Server started on port %d", port), "", "")
	s.events.Info("Server is listening on: "+net.JoinHostPort(localIP(), strconv.Itoa(port)), "", "")

	go s.acceptLoop(r)
	return nil
}

// Stop closes every registered connection, clears the registry and closes
// the listener. It is a no-op on a stopped server and waits at most
// ShutdownTimeout for connection handlers to exit.
func (s *Server) Stop() {
	s.lifeMu.Lock()
	defer s.lifeMu.Unlock()

	s.stateMu.Lock()
	r := s.current
	if !s.running || r == nil {
		s.stateMu.Unlock()
		return
	}
	s.running = false
	s.current = nil
	s.stateMu.Unlock()

	r.cancel()
	for _, sess := range s.registry.Drain() {
		sess.SetStatus(api.SessionClosing)
		if err := sess.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			s.events.Error(fmt.Sprintf("Error closing client connection: %v", err), sess.ID(), sess.Name())
		}
	}
	if err := r.ln.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
		s.events.Error(fmt.Sprintf("Error closing listener: %v", err), "", "")
	}
	<-r.acceptDone

	if !waitTimeout(&r.handlers, s.cfg.ShutdownTimeout) {
		s.events.Warn("Timed out waiting for client handlers to exit", "", "")
	}
	s.events.Info("TCP Server stopped", "", "")
}

// DisconnectClient closes the connection of the given client and removes it
// from the registry. Unknown ids are ignored.
func (s *Server) DisconnectClient(id string) {
	sess, ok := s.registry.Remove(id)
	if !ok {
		return
	}
	sess.SetStatus(api.SessionClosing)
	if err := sess.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
		s.events.Error(fmt.Sprintf("Error disconnecting client: %v", err), sess.ID(), sess.Name())
		return
	}
	s.events.Info("Client disconnected", sess.ID(), sess.Name())
}

func (s *Server) acceptLoop(r *run) {
	defer close(r.acceptDone)

	var backoff time.Duration
	for {
		conn, err := r.ln.Accept()
		if err != nil {
			if r.ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return
			}
			s.events.Error(fmt.Sprintf("Error accepting client: %v", err), "", "")
			if backoff == 0 {
				backoff = minAcceptBackoff
			} else if backoff *= 2; backoff > maxAcceptBackoff {
				backoff = maxAcceptBackoff
			}
			select {
			case <-time.After(backoff):
			case <-r.ctx.Done():
				return
			}
			continue
		}
		backoff = 0

		r.handlers.Add(1)
		go func() {
			defer r.handlers.Done()
			s.serveConn(r.ctx, conn)
		}()
	}
}

// waitTimeout waits for wg, giving up after d. A zero d waits forever.
func waitTimeout(wg interface{ Wait() }, d time.Duration) bool {
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	if d <= 0 {
		<-done
		return true
	}
	select {
	case <-done:
		return true
	case <-time.After(d):
		return false
	}
}

// localIP returns the first non-loopback IPv4 address of the host, falling
// back to 127.0.0.1.
func localIP() string {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return "127.0.0.1"
	}
	for _, a := range addrs {
		if ipn, ok := a.(*net.IPNet); ok && !ipn.IP.IsLoopback() {
			if ip4 := ipn.IP.To4(); ip4 != nil {
				return ip4.String()
			}
		}
	}
	return "127.0.0.1"
}

// File: internal/admin/server.go
// Package admin exposes the control surface of the session server as a
// JSON HTTP API for monitoring and management tools.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package admin

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"github.com/wsxyanua/tcp-timeserver/api"
)

// Server serves the admin API for one api.Control.
type Server struct {
	ctrl   api.Control
	logger *slog.Logger
	router *httprouter.Router
	server *http.Server
	ln     net.Listener
}

// NewServer routes the admin API for ctrl on addr. A nil logger means
// slog.Default().
func NewServer(addr string, ctrl api.Control, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		ctrl:   ctrl,
		logger: logger,
		router: httprouter.New(),
	}
	s.setupRoutes()
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Handler returns the routed handler, for embedding or tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Addr returns the bound address once Start has succeeded.
func (s *Server) Addr() string {
	if s.ln == nil {
		return s.server.Addr
	}
	return s.ln.Addr().String()
}

// Start binds the admin listener and serves in the background.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return err
	}
	s.ln = ln
	go func() {
		s.logger.Info("Admin server listening", "addr", ln.Addr().String())
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Admin server error", "error", err)
		}
	}()
	return nil
}

// Stop shuts the admin listener down gracefully.
func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)

	s.router.GET("/api/status", s.handleStatus)
	s.router.GET("/api/clients", s.handleClients)
	s.router.GET("/api/logs", s.handleLogs)
	s.router.GET("/api/debug", s.handleDebug)

	s.router.POST("/api/start", s.handleStart)
	s.router.POST("/api/stop", s.handleStop)
	s.router.POST("/api/reset", s.handleReset)
	s.router.POST("/api/clients/:id/disconnect", s.handleDisconnect)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	s.writeJSON(w, http.StatusOK, s.ctrl.Status())
}

func (s *Server) handleClients(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	s.writeJSON(w, http.StatusOK, s.ctrl.Clients())
}

func (s *Server) handleLogs(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	s.writeJSON(w, http.StatusOK, s.ctrl.Logs())
}

func (s *Server) handleDebug(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	s.writeJSON(w, http.StatusOK, s.ctrl.Debug())
}

func (s *Server) handleStart(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	if err := s.ctrl.Start(); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, http.StatusOK, s.ctrl.Status())
}

func (s *Server) handleStop(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	s.ctrl.Stop()
	s.writeJSON(w, http.StatusOK, s.ctrl.Status())
}

func (s *Server) handleReset(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	s.ctrl.ResetCounters()
	s.writeJSON(w, http.StatusOK, s.ctrl.Status())
}

func (s *Server) handleDisconnect(w http.ResponseWriter, _ *http.Request, ps httprouter.Params) {
	s.ctrl.DisconnectClient(ps.ByName("id"))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Debug("admin response write failed", "error", err)
	}
}

// File: server/session.go
// Package server implements the per-connection session handler.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"

	"github.com/wsxyanua/tcp-timeserver/api"
	"github.com/wsxyanua/tcp-timeserver/internal/session"
	"github.com/wsxyanua/tcp-timeserver/protocol"
	"github.com/wsxyanua/tcp-timeserver/transport"
)

// serveConn runs one connection through Connecting, Active, Closing and
// Closed. It returns once the connection is torn down.
func (s *Server) serveConn(ctx context.Context, conn net.Conn) {
	nc := transport.NewNetConn(conn, s.buffers,
		transport.WithReadTimeout(s.cfg.ReadTimeout),
		transport.WithWriteTimeout(s.cfg.WriteTimeout),
	)
	defer nc.Release()

	id := s.newID()
	sess := session.New(id, displayName(id), nc.RemoteAddr(), nc, s.cfg.HistoryLimit, s.now())
	if !s.registry.Add(sess) {
		s.events.Error("Duplicate client id, closing connection", id, sess.Name())
		_ = sess.Close()
		sess.SetStatus(api.SessionClosed)
		return
	}
	sess.SetStatus(api.SessionActive)
	stop := context.AfterFunc(ctx, func() { _ = sess.Close() })
	defer stop()

	s.events.Info("Client connected: "+sess.RemoteEndpoint(), id, sess.Name())

	s.readLoop(ctx, sess, nc)
	s.closeSession(sess)
}

func (s *Server) readLoop(ctx context.Context, sess *session.Session, nc *transport.NetConn) {
	for {
		raw, err := nc.ReadMessage()
		if err != nil {
			switch {
			case errors.Is(err, io.EOF):
			case ctx.Err() != nil, errors.Is(err, net.ErrClosed):
				s.events.Info("Operation cancelled", sess.ID(), sess.Name())
			default:
				s.events.Error(fmt.Sprintf("Error processing message: %v", err), sess.ID(), sess.Name())
			}
			return
		}

		now := s.now()
		text := protocol.Decode(raw)
		s.registry.AppendMessage(sess.ID(), text, now)
		s.counters.IncMessages()

		cmd := protocol.Parse(text)
		if cmd.Kind == protocol.KindTime {
			s.counters.IncTimeRequests()
			sess.MarkRequest(now)
			s.events.Info("Time request: "+cmd.Selector, sess.ID(), sess.Name())
		} else {
			s.events.Info("Message received: "+text, sess.ID(), sess.Name())
		}

		if err := nc.WriteMessage(cmd.Respond(now)); err != nil {
			if ctx.Err() == nil && !errors.Is(err, net.ErrClosed) {
				s.events.Error(fmt.Sprintf("Error processing message: %v", err), sess.ID(), sess.Name())
			}
			return
		}
	}
}

// closeSession tears sess down. When a disconnect or Stop already removed
// it from the registry, that caller owns the close and its log entry.
func (s *Server) closeSession(sess *session.Session) {
	defer sess.SetStatus(api.SessionClosed)

	if _, owned := s.registry.Remove(sess.ID()); !owned {
		_ = sess.Close()
		return
	}
	sess.SetStatus(api.SessionClosing)
	if err := sess.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
		s.events.Error(fmt.Sprintf("Error closing connection: %v", err), sess.ID(), sess.Name())
	}
	s.events.Info("Client disconnected", sess.ID(), sess.Name())
}

func displayName(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return "Client_" + id
}

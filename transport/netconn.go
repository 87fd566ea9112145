// Author: momentics <momentics@gmail.com>
// SPDX-License-Identifier: MIT

package transport

import (
	"io"
	"net"
	"time"

	"github.com/wsxyanua/tcp-timeserver/pool"
)

// NetConn wraps an accepted connection for the request/response protocol:
// one read per message into a pooled buffer, one write per reply.
type NetConn struct {
	conn         net.Conn
	pool         *pool.BytePool
	buf          []byte
	readTimeout  time.Duration
	writeTimeout time.Duration
}

// Option customizes a NetConn.
type Option func(*NetConn)

// WithReadTimeout bounds each read; zero waits indefinitely.
func WithReadTimeout(d time.Duration) Option {
	return func(n *NetConn) { n.readTimeout = d }
}

// WithWriteTimeout bounds each write; zero waits indefinitely.
func WithWriteTimeout(d time.Duration) Option {
	return func(n *NetConn) { n.writeTimeout = d }
}

// NewNetConn takes a read buffer from bp and wraps conn.
func NewNetConn(conn net.Conn, bp *pool.BytePool, opts ...Option) *NetConn {
	n := &NetConn{
		conn: conn,
		pool: bp,
		buf:  bp.GetBuffer(),
	}
	for _, o := range opts {
		o(n)
	}
	return n
}

// RemoteAddr returns the peer address, or "Unknown".
func (n *NetConn) RemoteAddr() string {
	if a := n.conn.RemoteAddr(); a != nil {
		return a.String()
	}
	return "Unknown"
}

// ReadMessage performs a single read of at most the buffer size. The
// returned slice is valid until the next call. A peer close yields io.EOF.
func (n *NetConn) ReadMessage() ([]byte, error) {
	if n.readTimeout > 0 {
		if err := n.conn.SetReadDeadline(time.Now().Add(n.readTimeout)); err != nil {
			return nil, err
		}
	}
	c, err := n.conn.Read(n.buf)
	if c > 0 {
		return n.buf[:c], nil
	}
	if err == nil {
		err = io.EOF
	}
	return nil, err
}

// WriteMessage writes msg with one write call.
func (n *NetConn) WriteMessage(msg string) error {
	if n.writeTimeout > 0 {
		if err := n.conn.SetWriteDeadline(time.Now().Add(n.writeTimeout)); err != nil {
			return err
		}
	}
	_, err := n.conn.Write([]byte(msg))
	return err
}

// Close closes the connection. It may be called from any goroutine.
func (n *NetConn) Close() error {
	return n.conn.Close()
}

// Release hands the read buffer back to the pool. Only the goroutine that
// calls ReadMessage may call it, after its last read.
func (n *NetConn) Release() {
	if n.buf != nil {
		n.pool.PutBuffer(n.buf)
		n.buf = nil
	}
}

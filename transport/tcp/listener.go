// Copyright (c) 2025
// Author: momentics <momentics@gmail.com>

package tcp

import (
	"context"
	"fmt"
	"net"
	"strconv"
)

// ListenerConfig holds configuration for the TCP listener.
type ListenerConfig struct {
	Host string // empty binds every interface
	Port int    // 0 picks an ephemeral port
}

// Addr returns the host:port the listener binds to.
func (c ListenerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Listen opens the TCP listening socket described by cfg.
func Listen(ctx context.Context, cfg ListenerConfig) (net.Listener, error) {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", cfg.Addr())
	if err != nil {
		return nil, fmt.Errorf("tcp listen failed: %w", err)
	}
	return ln, nil
}

// Port extracts the bound port of ln, or 0 if it is not a TCP listener.
func Port(ln net.Listener) int {
	if a, ok := ln.Addr().(*net.TCPAddr); ok {
		return a.Port
	}
	return 0
}

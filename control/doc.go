// Package control
// Author: momentics <momentics@gmail.com>
//
// Live operational state of the session server.
//
// Provides concurrent-safe state handling primitives including:
//   - Counters for processed messages and time requests, with reset
//   - A bounded FIFO event log mirrored to slog
//   - Debug probe registration and state export
//
// This package is cross-platform and build-tag-partitioned as needed.
package control

// File: api/debug.go
// Package api defines the debug probe contract.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package api

// DebugProber exposes named runtime introspection hooks.
type DebugProber interface {
	// DumpState evaluates every probe and returns the results by name.
	DumpState() map[string]any

	// RegisterProbe adds or replaces a named probe.
	RegisterProbe(name string, fn func() any)
}

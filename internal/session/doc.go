// Package session
// Author: momentics <momentics@gmail.com>
//
// Client registry and per-connection session state.
// Each Session maps to one accepted TCP connection and is owned by the
// handler serving it. The Registry is sharded so that handlers touching
// different clients do not contend; whole-registry operations lock every
// shard in a fixed order.

package session

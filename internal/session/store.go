// File: internal/session/store.go
// Package session
// Author: momentics <momentics@gmail.com>
//
// Sharded, thread-safe client registry for high concurrency.

package session

import (
	"hash/fnv"
	"sync"
	"time"

	"github.com/wsxyanua/tcp-timeserver/api"
)

// Registry maps client identifiers to live sessions.
type Registry struct {
	shards []*registryShard
	mask   uint32
}

type registryShard struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewRegistry constructs a sharded registry with shardCount shards.
func NewRegistry(shardCount int) *Registry {
	if shardCount <= 0 {
		shardCount = 16
	}
	// find power-of-two shards for bitmasking
	m := nextPowerOfTwo(uint32(shardCount))
	shards := make([]*registryShard, m)
	for i := range shards {
		shards[i] = &registryShard{sessions: make(map[string]*Session)}
	}
	return &Registry{shards: shards, mask: m - 1}
}

// shard picks the correct shard for a given id.
func (r *Registry) shard(id string) *registryShard {
	return r.shards[fnv32(id)&r.mask]
}

// Add registers s under its ID. It returns false if the ID is taken.
func (r *Registry) Add(s *Session) bool {
	sh := r.shard(s.ID())
	sh.mu.Lock()
	defer sh.mu.Unlock()
	if _, ok := sh.sessions[s.ID()]; ok {
		return false
	}
	sh.sessions[s.ID()] = s
	return true
}

// Get fetches a session if present.
func (r *Registry) Get(id string) (*Session, bool) {
	sh := r.shard(id)
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	s, ok := sh.sessions[id]
	return s, ok
}

// Touch updates the activity timestamp of id, if registered.
func (r *Registry) Touch(id string, t time.Time) bool {
	sh := r.shard(id)
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	s, ok := sh.sessions[id]
	if ok {
		s.Touch(t)
	}
	return ok
}

// AppendMessage records text in the history of id, if registered.
func (r *Registry) AppendMessage(id, text string, t time.Time) bool {
	sh := r.shard(id)
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	s, ok := sh.sessions[id]
	if ok {
		s.RecordMessage(text, t)
	}
	return ok
}

// Remove deletes id and returns the removed session. Absent ids are a no-op.
func (r *Registry) Remove(id string) (*Session, bool) {
	sh := r.shard(id)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	s, ok := sh.sessions[id]
	if ok {
		delete(sh.sessions, id)
	}
	return s, ok
}

// Len returns the number of registered sessions.
func (r *Registry) Len() int {
	r.rlockAll()
	defer r.runlockAll()
	n := 0
	for _, sh := range r.shards {
		n += len(sh.sessions)
	}
	return n
}

// Snapshot returns a point-in-time copy of every registered session.
func (r *Registry) Snapshot() map[string]api.ClientInfo {
	r.rlockAll()
	defer r.runlockAll()
	out := make(map[string]api.ClientInfo)
	for _, sh := range r.shards {
		for id, s := range sh.sessions {
			out[id] = s.Info()
		}
	}
	return out
}

// Drain removes and returns every registered session in one step.
func (r *Registry) Drain() []*Session {
	for _, sh := range r.shards {
		sh.mu.Lock()
	}
	var out []*Session
	for _, sh := range r.shards {
		for id, s := range sh.sessions {
			out = append(out, s)
			delete(sh.sessions, id)
		}
	}
	for i := len(r.shards) - 1; i >= 0; i-- {
		r.shards[i].mu.Unlock()
	}
	return out
}

// Range applies fn to all sessions until fn returns false. fn must not call
// back into the registry.
func (r *Registry) Range(fn func(*Session) bool) {
	for _, sh := range r.shards {
		sh.mu.RLock()
		for _, s := range sh.sessions {
			if !fn(s) {
				sh.mu.RUnlock()
				return
			}
		}
		sh.mu.RUnlock()
	}
}

// Shard locks are always taken in index order.
func (r *Registry) rlockAll() {
	for _, sh := range r.shards {
		sh.mu.RLock()
	}
}

func (r *Registry) runlockAll() {
	for i := len(r.shards) - 1; i >= 0; i-- {
		r.shards[i].mu.RUnlock()
	}
}

// fnv32 hashes a string to uint32.
func fnv32(key string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(key))
	return h.Sum32()
}

// nextPowerOfTwo returns the next power-of-two >= v.
func nextPowerOfTwo(v uint32) uint32 {
	v--
	v |= v >> 1
	v |= v >> 2
	v |= v >> 4
	v |= v >> 8
	v |= v >> 16
	v++
	return v
}

// Copyright 2025 momentics@gmail.com
// Licensed under the Apache License, Version 2.0.

package session_test

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wsxyanua/tcp-timeserver/internal/session"
)

func newSession(id string) *session.Session {
	return session.New(id, "Client_"+id, "127.0.0.1:0", nil, 0, time.Now())
}

// TestRegistry_SingleThreaded checks correctness of CRUD operations.
func TestRegistry_SingleThreaded(t *testing.T) {
	reg := session.NewRegistry(8)
	id := "client-123"
	require.True(t, reg.Add(newSession(id)))
	assert.False(t, reg.Add(newSession(id)), "duplicate id accepted")

	s, ok := reg.Get(id)
	require.True(t, ok)
	assert.Equal(t, id, s.ID())

	now := time.Now()
	assert.True(t, reg.AppendMessage(id, "hello", now))
	assert.True(t, reg.Touch(id, now.Add(time.Second)))
	assert.Equal(t, []string{"hello"}, reg.Snapshot()[id].Messages)
	assert.Equal(t, 1, reg.Len())

	removed, ok := reg.Remove(id)
	require.True(t, ok)
	assert.Same(t, s, removed)
	_, ok = reg.Get(id)
	assert.False(t, ok)

	_, ok = reg.Remove(id)
	assert.False(t, ok, "second remove should be a no-op")
	assert.False(t, reg.Touch(id, now))
	assert.False(t, reg.AppendMessage(id, "late", now))
}

func TestRegistry_Drain(t *testing.T) {
	reg := session.NewRegistry(4)
	for i := 0; i < 40; i++ {
		reg.Add(newSession(fmt.Sprintf("s-%d", i)))
	}
	drained := reg.Drain()
	assert.Len(t, drained, 40)
	assert.Zero(t, reg.Len())
	assert.Empty(t, reg.Snapshot())
}

func TestRegistry_RangeStops(t *testing.T) {
	reg := session.NewRegistry(2)
	for i := 0; i < 10; i++ {
		reg.Add(newSession(fmt.Sprintf("r-%d", i)))
	}
	seen := 0
	reg.Range(func(*session.Session) bool {
		seen++
		return seen < 3
	})
	assert.Equal(t, 3, seen)
}

// TestRegistry_HeavyConcurrency mixes adds, removes, snapshots and drains.
func TestRegistry_HeavyConcurrency(t *testing.T) {
	reg := session.NewRegistry(32)
	const N = 200
	var wg sync.WaitGroup
	done := make(chan struct{})

	for i := 0; i < N; i++ {
		id := fmt.Sprintf("concurrent-%d", i)
		wg.Add(3)
		go func(id string) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				reg.Add(newSession(id))
				reg.AppendMessage(id, "x", time.Now())
			}
		}(id)
		go func(id string) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				reg.Remove(id)
			}
		}(id)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				_ = reg.Snapshot()
				_ = reg.Len()
				if j%10 == 0 {
					reg.Drain()
				}
			}
		}()
	}
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("Timeout: possible deadlock or excessive contention")
	}
}

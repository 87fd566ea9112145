// Copyright 2025 momentics@gmail.com
// Licensed under the Apache License, Version 2.0.

package admin

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wsxyanua/tcp-timeserver/api"
)

// fakeControl records commands and serves canned state.
type fakeControl struct {
	mu           sync.Mutex
	running      bool
	startErr     error
	resets       int
	disconnected []string
	clients      map[string]api.ClientInfo
	logs         []api.LogEntry
}

func (f *fakeControl) Start() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.startErr != nil {
		return f.startErr
	}
	f.running = true
	return nil
}

func (f *fakeControl) Stop() {
	f.mu.Lock()
	f.running = false
	f.mu.Unlock()
}

func (f *fakeControl) DisconnectClient(id string) {
	f.mu.Lock()
	f.disconnected = append(f.disconnected, id)
	f.mu.Unlock()
}

func (f *fakeControl) ResetCounters() {
	f.mu.Lock()
	f.resets++
	f.mu.Unlock()
}

func (f *fakeControl) IsRunning() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.running
}

func (f *fakeControl) TotalMessages() int64               { return 7 }
func (f *fakeControl) TimeRequests() int64                { return 3 }
func (f *fakeControl) ActiveConnections() int             { return len(f.clients) }
func (f *fakeControl) Uptime() time.Duration              { return 90 * time.Second }
func (f *fakeControl) StartTime() time.Time               { return time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC) }
func (f *fakeControl) Clients() map[string]api.ClientInfo { return f.clients }
func (f *fakeControl) Logs() []api.LogEntry               { return f.logs }
func (f *fakeControl) Debug() map[string]any              { return map[string]any{"runtime.goroutines": 4} }

func (f *fakeControl) Status() api.Status {
	return api.Status{
		Running:           f.IsRunning(),
		TotalMessages:     f.TotalMessages(),
		TimeRequests:      f.TimeRequests(),
		ActiveConnections: f.ActiveConnections(),
		StartTime:         f.StartTime(),
		Uptime:            f.Uptime(),
		UptimeSeconds:     f.Uptime().Seconds(),
	}
}

func newTestAdmin(ctrl api.Control) http.Handler {
	return NewServer("127.0.0.1:0", ctrl, slog.New(slog.NewTextHandler(io.Discard, nil))).Handler()
}

func do(t *testing.T, h http.Handler, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func TestHealth(t *testing.T) {
	rec := do(t, newTestAdmin(&fakeControl{}), http.MethodGet, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestStatus(t *testing.T) {
	ctrl := &fakeControl{running: true}
	rec := do(t, newTestAdmin(ctrl), http.MethodGet, "/api/status")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["running"])
	assert.EqualValues(t, 7, body["totalMessages"])
	assert.EqualValues(t, 3, body["timeRequests"])
	assert.EqualValues(t, 90, body["uptimeSeconds"])
	assert.NotContains(t, body, "Uptime")
}

func TestClientsAndLogs(t *testing.T) {
	ctrl := &fakeControl{
		clients: map[string]api.ClientInfo{
			"abc": {ID: "abc", DisplayName: "Client_abc", Status: api.SessionActive, Messages: []string{"hi"}},
		},
		logs: []api.LogEntry{
			{Level: api.LevelInformation, Message: "first"},
			{Level: api.LevelError, Message: "second", ClientID: "abc"},
		},
	}
	h := newTestAdmin(ctrl)

	var clients map[string]api.ClientInfo
	rec := do(t, h, http.MethodGet, "/api/clients")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &clients))
	require.Contains(t, clients, "abc")
	assert.Equal(t, []string{"hi"}, clients["abc"].Messages)
	assert.Contains(t, rec.Body.String(), `"status":"active"`)

	var logs []api.LogEntry
	rec = do(t, h, http.MethodGet, "/api/logs")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &logs))
	require.Len(t, logs, 2)
	assert.Equal(t, "first", logs[0].Message)
	assert.Equal(t, api.LevelError, logs[1].Level)

	rec = do(t, h, http.MethodGet, "/api/debug")
	assert.Contains(t, rec.Body.String(), "runtime.goroutines")
}

func TestCommands(t *testing.T) {
	ctrl := &fakeControl{}
	h := newTestAdmin(ctrl)

	assert.Equal(t, http.StatusOK, do(t, h, http.MethodPost, "/api/start").Code)
	assert.True(t, ctrl.IsRunning())

	assert.Equal(t, http.StatusOK, do(t, h, http.MethodPost, "/api/reset").Code)
	assert.Equal(t, 1, ctrl.resets)

	assert.Equal(t, http.StatusNoContent, do(t, h, http.MethodPost, "/api/clients/abc/disconnect").Code)
	assert.Equal(t, http.StatusNoContent, do(t, h, http.MethodPost, "/api/clients/unknown/disconnect").Code)
	assert.Equal(t, []string{"abc", "unknown"}, ctrl.disconnected)

	assert.Equal(t, http.StatusOK, do(t, h, http.MethodPost, "/api/stop").Code)
	assert.False(t, ctrl.IsRunning())

	assert.Equal(t, http.StatusMethodNotAllowed, do(t, h, http.MethodGet, "/api/stop").Code)
}

func TestStartFailure(t *testing.T) {
	ctrl := &fakeControl{startErr: &api.BindError{Addr: ":8888", Err: errors.New("address already in use")}}
	rec := do(t, newTestAdmin(ctrl), http.MethodPost, "/api/start")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "address already in use")
	assert.False(t, ctrl.IsRunning())
}

func TestStartStopListener(t *testing.T) {
	s := NewServer("127.0.0.1:0", &fakeControl{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, s.Start())

	resp, err := http.Get("http://" + s.Addr() + "/health")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, s.Stop(ctx))
}

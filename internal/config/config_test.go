// Copyright 2025 momentics@gmail.com
// Licensed under the Apache License, Version 2.0.

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wsxyanua/tcp-timeserver/api"
)

func envMap(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "timeserver.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := LoadWith("", envMap(nil))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, 8888, cfg.Port)
	assert.Equal(t, ":5000", cfg.AdminAddr)
	assert.Equal(t, 1000, cfg.HistoryLimit)
	assert.Equal(t, 10*time.Second, cfg.WriteTimeout)
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := writeFile(t, `
port: 9000
admin_addr: "127.0.0.1:6000"
log_format: json
history_limit: 50
read_timeout: 30s
shutdown_timeout: 1s
`)
	cfg, err := LoadWith(path, envMap(map[string]string{
		"TIMESERVER_PORT":          "9100",
		"TIMESERVER_WRITE_TIMEOUT": "2s",
		"DEBUG":                    "true",
	}))
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.Port)
	assert.Equal(t, "127.0.0.1:6000", cfg.AdminAddr)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 50, cfg.HistoryLimit)
	assert.Equal(t, 30*time.Second, cfg.ReadTimeout)
	assert.Equal(t, 2*time.Second, cfg.WriteTimeout)
	assert.Equal(t, time.Second, cfg.ShutdownTimeout)
}

func TestLoad_PathFromEnv(t *testing.T) {
	path := writeFile(t, "port: 7777\n")
	cfg, err := LoadWith("", envMap(map[string]string{EnvConfigFile: path}))
	require.NoError(t, err)
	assert.Equal(t, 7777, cfg.Port)
}

func TestLoad_Errors(t *testing.T) {
	_, err := LoadWith(filepath.Join(t.TempDir(), "missing.yaml"), envMap(nil))
	assert.Error(t, err)

	_, err = LoadWith(writeFile(t, "colour: blue\n"), envMap(nil))
	assert.Error(t, err, "unknown key accepted")

	_, err = LoadWith(writeFile(t, "read_timeout: soon\n"), envMap(nil))
	assert.Error(t, err)

	_, err = LoadWith("", envMap(map[string]string{"TIMESERVER_PORT": "eighty"}))
	assert.Error(t, err)

	_, err = LoadWith("", envMap(map[string]string{"TIMESERVER_PORT": "70000"}))
	assert.ErrorIs(t, err, api.ErrInvalidConfig)
}

func TestValidate(t *testing.T) {
	mutations := map[string]func(*Config){
		"negative history": func(c *Config) { c.HistoryLimit = -1 },
		"negative timeout": func(c *Config) { c.ReadTimeout = -time.Second },
		"bad level":        func(c *Config) { c.LogLevel = "chatty" },
		"bad format":       func(c *Config) { c.LogFormat = "xml" },
		"bad port":         func(c *Config) { c.Port = -1 },
	}
	for name, mutate := range mutations {
		cfg := Default()
		mutate(cfg)
		assert.ErrorIs(t, cfg.Validate(), api.ErrInvalidConfig, name)
	}
	assert.NoError(t, Default().Validate())
}

func TestToServer(t *testing.T) {
	cfg := Default()
	cfg.Port = 1234
	cfg.HistoryLimit = 0
	cfg.ReadTimeout = time.Minute

	sc := cfg.ToServer()
	assert.Equal(t, 1234, sc.Port)
	assert.Zero(t, sc.HistoryLimit)
	assert.Equal(t, time.Minute, sc.ReadTimeout)
	assert.Equal(t, 16, sc.RegistryShards)
}

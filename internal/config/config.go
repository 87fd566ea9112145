// File: internal/config/config.go
// Package config loads the time server configuration from defaults, an
// optional YAML file and the environment.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/wsxyanua/tcp-timeserver/api"
	"github.com/wsxyanua/tcp-timeserver/internal/logger"
	"github.com/wsxyanua/tcp-timeserver/server"
)

// EnvConfigFile names the environment variable holding the YAML file path.
const EnvConfigFile = "TIMESERVER_CONFIG"

// Config is the process configuration.
type Config struct {
	Host            string
	Port            int
	AdminAddr       string
	LogLevel        string
	LogFormat       string
	HistoryLimit    int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// fileConfig is the on-disk shape. Durations are strings such as "10s".
type fileConfig struct {
	Host            *string `yaml:"host"`
	Port            *int    `yaml:"port"`
	AdminAddr       *string `yaml:"admin_addr"`
	LogLevel        *string `yaml:"log_level"`
	LogFormat       *string `yaml:"log_format"`
	HistoryLimit    *int    `yaml:"history_limit"`
	ReadTimeout     *string `yaml:"read_timeout"`
	WriteTimeout    *string `yaml:"write_timeout"`
	ShutdownTimeout *string `yaml:"shutdown_timeout"`
}

// Default returns the built-in configuration.
func Default() *Config {
	sc := server.DefaultConfig()
	return &Config{
		Host:            sc.Host,
		Port:            sc.Port,
		AdminAddr:       ":5000",
		LogLevel:        "info",
		LogFormat:       logger.FormatText,
		HistoryLimit:    sc.HistoryLimit,
		ReadTimeout:     sc.ReadTimeout,
		WriteTimeout:    sc.WriteTimeout,
		ShutdownTimeout: sc.ShutdownTimeout,
	}
}

// Load builds the configuration from defaults, the YAML file at path (or
// $TIMESERVER_CONFIG when path is empty) and the process environment.
func Load(path string) (*Config, error) {
	return LoadWith(path, os.LookupEnv)
}

// LoadWith is Load with an explicit environment lookup.
func LoadWith(path string, lookup func(string) (string, bool)) (*Config, error) {
	cfg := Default()
	if path == "" {
		path, _ = lookup(EnvConfigFile)
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := cfg.ApplyYAML(data); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := cfg.ApplyEnv(lookup); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

// ApplyYAML overlays the keys present in data onto c.
func (c *Config) ApplyYAML(data []byte) error {
	var fc fileConfig
	if err := yaml.UnmarshalWithOptions(data, &fc, yaml.DisallowUnknownField()); err != nil {
		return err
	}
	setString(&c.Host, fc.Host)
	setString(&c.AdminAddr, fc.AdminAddr)
	setString(&c.LogLevel, fc.LogLevel)
	setString(&c.LogFormat, fc.LogFormat)
	if fc.Port != nil {
		c.Port = *fc.Port
	}
	if fc.HistoryLimit != nil {
		c.HistoryLimit = *fc.HistoryLimit
	}
	for _, d := range []struct {
		key string
		src *string
		dst *time.Duration
	}{
		{"read_timeout", fc.ReadTimeout, &c.ReadTimeout},
		{"write_timeout", fc.WriteTimeout, &c.WriteTimeout},
		{"shutdown_timeout", fc.ShutdownTimeout, &c.ShutdownTimeout},
	} {
		if d.src == nil {
			continue
		}
		v, err := time.ParseDuration(*d.src)
		if err != nil {
			return fmt.Errorf("%s: %w", d.key, err)
		}
		*d.dst = v
	}
	return nil
}

// ApplyEnv overlays TIMESERVER_* variables onto c. DEBUG=true forces the
// debug log level.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok {
			*dst = v
		}
	}
	num := func(key string, dst *int) error {
		v, ok := lookup(key)
		if !ok {
			return nil
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = n
		return nil
	}
	dur := func(key string, dst *time.Duration) error {
		v, ok := lookup(key)
		if !ok {
			return nil
		}
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = d
		return nil
	}

	str("TIMESERVER_HOST", &c.Host)
	str("TIMESERVER_ADMIN_ADDR", &c.AdminAddr)
	str("TIMESERVER_LOG_LEVEL", &c.LogLevel)
	str("TIMESERVER_LOG_FORMAT", &c.LogFormat)
	if v, _ := lookup("DEBUG"); v == "true" {
		c.LogLevel = "debug"
	}
	if err := num("TIMESERVER_PORT", &c.Port); err != nil {
		return err
	}
	if err := num("TIMESERVER_HISTORY_LIMIT", &c.HistoryLimit); err != nil {
		return err
	}
	if err := dur("TIMESERVER_READ_TIMEOUT", &c.ReadTimeout); err != nil {
		return err
	}
	if err := dur("TIMESERVER_WRITE_TIMEOUT", &c.WriteTimeout); err != nil {
		return err
	}
	return dur("TIMESERVER_SHUTDOWN_TIMEOUT", &c.ShutdownTimeout)
}

// Validate reports the first invalid field, wrapped in api.ErrInvalidConfig.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("%w: port %d out of range", api.ErrInvalidConfig, c.Port)
	}
	if c.HistoryLimit < 0 {
		return fmt.Errorf("%w: history_limit must not be negative", api.ErrInvalidConfig)
	}
	if c.ReadTimeout < 0 || c.WriteTimeout < 0 || c.ShutdownTimeout < 0 {
		return fmt.Errorf("%w: timeouts must not be negative", api.ErrInvalidConfig)
	}
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %v", api.ErrInvalidConfig, err)
	}
	switch strings.ToLower(c.LogFormat) {
	case logger.FormatText, logger.FormatJSON:
	default:
		return fmt.Errorf("%w: unknown log format %q", api.ErrInvalidConfig, c.LogFormat)
	}
	return nil
}

// ToServer converts c into the server package's configuration.
func (c *Config) ToServer() *server.Config {
	sc := server.DefaultConfig()
	sc.Host = c.Host
	sc.Port = c.Port
	sc.HistoryLimit = c.HistoryLimit
	sc.ReadTimeout = c.ReadTimeout
	sc.WriteTimeout = c.WriteTimeout
	sc.ShutdownTimeout = c.ShutdownTimeout
	return sc
}

// Logger returns the logger options described by c.
func (c *Config) Logger() logger.Options {
	return logger.Options{Level: c.LogLevel, Format: c.LogFormat}
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

// File: cmd/timeserver/serve.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/scott-cotton/cli"

	"github.com/wsxyanua/tcp-timeserver/internal/admin"
	"github.com/wsxyanua/tcp-timeserver/internal/config"
	"github.com/wsxyanua/tcp-timeserver/internal/logger"
	"github.com/wsxyanua/tcp-timeserver/server"
)

type ServeConfig struct {
	Serve      *cli.Command
	ConfigFile string `cli:"name=config desc='YAML configuration file'"`
	Host       string `cli:"name=host desc='bind host (default all interfaces)'"`
	Port       int    `cli:"name=port desc='TCP port to listen on'"`
	Admin      string `cli:"name=admin desc='admin HTTP address, empty disables'"`
	LogLevel   string `cli:"name=log-level desc='debug, info, warn or error'"`
	LogFormat  string `cli:"name=log-format desc='text or json'"`
	History    int    `cli:"name=history desc='per-client message history limit, 0 is unbounded'"`
}

func ServeCommand() *cli.Command {
	cfg := &ServeConfig{}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Serve, "serve").
		WithSynopsis("serve [-config file] [-port n] [-admin addr]").
		WithDescription("run the time server until interrupted").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return serve(cfg, cc, args)
		})
}

// resolve loads the file/env configuration and applies explicit flags over it.
func (cfg *ServeConfig) resolve() (*config.Config, error) {
	c, err := config.Load(cfg.ConfigFile)
	if err != nil {
		return nil, err
	}
	if optSet(cfg.Serve, "host") {
		c.Host = cfg.Host
	}
	if optSet(cfg.Serve, "port") {
		c.Port = cfg.Port
	}
	if optSet(cfg.Serve, "admin") {
		c.AdminAddr = cfg.Admin
	}
	if optSet(cfg.Serve, "log-level") {
		c.LogLevel = cfg.LogLevel
	}
	if optSet(cfg.Serve, "log-format") {
		c.LogFormat = cfg.LogFormat
	}
	if optSet(cfg.Serve, "history") {
		c.HistoryLimit = cfg.History
	}
	return c, c.Validate()
}

func serve(cfg *ServeConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Serve.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) != 0 {
		return fmt.Errorf("%w: serve takes no arguments, got %v", cli.ErrUsage, args)
	}
	c, err := cfg.resolve()
	if err != nil {
		return err
	}
	log, err := logger.Init(c.Logger())
	if err != nil {
		return err
	}

	srv, err := server.NewServer(c.ToServer(), server.WithLogger(log))
	if err != nil {
		return err
	}
	if err := srv.Start(); err != nil {
		return err
	}
	defer srv.Stop()

	if c.AdminAddr != "" {
		adm := admin.NewServer(c.AdminAddr, srv, log)
		if err := adm.Start(); err != nil {
			return fmt.Errorf("failed to start admin server: %w", err)
		}
		defer func() {
			ctx, cancel := shutdownContext(c.ShutdownTimeout)
			defer cancel()
			if err := adm.Stop(ctx); err != nil {
				log.Error("Admin server shutdown failed", "error", err)
			}
		}()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()
	fmt.Fprintf(cc.Out, "\nShutting down...\n")
	return nil
}

// shutdownContext bounds a graceful shutdown by d. Zero waits indefinitely,
// as server.Stop does.
func shutdownContext(d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(context.Background())
	}
	return context.WithTimeout(context.Background(), d)
}

// File: cmd/timeserver/send.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package main

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/scott-cotton/cli"

	"github.com/wsxyanua/tcp-timeserver/protocol"
)

const sendTimeout = 5 * time.Second

type SendConfig struct {
	Send  *cli.Command
	Addr  string `cli:"name=addr desc='server address' default=localhost:8888"`
	Color bool   `cli:"name=color desc='force coloured output'"`
}

func SendCommand() *cli.Command {
	cfg := &SendConfig{Addr: "localhost:8888"}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Send, "send").
		WithSynopsis("send [-addr host:port] <text>").
		WithDescription("send one message, e.g. TIME:DATE, and print the reply").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return send(cfg, cc, args)
		})
}

func send(cfg *SendConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Send.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: send requires the text to send", cli.ErrUsage)
	}
	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	reply, err := sendMessage(ctx, cfg.Addr, strings.Join(args, " "))
	if err != nil {
		return err
	}
	out := color.New(color.FgGreen)
	if !cfg.Color && !isTerminal(cc.Out) {
		out.DisableColor()
	}
	out.Fprintln(cc.Out, reply)
	return nil
}

// sendMessage writes text to addr in one write and returns one read of the
// reply.
func sendMessage(ctx context.Context, addr, text string) (string, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return "", fmt.Errorf("connect %s: %w", addr, err)
	}
	defer conn.Close()
	if deadline, ok := ctx.Deadline(); ok {
		if err := conn.SetDeadline(deadline); err != nil {
			return "", err
		}
	}
	if _, err := conn.Write([]byte(text)); err != nil {
		return "", fmt.Errorf("send: %w", err)
	}
	buf := make([]byte, protocol.MaxMessageSize)
	n, err := conn.Read(buf)
	if err != nil {
		if err == io.EOF {
			return "", fmt.Errorf("server closed the connection")
		}
		return "", fmt.Errorf("receive: %w", err)
	}
	return protocol.Decode(buf[:n]), nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}

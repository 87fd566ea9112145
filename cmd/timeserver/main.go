// File: cmd/timeserver/main.go
// Command timeserver runs the TCP time/echo session server and offers a
// one-shot client for its wire protocol.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package main

import (
	"context"

	"github.com/scott-cotton/cli"
)

func main() {
	cli.MainContext(context.Background(), MainCommand())
}

// MainCommand builds the command tree.
func MainCommand() *cli.Command {
	return cli.NewCommand("timeserver").
		WithSynopsis("timeserver command [opts]").
		WithDescription("timeserver answers TIME: requests and echoes everything else over TCP.").
		WithSubs(
			ServeCommand(),
			SendCommand())
}

// optSet reports whether the named option was given on the command line.
func optSet(cmd *cli.Command, name string) bool {
	for _, opt := range cmd.Opts {
		if opt.Name == name {
			return opt.Value != nil
		}
	}
	return false
}

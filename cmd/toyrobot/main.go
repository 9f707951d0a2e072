// Package main runs a toy robot over a command script.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"toyrobot/internal/platform/config"

	toyrobotcmd "toyrobot/internal/cmd/toyrobot"
)

func main() {
	cfg, err := toyrobotcmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("Error: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := toyrobotcmd.Run(ctx, cfg, os.Stdin, os.Stdout, os.Stderr); err != nil {
		config.Exitf("Error: %v", err)
	}
}

// Package main runs the site maintenance CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	sitectlcmd "github.com/s2design/site/internal/cmd/sitectl"
	"github.com/s2design/site/internal/platform/config"
)

func main() {
	root, err := sitectlcmd.NewRootCommand(nil)
	if err != nil {
		config.Exitf("sitectl: parse config: %v", err)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := root.ExecuteContext(ctx); err != nil {
		config.Exitf("sitectl: %v", err)
	}
}

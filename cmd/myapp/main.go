// Package main is the entry point of myapp.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/CliForge/argspec/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := app.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

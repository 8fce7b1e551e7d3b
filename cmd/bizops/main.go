package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"bizops/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := cli.Execute(ctx, os.Args[1:], cli.Options{})
	stop()
	if err != nil {
		os.Exit(1)
	}
}

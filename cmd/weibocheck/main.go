package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// go build -ldflags "-X main.Version=x.y.z"
var Version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

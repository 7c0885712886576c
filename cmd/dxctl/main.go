package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/okian/dxpredict/internal/dxctl"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := dxctl.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

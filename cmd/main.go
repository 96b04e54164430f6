package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/yungbote/mathstep-backend/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to init app: %v\n", err)
		os.Exit(1)
	}
	if err := a.Start(); err != nil {
		a.Log.Error("Failed to start background jobs", "error", err)
		a.Close(context.Background())
		os.Exit(1)
	}

	errCh := make(chan error, 1)
	go func() { errCh <- a.Run() }()

	select {
	case err = <-errCh:
		if err != nil {
			a.Log.Error("Server stopped", "error", err)
		}
	case <-ctx.Done():
		a.Log.Info("Shutting down...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	a.Close(shutdownCtx)
	if err != nil {
		os.Exit(1)
	}
}

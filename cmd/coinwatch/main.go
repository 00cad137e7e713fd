package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/NasaVasa/coinwatch/internal/app"
	"github.com/NasaVasa/coinwatch/internal/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		os.Exit(1)
	}

	application, err := app.New(ctx, cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to initialize coinwatch:", err)
		os.Exit(1)
	}

	runErr := application.Run(ctx)
	application.Shutdown()
	if runErr != nil {
		fmt.Fprintln(os.Stderr, "coinwatch stopped with error:", runErr)
		os.Exit(1)
	}
}

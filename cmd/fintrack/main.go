package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/saitej-a/Innobyte-services/internal/cli"
	"github.com/saitej-a/Innobyte-services/internal/config"
	"github.com/saitej-a/Innobyte-services/internal/logging"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, args, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	log, err := logging.New(cfg.LogBackend, cfg.LogLevel, os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	app, err := cli.NewApp(ctx, cfg, log)
	if err != nil {
		log.Error(ctx, "startup failed", "error", err)
		fmt.Fprintln(os.Stderr, "Could not open the ledger database:", err)
		return 1
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Warn(ctx, "close database", "error", err)
		}
	}()

	return app.Run(ctx, args)
}

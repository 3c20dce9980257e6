package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/beefboard/boardclient/internal/buildinfo"
	"github.com/beefboard/boardclient/internal/client/cli"
	"github.com/beefboard/boardclient/internal/client/config"
	"github.com/beefboard/boardclient/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		log.Fatalf("%v", err)
	}

	logger, err := logging.New(os.Stderr, cfg.LogBackend, cfg.LogLevel)
	if err != nil {
		log.Fatalf("%v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	app, err := cli.NewApp(ctx, cfg, os.Stdout, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer func() {
		if err := app.Close(context.Background()); err != nil {
			logger.Error(context.Background(), "shutdown failed", "error", err)
		}
	}()

	if err := app.Run(ctx); err != nil {
		logger.Error(ctx, "cli stopped", "error", err)
	}
}

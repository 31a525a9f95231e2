package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"dealflow/internal/application"
	"dealflow/internal/config"
	"dealflow/pkg/contextx"
	"dealflow/pkg/logx"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", logx.Error(err))
		os.Exit(1)
	}

	log := logx.NewLogger(os.Stdout, cfg.App.LogLevel)
	slog.SetDefault(log)
	ctx = contextx.WithLogger(ctx, log)

	if err := run(ctx, cfg); err != nil {
		log.Error("application failed", logx.Error(err))
		os.Exit(1) //nolint:gocritic // deferred cancel is best effort
	}

	log.Info("application stopped")
}

func run(ctx context.Context, cfg config.Config) error {
	app, err := application.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close(context.WithoutCancel(ctx))

	app.LogStartup(ctx)

	return app.Run(ctx)
}

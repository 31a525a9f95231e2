package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"dealflow/internal/application"
	"dealflow/internal/config"
	"dealflow/internal/domain/value"
	"dealflow/pkg/contextx"
	"dealflow/pkg/logx"
	"dealflow/pkg/lox"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	root := &cobra.Command{
		Use:           "dealflow-ctl",
		Short:         "One-shot operator tasks against the deal pipeline",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newBackfillCmd(), newWeightsCmd())

	if err := root.ExecuteContext(ctx); err != nil {
		slog.Error("command failed", logx.Error(err))
		os.Exit(1) //nolint:gocritic // deferred cancel is best effort
	}
}

func newBackfillCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backfill",
		Short: "Run processing cycles over the backlog without starting the servers",
		Example: `  dealflow-ctl backfill --cycles 10
  dealflow-ctl backfill --cycles 3 --statuses NEW,SCORED`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cycles, _ := cmd.Flags().GetInt("cycles")
			statuses, _ := cmd.Flags().GetString("statuses")

			return withApplication(cmd.Context(), func(ctx context.Context, app *application.Application) error {
				if statuses != "" {
					parsed, err := lox.MapErr(strings.Split(statuses, ","), value.ParseStatus)
					if err != nil {
						return err
					}
					app.Processor.SetStatuses(parsed)
				}

				var total int
				for i := range cycles {
					if ctx.Err() != nil {
						break
					}

					result := app.Processor.RunOnce(ctx)
					total += result.Processed
					logger(ctx).Info("backfill cycle done",
						slog.Int("cycle", i+1),
						slog.Int("processed", result.Processed),
						slog.Int("failed", result.Failed),
						slog.Int("matched", result.Matched),
					)

					if result.Processed+result.Failed == 0 {
						break
					}
				}

				logger(ctx).Info("backfill finished", slog.Int("processed", total))
				return nil
			})
		},
	}

	cmd.Flags().Int("cycles", 1, "maximum number of processing cycles")
	cmd.Flags().String("statuses", "", "comma-separated statuses to process (default: worker config)")

	return cmd
}

func newWeightsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "weights",
		Short: "Manage priority scoring weights",
	}

	publish := &cobra.Command{
		Use:     "publish",
		Short:   "Publish the configured PRIORITY_* weights as the active version",
		Example: `  PRIORITY_SPREAD_WEIGHT=0.5 dealflow-ctl weights publish --version 2026-10-q4`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			version, _ := cmd.Flags().GetString("version")
			if version == "" {
				return errors.New("--version is required")
			}

			return withApplication(cmd.Context(), func(ctx context.Context, app *application.Application) error {
				w := app.Config.Priority.Weights()
				w.Version = version

				if err := app.Weights.Publish(ctx, w, time.Now().UTC()); err != nil {
					return err
				}

				logger(ctx).Info("weights published", slog.String("version", version))
				return nil
			})
		},
	}
	publish.Flags().String("version", "", "version label stored with the weights")

	cmd.AddCommand(publish)

	return cmd
}

func withApplication(ctx context.Context, fn func(ctx context.Context, app *application.Application) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logx.NewLogger(os.Stderr, cfg.App.LogLevel)
	slog.SetDefault(log)
	ctx = contextx.WithLogger(ctx, log)

	app, err := application.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close(context.WithoutCancel(ctx))

	return fn(ctx, app)
}

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

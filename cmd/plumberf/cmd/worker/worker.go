package worker

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"plumberf/cmd/plumberf/cmd/cmdutil"
	"plumberf/internal/app"
)

var concurrency int

func init() {
	Cmd.Flags().IntVarP(&concurrency, "concurrency", "c", 0, "number of consumers (default WORKER_CONCURRENCY)")
}

// Cmd represents the worker command
var Cmd = &cobra.Command{
	Use:   "worker",
	Short: "Process queued job videos",
	Long: `Process queued job videos.

Each consumer claims a job video, runs transcription, segmentation and
vocabulary extraction, and stores the resulting lesson. A health server
reports liveness, readiness and metrics. On SIGINT or SIGTERM the worker
stops taking messages and finishes the ones in flight.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := cmdutil.Setup()
		if err != nil {
			return err
		}
		defer logger.Sync()

		if concurrency > 0 {
			cfg.Worker.Concurrency = concurrency
		}

		ctx, stop := cmdutil.SignalContext()
		defer stop()

		w, cleanup, err := app.InitializeWorker(ctx, cfg, logger)
		if err != nil {
			logger.Error("Failed to initialize worker", zap.Error(err))
			return err
		}
		defer cleanup()

		logger.Info("Starting worker",
			zap.String("queue", cfg.Queue.Name),
			zap.Int("concurrency", w.Pool.Size()),
			zap.String("health_addr", w.HealthAddr))

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			return w.Health.ListenAndServe(gctx, w.HealthAddr)
		})
		g.Go(func() error {
			w.Pool.Run(gctx)
			return nil
		})

		err = g.Wait()
		stats := w.Processor.Stats()
		logger.Info("Worker stopped",
			zap.Int64("processed", stats.Processed),
			zap.Int64("failed", stats.Failed),
			zap.Int64("skipped", stats.Skipped))
		return err
	},
}

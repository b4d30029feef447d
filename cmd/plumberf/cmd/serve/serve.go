package serve

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"plumberf/cmd/plumberf/cmd/cmdutil"
	"plumberf/internal/app"
)

// Cmd represents the serve command
var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Run the HTTP API.

Serves the job video, lesson and catalog endpoints together with /health,
/metrics and /swagger. Stops gracefully on SIGINT or SIGTERM.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := cmdutil.Setup()
		if err != nil {
			return err
		}
		defer logger.Sync()

		ctx, stop := cmdutil.SignalContext()
		defer stop()

		srv, cleanup, err := app.InitializeServer(ctx, cfg, logger)
		if err != nil {
			logger.Error("Failed to initialize API server", zap.Error(err))
			return err
		}
		defer cleanup()

		return srv.Run(ctx)
	},
}

package migrate

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"plumberf/cmd/plumberf/cmd/cmdutil"
	schema "plumberf/internal/app/repository/migrate"
)

// Cmd represents the migrate command
var Cmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	Long: `Apply the embedded schema migrations for DATABASE_DRIVER.

Migrations already recorded in schema_migrations are skipped, so running
the command twice is safe.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := cmdutil.Setup()
		if err != nil {
			return err
		}
		defer logger.Sync()

		db, err := cmdutil.OpenDB(cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		applied, err := schema.Up(cmd.Context(), db, cfg.DatabaseDriver, logger)
		if err != nil {
			logger.Error("Migration failed", zap.Error(err))
			return err
		}
		if len(applied) == 0 {
			fmt.Println("database is up to date")
			return nil
		}
		for _, version := range applied {
			fmt.Printf("applied %s\n", version)
		}
		return nil
	},
}

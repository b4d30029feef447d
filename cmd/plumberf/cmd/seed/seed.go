package seed

import (
	"fmt"

	"github.com/spf13/cobra"

	"plumberf/cmd/plumberf/cmd/cmdutil"
	"plumberf/internal/app"
	"plumberf/internal/app/catalog"
)

var seedFile string

func init() {
	Cmd.Flags().StringVarP(&seedFile, "file", "f", "configs/catalog.yaml", "catalog seed file")
}

// Cmd represents the seed command
var Cmd = &cobra.Command{
	Use:   "seed",
	Short: "Load trades and vocabulary from a YAML file",
	Long: `Load trades, tools, materials and tags from a YAML file.

Trades are matched by slug and vocabulary by name within its scope, so
entries that already exist are skipped and the file can be applied again.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := cmdutil.Setup()
		if err != nil {
			return err
		}
		defer logger.Sync()

		f, err := catalog.LoadSeedFile(seedFile)
		if err != nil {
			return err
		}

		svc, cleanup, err := app.InitializeCatalog(cfg, logger)
		if err != nil {
			return err
		}
		defer cleanup()

		report, err := svc.Seed(cmd.Context(), f)
		if err != nil {
			return err
		}
		fmt.Printf("seeded %s: %d trades, %d tools, %d materials, %d tags (%d already present)\n",
			seedFile, report.Trades, report.Tools, report.Materials, report.Tags, report.Skipped)
		return nil
	},
}

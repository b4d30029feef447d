package export

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"plumberf/cmd/plumberf/cmd/cmdutil"
	"plumberf/internal/app"
	"plumberf/internal/app/export"
	"plumberf/internal/app/model"
)

var (
	outputFilePath string
	tradeSlug      string
	status         string
	limit          int
	showProgress   bool
)

func init() {
	Cmd.Flags().StringVarP(&outputFilePath, "outputFilePath", "o", "", "set outputFilePath")
	Cmd.Flags().StringVarP(&tradeSlug, "trade", "t", "", "only lessons of this trade slug")
	Cmd.Flags().StringVarP(&status, "status", "s", "", "only lessons with this status")
	Cmd.Flags().IntVarP(&limit, "limit", "l", 0, "maximum number of lessons, 0 for all")
	Cmd.Flags().BoolVar(&showProgress, "progress", false, "show a progress bar even when stderr is not a terminal")

	Cmd.MarkFlagRequired("outputFilePath")
}

// Cmd represents the export command
var Cmd = &cobra.Command{
	Use:   "export",
	Short: "Export lessons and their steps to excel",
	Long: `Export lessons and their steps to excel

- The Lessons sheet has one row per lesson, the Steps sheet one row per step`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := cmdutil.Setup()
		if err != nil {
			return err
		}
		defer logger.Sync()

		deps, cleanup, err := app.InitializeExport(cfg, logger)
		if err != nil {
			return err
		}
		defer cleanup()

		filter := model.LessonFilter{Status: model.LessonStatus(status), Limit: limit}
		if status != "" && !filter.Status.Valid() {
			return fmt.Errorf("unknown lesson status %q", status)
		}
		if tradeSlug != "" {
			trade, err := deps.Catalog.GetTrade(cmd.Context(), tradeSlug)
			if err != nil {
				return err
			}
			filter.TradeID = trade.ID
		}

		progress := export.NewProgressManager(export.ProgressConfig{
			Enabled: export.ShouldShowProgress(showProgress),
			Writer:  os.Stderr,
		})
		bar := progress.CreateBar(0, "Exporting lessons")

		report, err := deps.Exporter.ToExcel(cmd.Context(), filter, outputFilePath, bar)
		bar.Complete()
		progress.Wait()
		if err != nil {
			return err
		}

		fmt.Printf("export finished: %d lessons, %d steps, exported file path: %v\n",
			report.Lessons, report.Steps, report.Path)
		return nil
	},
}

package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"plumberf/cmd/plumberf/cmd/cmdutil"
	"plumberf/cmd/plumberf/cmd/export"
	"plumberf/cmd/plumberf/cmd/jobs"
	"plumberf/cmd/plumberf/cmd/migrate"
	"plumberf/cmd/plumberf/cmd/seed"
	"plumberf/cmd/plumberf/cmd/serve"
	"plumberf/cmd/plumberf/cmd/version"
	"plumberf/cmd/plumberf/cmd/worker"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "plumberf",
	Short: "Turns job-site videos into step-by-step trade lessons",
	Long: `plumberf turns job-site videos into step-by-step trade lessons.
- serve exposes the upload and lesson API
- worker transcribes queued videos and builds their lessons
- migrate, seed, jobs and export are operator tools`,
	SilenceUsage:     true,
	TraverseChildren: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serve.Cmd)
	rootCmd.AddCommand(worker.Cmd)
	rootCmd.AddCommand(migrate.Cmd)
	rootCmd.AddCommand(seed.Cmd)
	rootCmd.AddCommand(jobs.Cmd)
	rootCmd.AddCommand(export.Cmd)
	rootCmd.AddCommand(version.Cmd)

	rootCmd.PersistentFlags().BoolVarP(&cmdutil.Verbose, "verbose", "V", false, "debug logging")
}

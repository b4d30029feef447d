package jobs

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"plumberf/cmd/plumberf/cmd/cmdutil"
	"plumberf/internal/app"
	"plumberf/internal/app/lifecycle"
	"plumberf/internal/app/model"
)

var (
	output  string
	reason  string
	status  string
	tradeID int64
	limit   int
)

func init() {
	showCmd.Flags().StringVarP(&output, "output", "o", "yaml", "output format: yaml or json")
	failCmd.Flags().StringVarP(&reason, "reason", "r", "failed by operator", "error message stored on the job video")
	listCmd.Flags().StringVarP(&status, "status", "s", "", "only job videos in this status")
	listCmd.Flags().Int64Var(&tradeID, "trade-id", 0, "only job videos of this trade")
	listCmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum rows (1-100)")

	Cmd.AddCommand(listCmd, showCmd, retryCmd, requeueCmd, failCmd)
}

// Cmd represents the jobs command
var Cmd = &cobra.Command{
	Use:   "jobs",
	Short: "Inspect and repair job videos",
	Long: `Inspect and repair job videos.

A worker that dies mid-run leaves its job video in processing. Fail it
with "jobs fail ID", then queue it again with "jobs retry ID".`,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List job videos, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		filter := model.JobVideoFilter{TradeID: tradeID, Page: 1, Limit: limit}
		if status != "" {
			s, err := model.ParseJobVideoStatus(status)
			if err != nil {
				return err
			}
			filter.Status = s
		}

		coord, cleanup, err := openCoordinator(cmd)
		if err != nil {
			return err
		}
		defer cleanup()

		videos, total, err := coord.List(cmd.Context(), filter)
		if err != nil {
			return err
		}
		for _, jv := range videos {
			fmt.Printf("%d\t%s\ttrade=%d\tattempts=%d\t%s\n", jv.ID, jv.Status, jv.TradeID, jv.Attempts, jv.FileURL)
		}
		fmt.Printf("%d of %d job videos\n", len(videos), total)
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Print a job video",
	Args:  cobra.ExactArgs(1),
	RunE: withCoordinator(func(cmd *cobra.Command, coord *lifecycle.Coordinator, id int64) error {
		jv, err := coord.Get(cmd.Context(), id)
		if err != nil {
			return err
		}
		return printJobVideo(jv)
	}),
}

var retryCmd = &cobra.Command{
	Use:   "retry ID",
	Short: "Move a failed job video back to uploaded and queue it",
	Args:  cobra.ExactArgs(1),
	RunE: withCoordinator(func(cmd *cobra.Command, coord *lifecycle.Coordinator, id int64) error {
		jv, err := coord.Retry(cmd.Context(), id)
		if err != nil {
			return err
		}
		fmt.Printf("job video %d is %s and queued\n", jv.ID, jv.Status)
		return nil
	}),
}

var requeueCmd = &cobra.Command{
	Use:   "requeue ID",
	Short: "Queue an uploaded job video again",
	Args:  cobra.ExactArgs(1),
	RunE: withCoordinator(func(cmd *cobra.Command, coord *lifecycle.Coordinator, id int64) error {
		jv, err := coord.Requeue(cmd.Context(), id)
		if err != nil {
			return err
		}
		fmt.Printf("job video %d queued\n", jv.ID)
		return nil
	}),
}

var failCmd = &cobra.Command{
	Use:   "fail ID",
	Short: "Mark a processing job video as failed",
	Args:  cobra.ExactArgs(1),
	RunE: withCoordinator(func(cmd *cobra.Command, coord *lifecycle.Coordinator, id int64) error {
		jv, err := coord.FailProcessing(cmd.Context(), id, reason)
		if err != nil {
			return err
		}
		fmt.Printf("job video %d is %s\n", jv.ID, jv.Status)
		return nil
	}),
}

func withCoordinator(run func(*cobra.Command, *lifecycle.Coordinator, int64) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil || id <= 0 {
			return fmt.Errorf("invalid job video id %q", args[0])
		}

		coord, cleanup, err := openCoordinator(cmd)
		if err != nil {
			return err
		}
		defer cleanup()

		return run(cmd, coord, id)
	}
}

func openCoordinator(cmd *cobra.Command) (*lifecycle.Coordinator, func(), error) {
	cfg, logger, err := cmdutil.Setup()
	if err != nil {
		return nil, nil, err
	}
	coord, cleanup, err := app.InitializeCoordinator(cmd.Context(), cfg, logger)
	if err != nil {
		logger.Sync()
		return nil, nil, err
	}
	return coord, func() {
		cleanup()
		logger.Sync()
	}, nil
}

func printJobVideo(jv *model.JobVideo) error {
	raw, err := json.MarshalIndent(jv, "", "  ")
	if err != nil {
		return err
	}
	if output == "json" {
		fmt.Println(string(raw))
		return nil
	}

	// Round trip through a map so YAML keys match the JSON field names.
	var doc map[string]interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return err
	}
	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(doc)
}

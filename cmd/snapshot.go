package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/azihell/properties-dashboard/snapshot"
)

var (
	snapshotURL    string
	snapshotOut    string
	snapshotWait   string
	snapshotSettle time.Duration
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Capture a screenshot of a rendered dashboard",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		c := snapshot.New(snapshot.Options{
			ChromeBin:    cfg.ChromeBin,
			Timeout:      time.Duration(cfg.SnapshotTimeoutSec) * time.Second,
			MaxRetries:   cfg.MaxRetries,
			WaitSelector: snapshotWait,
			Settle:       snapshotSettle,
		}, logger)
		return c.Capture(cmd.Context(), snapshotURL, snapshotOut)
	},
}

func init() {
	snapshotCmd.Flags().StringVar(&snapshotURL, "url", "", "dashboard URL to capture")
	snapshotCmd.Flags().StringVar(&snapshotOut, "out", "./output/map.png", "screenshot path")
	snapshotCmd.Flags().StringVar(&snapshotWait, "wait", "canvas", "CSS selector to wait for")
	snapshotCmd.Flags().DurationVar(&snapshotSettle, "settle", 3*time.Second, "extra wait for map layers to draw")
	_ = snapshotCmd.MarkFlagRequired("url")
	rootCmd.AddCommand(snapshotCmd)
}

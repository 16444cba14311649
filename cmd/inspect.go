package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/azihell/properties-dashboard/services"
	"github.com/azihell/properties-dashboard/storage"
)

var (
	inspectLo     float64
	inspectHi     float64
	inspectExport bool
	inspectOut    string
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file.csv>",
	Short: "Run the pipeline on a CSV file and print the report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read %s: %w", args[0], err)
		}

		pipeline, err := services.NewPipeline(logger, nil, cfg.PipelineOptions())
		if err != nil {
			return err
		}
		ds, err := pipeline.Run(data)
		if err != nil {
			return err
		}

		w := ds.Bounds
		if cmd.Flags().Changed("lo") {
			w.Lo = inspectLo
		}
		if cmd.Flags().Changed("hi") {
			w.Hi = inspectHi
		}
		visible := services.Filter(ds.Properties, w)
		pipeline.Insights().Print(cmd.OutOrStdout(), ds, w, visible)

		if !inspectExport {
			return nil
		}
		out := inspectOut
		if out == "" {
			out = cfg.ExportPath
		}
		writer, err := storage.NewCSVFileWriter(out)
		if err != nil {
			return err
		}
		if err := writer.Write(visible); err != nil {
			_ = writer.Close()
			return err
		}
		if err := writer.Close(); err != nil {
			return err
		}
		logger.Info("[inspect] Exported %d visible properties to %s", len(visible), out)
		return nil
	},
}

func init() {
	inspectCmd.Flags().Float64Var(&inspectLo, "lo", 0, "window lower bound in thousands (default: dataset minimum)")
	inspectCmd.Flags().Float64Var(&inspectHi, "hi", 0, "window upper bound in thousands (default: dataset maximum)")
	inspectCmd.Flags().BoolVar(&inspectExport, "export", false, "write the visible properties as CSV")
	inspectCmd.Flags().StringVar(&inspectOut, "out", "", "export path (default: EXPORT_PATH)")
	rootCmd.AddCommand(inspectCmd)
}

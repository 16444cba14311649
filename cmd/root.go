package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/azihell/properties-dashboard/config"
	"github.com/azihell/properties-dashboard/utils"
)

var (
	cfgFile string
	debug   bool

	cfg    *config.Config
	logger *utils.Logger
)

var rootCmd = &cobra.Command{
	Use:   "propmap",
	Short: "Price-colored 3D property map backend",
	Long: `propmap loads a property CSV, cleans it, splits prices into seven colored bins
and serves the result to the map dashboard. It can also print a terminal
report and capture a screenshot of a running dashboard.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "YAML config file (environment variables override it)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

func loadConfig(cmd *cobra.Command, _ []string) error {
	c, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if debug {
		c.LogLevel = "debug"
	}

	l, err := utils.NewLoggerWithConfig(c.LogConfig(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	cfg, logger = c, l
	return nil
}

package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/azihell/properties-dashboard/api"
	"github.com/azihell/properties-dashboard/metrics"
	"github.com/azihell/properties-dashboard/services"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the dashboard HTTP API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		recorder := metrics.New(reg)

		pipeline, err := services.NewPipeline(logger, recorder, cfg.PipelineOptions())
		if err != nil {
			return err
		}
		view := cfg.ViewOptions()
		if err := view.Validate(); err != nil {
			return err
		}

		handler := api.NewHandler(api.HandlerConfig{
			Pipeline:  pipeline,
			Sessions:  services.NewSessionStore(cfg.MaxSessions),
			View:      view,
			MaxUpload: cfg.MaxUploadBytes(),
			Gauge:     recorder,
			Logger:    logger,
		})
		server := api.NewServer(handler, logger,
			api.WithHost(cfg.HTTPHost),
			api.WithPort(cfg.HTTPPort),
			api.WithMetrics(reg, recorder),
		)

		logger.Info("=== propmap starting ===")
		logger.Info("Config | strategy: %s | alpha: %s | outlier ceiling: %.0f | sessions: %d",
			cfg.BinStrategy, cfg.AlphaPolicy, cfg.OutlierCeiling, cfg.MaxSessions)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return server.Run(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

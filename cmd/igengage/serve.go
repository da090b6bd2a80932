package main

import (
	"os"

	"github.com/spf13/cobra"

	"igengage/internal/server"
	"igengage/pkg/logger"
	"igengage/pkg/metrics"
)

var (
	host string
	port int
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the engagement HTTP API",
	Long: `Run the HTTP API:

  POST /api/check-engagement   {"username": "natgeo"}
  GET  /health
  GET  /metrics                Prometheus text format

Changes to engagement.precision in the config file apply without a restart.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&host, "host", "", "listen host (default from config)")
	serveCmd.Flags().IntVarP(&port, "port", "p", 0, "listen port (default 5000)")
	addEngagementFlags(serveCmd)
}

func serverFlags() map[string]interface{} {
	flags := engagementFlags()
	flags["host"] = host
	flags["port"] = port
	return flags
}

func runServe(cmd *cobra.Command, args []string) error {
	flags := serverFlags()
	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}
	log, err := setupLogger(cfg, os.Stdout)
	if err != nil {
		return err
	}
	log.WithField("version", version).Info("igengage API starting")

	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	collector := metrics.NewCollector()
	svc := newService(cfg, log, collector)
	watchConfig(ctx, svc, flags, log)

	if err := server.New(cfg.Server, svc, collector, log).Run(ctx); err != nil {
		logger.WithError(err).Error("API server failed")
		return err
	}
	return nil
}

package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"igengage/internal/assets"
	"igengage/internal/launcher"
	"igengage/internal/server"
	"igengage/pkg/metrics"
)

var warmup time.Duration

// launchCmd represents the launch command
var launchCmd = &cobra.Command{
	Use:   "launch",
	Short: "Run the API and the web front-end together",
	Long: `Start the HTTP API, wait for the warm-up delay, then start the web
front-end. Ctrl+C stops both.`,
	Args: cobra.NoArgs,
	RunE: runLaunch,
}

func init() {
	rootCmd.AddCommand(launchCmd)

	launchCmd.Flags().StringVar(&host, "host", "", "API listen host (default from config)")
	launchCmd.Flags().IntVarP(&port, "port", "p", 0, "API listen port (default 5000)")
	launchCmd.Flags().DurationVar(&warmup, "warmup", -1, "delay between starting the API and the front-end (default 3s)")
	addWebFlags(launchCmd)
	addEngagementFlags(launchCmd)
}

func runLaunch(cmd *cobra.Command, args []string) error {
	flags := serverFlags()
	for k, v := range webFlags() {
		flags[k] = v
	}
	flags["warmup"] = warmup

	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}
	log, err := setupLogger(cfg, os.Stdout)
	if err != nil {
		return err
	}
	log.WithField("version", version).Info("igengage starting")

	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	collector := metrics.NewCollector()
	svc := newService(cfg, log, collector)
	watchConfig(ctx, svc, flags, log)

	web, err := assets.NewServer(cfg.Web, log)
	if err != nil {
		return err
	}
	api := server.New(cfg.Server, svc, collector, log)

	return launcher.New(api, web, cfg.Launcher.Warmup, log).Run(ctx)
}

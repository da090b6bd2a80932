package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"igengage/pkg/config"
	"igengage/pkg/engagement"
	"igengage/pkg/logger"
	"igengage/pkg/scraper"
)

// withGlobalFlags returns the global flags plus extra command flags
func withGlobalFlags(extra map[string]interface{}) map[string]interface{} {
	flags := make(map[string]interface{}, len(extra)+2)
	if logLevel != "" {
		flags["log-level"] = logLevel
	}
	if logFormat != "" {
		flags["log-format"] = logFormat
	}
	for k, v := range extra {
		flags[k] = v
	}
	return flags
}

// loadConfig loads configuration with the global flags plus extra command flags
func loadConfig(extra map[string]interface{}) (*config.Config, error) {
	cfg, err := config.Load(configFile, withGlobalFlags(extra))
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// setupLogger builds the logger for cfg, writing to out, and installs it globally
func setupLogger(cfg *config.Config, out io.Writer) (logger.Logger, error) {
	log, err := logger.NewWithWriter(&cfg.Logging, out)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger.SetLogger(log)
	return log, nil
}

// newService wires the scraper, the calculator and the checker service
func newService(cfg *config.Config, log logger.Logger, observer engagement.Observer) *engagement.Service {
	opts := []engagement.Option{
		engagement.WithTimeout(cfg.Instagram.FetchTimeout),
		engagement.WithLogger(log),
	}
	if observer != nil {
		opts = append(opts, engagement.WithObserver(observer))
	}

	return engagement.NewService(
		scraper.New(cfg.Instagram, log),
		engagement.NewCalculator(cfg.Engagement.Precision),
		opts...,
	)
}

// signalContext is cancelled on SIGINT or SIGTERM
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// watchConfig applies precision changes from the config file until ctx ends.
// flags are the command line overrides the command was started with.
func watchConfig(ctx context.Context, svc *engagement.Service, flags map[string]interface{}, log logger.Logger) {
	path := configFile
	if path == "" {
		path = config.FindConfigFile()
	}
	if path == "" {
		return
	}

	go func() {
		err := config.Watch(ctx, path, withGlobalFlags(flags),
			func(cfg *config.Config) {
				svc.Calculator().SetPrecision(cfg.Engagement.Precision)
				log.WithFields(map[string]interface{}{
					"path":      path,
					"precision": cfg.Engagement.Precision,
				}).Info("Configuration reloaded")
			},
			func(err error) {
				log.WithError(err).Warn("Configuration reload failed")
			},
		)
		if err != nil {
			log.WithError(err).Warn("Configuration watcher stopped")
		}
	}()
}

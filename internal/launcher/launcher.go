// Package launcher runs the API and the web front-end together in one process.
package launcher

import (
	"context"
	"fmt"
	"time"

	"github.com/sourcegraph/conc/pool"

	"igengage/pkg/logger"
)

// Runner is a component that serves until its context is cancelled
type Runner interface {
	Run(ctx context.Context) error
}

// RunnerFunc adapts a function to the Runner interface
type RunnerFunc func(ctx context.Context) error

// Run calls f(ctx)
func (f RunnerFunc) Run(ctx context.Context) error { return f(ctx) }

// Launcher starts the API first and the front-end after a warm-up delay.
// When either exits, the other is stopped.
type Launcher struct {
	api    Runner
	web    Runner
	warmup time.Duration
	logger logger.Logger
}

// New creates a Launcher
func New(api, web Runner, warmup time.Duration, log logger.Logger) *Launcher {
	if log == nil {
		log = logger.GetLogger()
	}
	if warmup < 0 {
		warmup = 0
	}
	return &Launcher{
		api:    api,
		web:    web,
		warmup: warmup,
		logger: log.WithField("component", "launcher"),
	}
}

// Run blocks until ctx is cancelled or a component stops, then waits for both
// components to shut down. Errors from either component are returned joined.
func (l *Launcher) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	logger.LogComponentStart(l.logger, "launcher", map[string]interface{}{
		"warmup": l.warmup.String(),
	})

	p := pool.New().WithContext(ctx).WithCancelOnError()

	p.Go(func(ctx context.Context) error {
		defer cancel()
		if err := l.api.Run(ctx); err != nil {
			return fmt.Errorf("api: %w", err)
		}
		return nil
	})

	p.Go(func(ctx context.Context) error {
		defer cancel()

		timer := time.NewTimer(l.warmup)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return nil
		}

		l.logger.Info("Starting web front-end")
		if err := l.web.Run(ctx); err != nil {
			return fmt.Errorf("web: %w", err)
		}
		return nil
	})

	err := p.Wait()

	reason := "shutdown"
	if err != nil {
		reason = err.Error()
	}
	logger.LogComponentStop(l.logger, "launcher", reason)
	return err
}

// Package logger provides the structured logging interface used across igengage.
//
// It wraps zerolog and supports:
//   - Debug, Info, Warn, Error and Fatal levels
//   - Structured fields via WithField/WithFields and the *WithFields methods
//   - Colored console output or JSON lines (logging.format)
//   - An optional log file that always receives JSON lines
//   - A global logger for command wiring
//
// Basic Usage:
//
//	cfg := &config.LoggingConfig{Level: "info", Format: "console"}
//	if err := logger.Initialize(cfg); err != nil {
//	    return err
//	}
//
//	logger.WithField("username", "natgeo").Info("Checking engagement")
//
// Components receive a Logger explicitly and derive children from it:
//
//	log := logger.GetLogger().WithField("component", "api")
//	log.InfoWithFields("Check completed", map[string]interface{}{
//	    "followers": int64(1000),
//	    "duration":  time.Second,
//	})
//
// Tests use NewTestLogger to capture messages or NewNopLogger to discard them.
package logger

// Package config loads igengage settings.
//
// Sources are applied in this order, later ones winning:
//
//	defaults -> YAML file -> .env file / IGENGAGE_* environment -> command line flags
//
// Example:
//
//	cfg, err := config.Load("", map[string]interface{}{
//	    "port":      8080,
//	    "precision": 3,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Watch re-reads the file (and the environment) whenever it changes so a running
// server can pick up a new engagement precision without a restart.
package config

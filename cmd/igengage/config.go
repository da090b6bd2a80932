package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"igengage/pkg/config"
	"igengage/pkg/ui"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration files",
	Long: `Manage igengage configuration files.

Configuration can be loaded from:
  - Command line flags (highest priority)
  - Environment variables (IGENGAGE_*, also read from .env)
  - Configuration file
  - Default values (lowest priority)`,
}

// initCmd represents the config init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create an example configuration file",
	Long: `Create an example configuration file with all available options.

The file will be created in the current directory as '.igengage.yaml'
unless a different path is specified with the --config flag.`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

// showCmd represents the config show command
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

// validateCmd represents the config validate command
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration file",
	Args:  cobra.NoArgs,
	RunE:  runConfigValidate,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(initCmd)
	configCmd.AddCommand(showCmd)
	configCmd.AddCommand(validateCmd)
}

const exampleConfig = `# igengage configuration file
#
# Every option can also be set with an environment variable prefixed with
# IGENGAGE_, for example IGENGAGE_SERVER_PORT or IGENGAGE_PRECISION.

# HTTP API
server:
  host: "0.0.0.0"
  port: 5000
  read_timeout: 15s
  write_timeout: 30s
  idle_timeout: 60s
  shutdown_timeout: 10s
  # Expose GET /metrics
  metrics_enabled: true

# Instagram fetch settings
instagram:
  base_url: "https://www.instagram.com"
  # Leave empty to use the built-in browser user agent
  user_agent: ""
  app_id: "936619743392459"
  # Upper bound for one check, fetch included
  fetch_timeout: 15s
  # Recent posts to analyze. Range: 1-50
  post_limit: 12
  # Check the profile page for a missing account when the JSON endpoint is blocked
  html_fallback: true

# Engagement calculation
engagement:
  # Decimal places of the engagement rate. Range: 0-6
  # Reloaded while 'serve' or 'launch' is running
  precision: 2

# Web front-end
web:
  host: "0.0.0.0"
  port: 5173
  # Serve a front-end build from this directory instead of the built-in page
  dir: ""
  # Where the front-end sends checks
  api_url: "http://localhost:5000"

# 'launch' command
launcher:
  # Delay between starting the API and the front-end
  warmup: 3s

# Logging configuration
logging:
  # Log level: debug, info, warn, error, disabled
  level: "info"
  # Log format: console, json
  format: "console"
  # Log file path (optional)
  file: ""
`

func runConfigInit(cmd *cobra.Command, args []string) error {
	configPath := configFile
	if configPath == "" {
		configPath = ".igengage.yaml"
	}

	if _, err := os.Stat(configPath); err == nil {
		ui.PrintError("Configuration file already exists", configPath)
		fmt.Println("\nTo overwrite, first remove the existing file:")
		fmt.Printf("  rm %s\n", configPath)
		return errReported
	}

	if err := os.WriteFile(configPath, []byte(exampleConfig), 0644); err != nil {
		return fmt.Errorf("failed to create configuration file: %w", err)
	}

	ui.PrintSuccess("Configuration file created: " + configPath)
	fmt.Println("\nNext steps:")
	fmt.Println("1. Edit the configuration file")
	fmt.Println("2. Run 'igengage config validate' to check it")
	fmt.Println("3. Check a profile with 'igengage check <username>'")
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(nil)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to format configuration: %w", err)
	}

	fmt.Println(ui.Magenta("Current Configuration"))
	fmt.Println()
	fmt.Print(string(data))

	fmt.Println("\nConfiguration sources (in order of priority):")
	fmt.Println("1. Command line flags")
	fmt.Println("2. Environment variables (IGENGAGE_*)")
	switch path := configPath(); path {
	case "":
		fmt.Println("3. Configuration file: (none found)")
	default:
		fmt.Printf("3. Configuration file: %s\n", path)
	}
	fmt.Println("4. Default values")
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	path := configPath()
	if path == "" {
		ui.PrintError("No configuration file found", "Specify a file with --config flag")
		return errReported
	}

	ui.PrintInfo("Validating configuration", path)

	cfg, err := loadConfig(nil)
	if err != nil {
		ui.PrintError("Configuration validation failed", err.Error())
		return errReported
	}

	if cfg.Instagram.PostLimit < 3 {
		ui.PrintWarning(fmt.Sprintf("post_limit %d gives a noisy engagement rate", cfg.Instagram.PostLimit))
	}
	if !cfg.Instagram.HTMLFallback {
		ui.PrintWarning("html_fallback is off: a missing account behind a login wall reports a fetch error")
	}

	ui.PrintSuccess("Configuration is valid")

	fmt.Println("\nConfiguration summary:")
	fmt.Printf("  API address: %s\n", cfg.Server.Address())
	fmt.Printf("  Front-end address: %s\n", cfg.Web.Address())
	fmt.Printf("  Posts analyzed: %d\n", cfg.Instagram.PostLimit)
	fmt.Printf("  Fetch timeout: %s\n", cfg.Instagram.FetchTimeout)
	fmt.Printf("  Precision: %d\n", cfg.Engagement.Precision)
	fmt.Printf("  Log level: %s\n", cfg.Logging.Level)
	return nil
}

// configPath returns the config file in effect, if any
func configPath() string {
	if configFile != "" {
		return configFile
	}
	return config.FindConfigFile()
}

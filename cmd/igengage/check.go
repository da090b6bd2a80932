package main

import (
	"encoding/json"
	"os"
	"time"

	"github.com/spf13/cobra"

	"igengage/internal/server"
	"igengage/pkg/ui"
)

var (
	jsonOutput   bool
	precision    int
	postLimit    int
	fetchTimeout time.Duration
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check <username>",
	Short: "Check a profile's engagement rate once and print the result",
	Example: `  # Check a profile
  igengage check natgeo

  # Same check, printed as the HTTP API would answer it
  igengage check natgeo --json

  # Use the last 6 posts and three decimals
  igengage check @natgeo --post-limit 6 --precision 3`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().BoolVar(&jsonOutput, "json", false, "print the result as JSON")
	addEngagementFlags(checkCmd)
}

// addEngagementFlags registers the flags shared by every command that runs checks
func addEngagementFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&precision, "precision", -1, "decimal places of the engagement rate (default from config)")
	cmd.Flags().IntVar(&postLimit, "post-limit", 0, "number of recent posts to analyze (default from config)")
	cmd.Flags().DurationVar(&fetchTimeout, "fetch-timeout", 0, "timeout for a single check (default from config)")
}

func engagementFlags() map[string]interface{} {
	return map[string]interface{}{
		"precision":     precision,
		"post-limit":    postLimit,
		"fetch-timeout": fetchTimeout,
	}
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(engagementFlags())
	if err != nil {
		return err
	}

	// Results go to stdout, logs to stderr
	log, err := setupLogger(cfg, os.Stderr)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	svc := newService(cfg, log, nil)
	report, err := svc.Check(ctx, args[0])

	if jsonOutput {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err != nil {
			_ = enc.Encode(map[string]string{"error": ui.ErrorMessage(err)})
			return errReported
		}
		return enc.Encode(server.NewCheckResponse(report))
	}

	printer := ui.NewPrinter(cmd.OutOrStdout(), !noColor && isInteractive())
	if err != nil {
		printer.CheckError(err)
		return errReported
	}
	printer.Report(report, svc.Calculator().Precision())
	return nil
}

package main

import (
	"io"

	"github.com/spf13/cobra"

	"igengage/pkg/logger"
	"igengage/pkg/ui/tui"
)

// tuiCmd represents the interactive form
var tuiCmd = &cobra.Command{
	Use:   "tui [username]",
	Short: "Open the interactive engagement checker form",
	Long: `Open a terminal form with one username field. Press enter to check the
profile; the result or the error is shown below the field.

Logs are discarded unless logging.file is set, so they never draw over the form.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
	addEngagementFlags(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(engagementFlags())
	if err != nil {
		return err
	}

	var log logger.Logger
	if cfg.Logging.File == "" {
		log = logger.NewNopLogger()
		logger.SetLogger(log)
	} else if log, err = setupLogger(cfg, io.Discard); err != nil {
		return err
	}

	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	username := ""
	if len(args) > 0 {
		username = args[0]
	}

	svc := newService(cfg, log, nil)
	return tui.Run(ctx, svc, svc.Calculator().Precision(), username)
}

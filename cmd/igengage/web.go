package main

import (
	"os"

	"github.com/spf13/cobra"

	"igengage/internal/assets"
)

var (
	webPort int
	webDir  string
	apiURL  string
)

// webCmd represents the web command
var webCmd = &cobra.Command{
	Use:   "web",
	Short: "Serve the web front-end",
	Long: `Serve the browser front-end. The page posts checks to the API at --api-url.

By default the page built into the binary is served; --web-dir serves a
directory instead, falling back to its index.html for unknown paths.`,
	Args: cobra.NoArgs,
	RunE: runWeb,
}

func init() {
	rootCmd.AddCommand(webCmd)
	addWebFlags(webCmd)
}

func addWebFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&webPort, "web-port", 0, "front-end listen port (default 5173)")
	cmd.Flags().StringVar(&webDir, "web-dir", "", "serve the front-end from this directory")
	cmd.Flags().StringVar(&apiURL, "api-url", "", "API base URL used by the front-end (default http://localhost:5000)")
}

func webFlags() map[string]interface{} {
	return map[string]interface{}{
		"web-port": webPort,
		"web-dir":  webDir,
		"api-url":  apiURL,
	}
}

func runWeb(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(webFlags())
	if err != nil {
		return err
	}
	log, err := setupLogger(cfg, os.Stdout)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	srv, err := assets.NewServer(cfg.Web, log)
	if err != nil {
		return err
	}
	return srv.Run(ctx)
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/frametree/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		errors.Print(os.Stderr, diagnose(err))
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configDir string

	rootCmd := &cobra.Command{
		Use:   "frametree",
		Short: "Build and inspect component frame trees",
		Long: `frametree builds the render frames of components described by YAML
fixtures, binding markup attributes to declared component parameters.

  • render a fixture to text, JSON, or the binary frame format
  • store rendered frames as snapshots on disk or in S3
  • serve a live inspector over HTTP and WebSocket`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&configDir, "config", "", "Directory containing frametree.json (default: nearest above the working directory)")

	rootCmd.AddCommand(
		renderCmd(&configDir),
		serveCmd(&configDir),
		catalogCmd(),
		versionCmd(),
	)
	return rootCmd
}

// success prints a success message.
func success(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.ErrOrStderr(), "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.ErrOrStderr(), "  %s\n", fmt.Sprintf(format, args...))
}

package cmd

import (
	"fmt"
	"os"

	"github.com/mj1618/i3layout/internal/config"
	"github.com/mj1618/i3layout/internal/logging"
	"github.com/mj1618/i3layout/internal/output"
	"github.com/mj1618/i3layout/internal/version"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:   "i3layout",
	Short: "Build i3 workspace layouts and start the applications that fill them",
	Long: `i3layout turns session files into i3 layouts. Each window placeholder knows
which application fills it, so a session can both arrange the workspaces
(append_layout) and launch the programs, directly or as a bash script.`,
	SilenceUsage: true,
}

var (
	settings = config.Default()
	logger   = zap.NewNop()
)

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version.Version, version.Commit, version.BuildDate)
	rootCmd.PersistentFlags().String("format", "", "Output format: yaml, json")
	rootCmd.PersistentFlags().Bool("pretty", false, "Pretty-print JSON output")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error (default from I3LAYOUT_LOG_LEVEL)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Shorthand for --log-level debug")
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		s, err := config.Load()
		if err != nil {
			return err
		}
		settings = s

		format, _ := rootCmd.PersistentFlags().GetString("format")
		f, err := output.ParseFormat(format)
		if err != nil {
			return err
		}
		output.OutputFormat = f
		output.PrettyOutput, _ = rootCmd.PersistentFlags().GetBool("pretty")

		level := settings.LogLevel
		if l, _ := rootCmd.PersistentFlags().GetString("log-level"); l != "" {
			level = l
		}
		if verbose, _ := rootCmd.PersistentFlags().GetBool("verbose"); verbose {
			level = "debug"
		}
		log, err := logging.New(logging.Config{Level: level, Development: settings.LogDev})
		if err != nil {
			return err
		}
		logger = log
		return nil
	}
	rootCmd.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	}
}

package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/getmockd/httpstub/pkg/logging"
	"github.com/spf13/cobra"
)

var (
	// Persistent flags available to all subcommands
	jsonOutput bool
	logLevel   string
	logFormat  string

	// Version is injected during build
	Version = "dev"
	// Commit is injected during build
	Commit = "none"
	// BuildDate is injected during build
	BuildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "httpstub",
	Short: "httpstub checks and exercises HTTP stub fixtures",
	Long: `httpstub works with the YAML and JSON expectation fixtures that tests load
into a stub.Mock. It validates fixtures, lists the expectations they register
and replays single calls against them without touching the network.

Fixture arguments are glob patterns; ** matches directories recursively.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. Called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// newLogger builds the command logger from the persistent flags.
// Logs go to the command's stderr so --json output stays parseable.
func newLogger(cmd *cobra.Command) *slog.Logger {
	return logging.New(logging.Config{
		Level:  logging.ParseLevel(logLevel),
		Format: logging.ParseFormat(logFormat),
		Output: cmd.ErrOrStderr(),
	})
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output command results in JSON format")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", envOr(logging.EnvLevel, "warn"), "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", envOr(logging.EnvFormat, string(logging.FormatText)), "Log format: text or json")
}

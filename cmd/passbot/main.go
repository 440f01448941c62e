// passbot builds targeted candidate dictionaries for authorized
// security testing from a small seed profile, with crash-safe exact
// resume. The generation core lives under internal/; this package is
// the cobra surface plus the live dashboard.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global flags
	verbose bool

	// Logger, built in PersistentPreRunE
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "passbot",
	Short: "passbot - phased personal dictionary generator",
	Long: `passbot generates candidate-string dictionaries for authorized
security testing by combining seed words, number fragments and symbols
through seven deterministic combination phases.

Runs are resumable: progress is checkpointed continuously, and an
interrupted run picks up at the exact candidate where it stopped,
without ever emitting a duplicate line.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := zap.NewProductionConfig()
		cfg.Encoding = "console"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		if verbose {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = cfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(estimateCmd)
	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(profileCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

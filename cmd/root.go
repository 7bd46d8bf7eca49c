package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "scanpipe",
	Short: "Security scan result normalization and scoring pipeline",
	Long: `Scanpipe ingests raw security tool results (sqlmap, nuclei, nikto,
hydra, nmap and friends), normalizes them into canonical vulnerability
records with deterministic risk scoring, aggregates them, and ships them to
an OpenSearch-compatible dashboard sink.`,
}

var DebugMode bool

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

// newLogger builds the diagnostics logger honoring --debug.
func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if DebugMode {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&DebugMode, "debug", false, "Enable debug logging")
}

/**
 * kreuzbergo-cli - single-shot local extraction
 *
 * A thin command-line wrapper around the pipeline driver, for running one
 * document through extraction without standing up a queue/worker. Modeled
 * on a cobra root command: global flags for config/log level, subcommands
 * for the actual work.
 */
package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	cfgDir   string
	logLevel string
	version  = "0.1.0"
)

var rootCmd = &cobra.Command{
	Use:     "kreuzbergo-cli",
	Version: version,
	Short:   "Extract text, tables, and structure from a single document",
	Long: `kreuzbergo-cli runs one document through the extraction pipeline:
MIME detection, format-specific extraction, OCR (when the document has no
text layer or --force-ocr is set), chunking, and output-format conversion.

It does not talk to a queue or a database - for batch/service use, run the
kreuzbergo worker instead.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupLogging()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgDir, "config-dir", ".", "directory to search for kreuzberg.toml (walks upward)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
}

func setupLogging() error {
	switch logLevel {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	return nil
}

func main() {
	Execute()
}

// Package cmd contains the guidewise CLI: matching user problems against the
// guide corpus, running the discovery pipeline, and inspecting the review
// queue. Following the pattern of standard Go CLI tools, all application
// logic lives here and main.go stays a minimal entry point.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/guidewise/guidewise/internal/config"
	"github.com/guidewise/guidewise/internal/log"
)

var rootCmd = &cobra.Command{
	Use:   "guidewise",
	Short: "Troubleshooting guide matching and discovery",
	Long: `Guidewise matches user problem descriptions against a corpus of
troubleshooting guides, and discovers new guides by searching the web,
generating drafts with an AI model, and queueing them for human review.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// setup loads configuration and builds the logger shared by all commands.
// Logs go to stderr so command output on stdout stays parseable.
func setup() (*config.Config, log.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("loading configuration: %w", err)
	}

	logger := log.New(log.Config{
		Level: logLevel(),
		JSON:  os.Getenv("GUIDEWISE_LOG_JSON") != "",
	})
	return cfg, logger, nil
}

func logLevel() slog.Level {
	if os.Getenv("DEBUG") != "" {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

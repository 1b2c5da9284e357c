package commands

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "cubo",
	Short: "Avatar animation and chat engine",
	Long: `cubo - an animated AI companion engine.

Avatars load their skeletons and animation clips from a configurable
asset source, chat replies come from an OpenRouter-compatible model,
and bracketed tokens in the conversation drive the avatars' animations.

Commands:
  run      Interactive chat session in the terminal
  serve    WebSocket chat server for external UIs
  version  Show version information

Examples:
  # Chat with the default two-avatar setup
  OPENROUTER_API_KEY=sk-... cubo run --config cubo.yaml

  # Serve the chat endpoint for a web frontend
  cubo serve --config cubo.yaml`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "f", "", "path to the YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// newLogger builds the process logger. Verbose mode enables debug level.
func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

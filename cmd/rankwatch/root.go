package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for rankwatch.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rankwatch",
		Short: "Track local search rankings through grounded LLM answers",
		Long: `rankwatch tracks where a website ranks for a list of keywords in a
service area. It asks a Gemini model with Google Search grounding for the
current results, recovers the JSON answer even when the model wraps it in
prose, and keeps a per-keyword history so that day-to-day movement can be
reported and exported.

The Gemini API key is read from GEMINI_API_KEY (or RANKWATCH_GEMINI_API_KEY,
or GOOGLE_API_KEY). A .env file in the current directory is loaded first.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().StringP("config", "c", "",
		"Configuration file path (default: .rankwatch in current or home directory)")
	cmd.PersistentFlags().String("db-dir", "",
		"Directory of the rank history database (default: XDG data directory)")

	cmd.AddCommand(NewCheckCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewExportCmd())
	cmd.AddCommand(NewClearCmd())
	cmd.AddCommand(NewWatchCmd())
	cmd.AddCommand(NewExtractCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

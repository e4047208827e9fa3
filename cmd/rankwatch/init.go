package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nao1215/rankwatch/internal/config"
)

// configTemplate is written by `rankwatch init`.
const configTemplate = `# rankwatch configuration file
#
# Values in "defaults" apply to every project. A project overrides any value
# it sets. Select a project with --project; its name is also the history
# session it is stored in.
#
# The API key is never read from this file. Set GEMINI_API_KEY in the
# environment or in a .env file next to this one.

defaults:
  # Service area the searches are made from.
  location: "Austin, TX"

  # Gemini model.
  # model: gemini-2.5-flash

  # Sampling temperature. Low values give more stable answers.
  # temperature: 0.2

  # Pause between two keyword checks.
  requestDelay: 2s

  # Cron schedule used by 'rankwatch watch' (minute hour day month weekday).
  schedule: "0 8 * * *"

  # JSON repairs to skip when reading model answers. string-newlines is a
  # heuristic and can be turned off if it mangles answers.
  # disableRepairs: [string-newlines]

projects:
  # example:
  #   domain: example-restoration.com
  #   location: "Dallas, TX"
  #   keywords:
  #     - flood cleanup
  #     - water damage restoration
  #     - mold removal
`

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new rankwatch configuration file",
		Long: `Initialize creates a new .rankwatch configuration file in the current directory.

The generated file includes:
- Default location, delay and schedule
- A commented example project
- Documentation for all available options

Examples:
  # Create .rankwatch in current directory
  rankwatch init

  # Create config file at a specific path
  rankwatch init -o myconfig.yaml

  # Force overwrite existing file
  rankwatch init -f`,
		Args: cobra.NoArgs,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", config.DefaultConfigFile,
		"Output file path for the configuration")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing configuration file")

	return cmd
}

// runInitCmd executes the init command.
func runInitCmd(cmd *cobra.Command, _ []string) error {
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	if !force {
		if _, err := os.Stat(outputPath); err == nil {
			return fmt.Errorf("configuration file already exists: %s (use -f to overwrite)", outputPath)
		}
	}

	dir := filepath.Dir(outputPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(outputPath, []byte(configTemplate), 0600); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created configuration file: %s\n", outputPath)
	fmt.Fprintln(out, "\nEdit this file to add your projects:")
	fmt.Fprintln(out, "  - Domain and service area")
	fmt.Fprintln(out, "  - Keywords to track")
	fmt.Fprintln(out, "  - Schedule for 'rankwatch watch'")

	return nil
}

package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

// NewClearCmd creates the clear command.
func NewClearCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete the stored history of a session",
		Long: `Clear deletes the rank history and the run log of a session. This
cannot be undone, so --force is required.

Examples:
  rankwatch clear -p acme --force`,
		Args: cobra.NoArgs,
		RunE: runClearCmd,
	}

	addProjectFlag(cmd)
	cmd.Flags().BoolP("force", "f", false,
		"Confirm the deletion")

	return cmd
}

// runClearCmd executes the clear command.
func runClearCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd, nil)
	if err != nil {
		return err
	}
	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}
	if !force {
		return fmt.Errorf("refusing to delete the history of session %q without --force", cfg.SessionID)
	}

	db, err := openStore(cfg, false)
	if errors.Is(err, errNoHistory) {
		fmt.Fprintf(cmd.OutOrStdout(), "Nothing to clear for session %q\n", cfg.SessionID)
		return nil
	}
	if err != nil {
		return err
	}
	defer db.Close()

	deleted, err := db.ClearSession(cmd.Context(), cfg.SessionID)
	if err != nil {
		return fmt.Errorf("failed to clear session %q: %w", cfg.SessionID, err)
	}
	if !deleted {
		fmt.Fprintf(cmd.OutOrStdout(), "Nothing to clear for session %q\n", cfg.SessionID)
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Cleared the history of session %q\n", cfg.SessionID)
	return nil
}

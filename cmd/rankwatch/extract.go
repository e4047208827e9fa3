package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nao1215/rankwatch/internal/config"
	"github.com/nao1215/rankwatch/internal/extract"
)

// NewExtractCmd creates the extract command.
func NewExtractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract [file]",
		Short: "Recover JSON from a model answer",
		Long: `Extract runs the JSON recovery used on model answers against a file,
or stdin when no file is given, and prints the recovered value.

It is a debugging aid: paste an answer that failed to parse and see which
strategy recovers it and which repairs were applied.

Examples:
  rankwatch extract answer.txt
  pbpaste | rankwatch extract
  rankwatch extract -q answer.txt | jq .position
  rankwatch extract --no-repair string-newlines answer.txt`,
		Args: cobra.MaximumNArgs(1),
		RunE: runExtractCmd,
	}

	cmd.Flags().BoolP("quiet", "q", false,
		"Print only the recovered JSON")
	addNoRepairFlag(cmd)

	return cmd
}

// runExtractCmd executes the extract command.
func runExtractCmd(cmd *cobra.Command, args []string) error {
	quiet, err := cmd.Flags().GetBool("quiet")
	if err != nil {
		return err
	}
	disabled, err := cmd.Flags().GetStringSlice("no-repair")
	if err != nil {
		return err
	}
	for _, name := range disabled {
		if !extract.IsRepair(name) {
			return fmt.Errorf("%w: %q", config.ErrUnknownRepair, name)
		}
	}

	var input io.Reader = cmd.InOrStdin()
	if len(args) > 0 {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", args[0], err)
		}
		defer f.Close()
		input = f
	}
	data, err := io.ReadAll(input)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	logger := setupLogger(getVerboseFlag(cmd))
	res, err := extract.Extract(string(data),
		extract.WithLogger(logger),
		extract.WithoutRepair(disabled...),
	)
	if err != nil {
		return err
	}
	return printExtraction(cmd.OutOrStdout(), res, quiet)
}

// printExtraction prints the strategy, the repairs and the value of res.
func printExtraction(out io.Writer, res *extract.Result, quiet bool) error {
	pretty, err := json.MarshalIndent(res.Value, "", "  ")
	if err != nil {
		return err
	}
	if !quiet {
		fmt.Fprintf(out, "Strategy: %s\n", res.Strategy)
		if len(res.Repairs) > 0 {
			fmt.Fprintf(out, "Repairs:  %s\n", strings.Join(res.Repairs, ", "))
		}
		fmt.Fprintln(out)
	}
	fmt.Fprintln(out, string(pretty))
	return nil
}

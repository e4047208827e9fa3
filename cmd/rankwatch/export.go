package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nao1215/rankwatch/internal/database"
	"github.com/nao1215/rankwatch/internal/report"
)

// Export formats.
const (
	formatCSV      = "csv"
	formatJSON     = "json"
	formatMarkdown = "markdown"
	formatChart    = "chart"
)

var exportFormats = []string{formatCSV, formatJSON, formatMarkdown, formatChart}

// NewExportCmd creates the export command.
func NewExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the current rankings",
		Long: `Export writes the latest stored rankings of a session without running
any check.

Formats:
  csv       keyword,current_rank,change,check_date (one row per keyword)
  json      the full report, summary included
  markdown  a report with a position distribution chart
  chart     one CSV row per date with a column per keyword

Examples:
  rankwatch export -p acme -f csv -o acme.csv
  rankwatch export -p acme -f markdown > acme.md`,
		Args: cobra.NoArgs,
		RunE: runExportCmd,
	}

	addProjectFlag(cmd)
	cmd.Flags().StringP("format", "f", formatCSV,
		"Export format: "+strings.Join(exportFormats, ", "))
	cmd.Flags().StringP("output", "o", "",
		"Write to specified file path instead of stdout")

	return cmd
}

// runExportCmd executes the export command.
func runExportCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd, nil)
	if err != nil {
		return err
	}
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	format = strings.ToLower(format)
	if !isExportFormat(format) {
		return fmt.Errorf("unknown export format %q (use one of: %s)", format, strings.Join(exportFormats, ", "))
	}

	db, err := openStore(cfg, false)
	if err != nil {
		return err
	}
	defer db.Close()

	output, closeOutput, err := openOutput(cfg.ReportFile, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	if err := exportSession(cmd.Context(), db, cfg.SessionID, format, output); err != nil {
		_ = closeOutput() //nolint:errcheck // The export error is more useful
		return err
	}
	return closeOutput()
}

func isExportFormat(format string) bool {
	for _, f := range exportFormats {
		if f == format {
			return true
		}
	}
	return false
}

// exportSession writes the stored session in format to out.
func exportSession(ctx context.Context, db *database.RankDB, sessionID, format string, out io.Writer) error {
	session, err := db.LoadSession(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}
	if session == nil {
		return fmt.Errorf("session %q: %w", sessionID, errNoHistory)
	}

	if format == formatChart {
		_, err := report.NewChartWriter(out, report.ChartCSV).WriteHistory(session.ActiveHistory())
		return err
	}

	var writer report.Writer
	switch format {
	case formatJSON:
		writer = report.NewJSONWriter(out, report.WithPrettyPrint())
	case formatMarkdown:
		writer = report.NewMarkdownWriter(out)
	default:
		writer = report.NewCSVWriter(out)
	}
	_, err = writer.Write(report.FromSession(session))
	return err
}

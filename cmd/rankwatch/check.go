package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/rankwatch/internal/config"
	"github.com/nao1215/rankwatch/internal/model"
	"github.com/nao1215/rankwatch/internal/report"
	"github.com/nao1215/rankwatch/internal/tracker"
)

// NewCheckCmd creates the check command.
func NewCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [keyword...]",
		Short: "Check the current rankings of a site",
		Long: `Check asks the model where the site ranks for each keyword, compares
the answer with the stored history and prints a report.

Keywords are checked one at a time with a short pause in between. A keyword
whose check fails is reported as an error and does not stop the run. Press
Ctrl+C to stop early; the report then covers the keywords checked so far.

Examples:
  # Check two keywords
  rankwatch check -d acme-restoration.com -l "Austin, TX" "flood cleanup" "water damage"

  # Check the keywords of a project from the configuration file
  rankwatch check -p acme

  # Write a Markdown report; the terminal still gets the plain table
  rankwatch check -p acme -m -o reports/acme.md

Configuration file (.rankwatch) example:
  defaults:
    location: "Austin, TX"
    requestDelay: 3s
  projects:
    acme:
      domain: acme-restoration.com
      keywords:
        - flood cleanup
        - water damage restoration`,
		Args: cobra.ArbitraryArgs,
		RunE: runCheckCmd,
	}

	addTargetFlags(cmd)
	addReportFlags(cmd)

	return cmd
}

// runCheckCmd executes the check command.
func runCheckCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cfg.Verbose)
	slog.SetDefault(logger)

	ctx, stop := withSignalCancel(cmd.Context(), logger)
	defer stop()

	db, err := openStore(cfg, true)
	if err != nil {
		return err
	}
	defer db.Close()

	checker, err := newChecker(ctx, cfg, logger)
	if err != nil {
		return err
	}

	batch, runErr := runCheck(ctx, cfg, checker, db, cmd.ErrOrStderr(), logger)
	if batch == nil {
		return runErr
	}
	if err := outputReport(cfg, report.FromBatch(batch), cmd.OutOrStdout()); err != nil {
		return err
	}
	return runErr
}

// newTracker creates the tracker of one configured run.
func newTracker(cfg *config.Config, checker tracker.Checker, store tracker.Store, logger *slog.Logger) *tracker.Tracker {
	return tracker.New(checker, store,
		tracker.WithLogger(logger),
		tracker.WithRequestDelay(cfg.RequestDelay),
		tracker.WithPersistEachKeyword(cfg.PersistEachKeyword),
		tracker.WithHistoryLimit(cfg.HistoryLimit),
	)
}

// runCheck runs one batch and prints progress to progressOut. On
// cancellation it returns the partial batch together with the error.
func runCheck(ctx context.Context, cfg *config.Config, checker tracker.Checker, store tracker.Store, progressOut io.Writer, logger *slog.Logger) (*model.BatchResult, error) {
	keywords := model.NormalizeKeywords(cfg.Keywords)
	fmt.Fprintf(progressOut, "Checking %d keywords for %s...\n", len(keywords), cfg.Domain)
	startTime := time.Now()

	t := newTracker(cfg, checker, store, logger)
	batch, err := t.UpdateRankings(ctx, tracker.UpdateRequest{
		SessionID: cfg.SessionID,
		Domain:    cfg.Domain,
		Location:  cfg.Location,
		Keywords:  keywords,
	}, func(done, total int) {
		fmt.Fprintf(progressOut, "[%d/%d] %s\n", done, total, keywords[done-1])
	})
	if err != nil {
		return batch, err
	}

	fmt.Fprintf(progressOut, "Check completed in %s\n\n", time.Since(startTime).Round(time.Millisecond))
	return batch, nil
}

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nao1215/rankwatch/internal/database"
	"github.com/nao1215/rankwatch/internal/model"
	"github.com/nao1215/rankwatch/internal/report"
)

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [keyword]",
		Short: "Show stored rank history",
		Long: `History prints the stored rankings without running any check.

Without a keyword it lists the latest position of every tracked keyword.
With a keyword it prints that keyword's series, oldest first.

Examples:
  # Latest rankings of the default session
  rankwatch history

  # Series of one keyword of a project
  rankwatch history -p acme "flood cleanup"

  # Chart rows for a spreadsheet, or as JSON for a charting script
  rankwatch history -p acme --chart > acme.csv
  rankwatch history -p acme --chart --json > acme.json

  # Every stored session
  rankwatch history --sessions

  # Last five runs
  rankwatch history -p acme -r 5`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	addProjectFlag(cmd)
	cmd.Flags().IntP("runs", "r", 0,
		"Show the last N runs instead of the rankings")
	cmd.Flags().Bool("chart", false,
		"Print one CSV row per date with a column per keyword")
	cmd.Flags().BoolP("json", "j", false,
		"Print the history as JSON")
	cmd.Flags().BoolP("all", "a", false,
		"Include keywords that are no longer tracked")
	cmd.Flags().BoolP("sessions", "s", false,
		"List the stored sessions instead of one session's history")

	return cmd
}

// historyOptions are the display flags of the history command.
type historyOptions struct {
	keyword  string
	runs     int
	chart    bool
	json     bool
	all      bool
	sessions bool
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, nil)
	if err != nil {
		return err
	}

	var opts historyOptions
	if len(args) > 0 {
		opts.keyword = model.NormalizeKeyword(args[0])
	}
	if opts.runs, err = cmd.Flags().GetInt("runs"); err != nil {
		return err
	}
	if opts.chart, err = cmd.Flags().GetBool("chart"); err != nil {
		return err
	}
	if opts.json, err = cmd.Flags().GetBool("json"); err != nil {
		return err
	}
	if opts.all, err = cmd.Flags().GetBool("all"); err != nil {
		return err
	}
	if opts.sessions, err = cmd.Flags().GetBool("sessions"); err != nil {
		return err
	}

	db, err := openStore(cfg, false)
	if err != nil {
		return err
	}
	defer db.Close()

	return showHistory(cmd.Context(), db, cfg.SessionID, opts, cmd.OutOrStdout())
}

// showHistory prints the history of a session according to opts.
func showHistory(ctx context.Context, db *database.RankDB, sessionID string, opts historyOptions, out io.Writer) error {
	if opts.sessions {
		return showSessions(ctx, db, out)
	}
	if opts.runs > 0 {
		return showRuns(ctx, db, sessionID, opts.runs, out)
	}

	session, err := db.LoadSession(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}
	if session == nil {
		return fmt.Errorf("session %q: %w", sessionID, errNoHistory)
	}

	history := session.ActiveHistory()
	if opts.all {
		history = session.History
	}
	if opts.keyword != "" {
		series, ok := session.History[opts.keyword]
		if !ok {
			return fmt.Errorf("no history for keyword %q in session %q", opts.keyword, sessionID)
		}
		history = map[string][]model.RankPoint{opts.keyword: series}
	}

	switch {
	case opts.chart:
		format := report.ChartCSV
		if opts.json {
			format = report.ChartJSON
		}
		_, err := report.NewChartWriter(out, format).WriteHistory(history)
		return err
	case opts.json:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(history)
	case opts.keyword != "":
		printSeries(out, opts.keyword, history[opts.keyword])
		return nil
	default:
		printRankings(out, session, opts.all)
		return nil
	}
}

// printRankings lists the latest position of every tracked keyword.
func printRankings(out io.Writer, session *model.Session, all bool) {
	fmt.Fprintf(out, "Rankings for %s", session.Domain)
	if session.Location != "" {
		fmt.Fprintf(out, " in %s", session.Location)
	}
	fmt.Fprintln(out)
	if !session.LastChecked.IsZero() {
		fmt.Fprintf(out, "Last checked: %s\n", session.LastChecked.Format("2006-01-02 15:04"))
	}
	fmt.Fprintln(out)

	fmt.Fprintf(out, "  %-40s  %-10s  %-8s  %s\n", "Keyword", "Position", "Change", "Checked")
	fmt.Fprintln(out, "  "+strings.Repeat("-", 72))
	for _, r := range session.CurrentRankings() {
		pos := positionLabel(r.Position)
		if r.CheckedDate == "" {
			pos = "-"
		}
		fmt.Fprintf(out, "  %-40s  %-10s  %-8s  %s\n",
			r.Keyword, pos, changeLabel(r.Change), dateLabel(r.CheckedDate))
	}

	if stale := session.StaleKeywords(); len(stale) > 0 {
		if !all {
			fmt.Fprintf(out, "\nNo longer tracked: %d (use --all to show them)\n", len(stale))
			return
		}
		fmt.Fprintln(out, "\nNo longer tracked:")
		for _, kw := range stale {
			fmt.Fprintf(out, "  %-40s  %s\n", kw, positionLabel(model.LatestPosition(session.History[kw])))
		}
	}
}

// printSeries prints one keyword's points, oldest first.
func printSeries(out io.Writer, keyword string, series []model.RankPoint) {
	fmt.Fprintf(out, "History for %q (%d points):\n\n", keyword, len(series))
	for _, p := range series {
		fmt.Fprintf(out, "  %s  %s\n", p.Date, positionLabel(p.Position))
	}
}

// showSessions lists every stored session.
func showSessions(ctx context.Context, db *database.RankDB, out io.Writer) error {
	sessions, err := db.ListSessions(ctx)
	if err != nil {
		return err
	}
	if len(sessions) == 0 {
		fmt.Fprintln(out, "No sessions stored")
		return nil
	}

	fmt.Fprintf(out, "Sessions (%d):\n\n", len(sessions))
	fmt.Fprintf(out, "  %-20s  %-40s  %s\n", "Session", "Domain", "Updated")
	fmt.Fprintln(out, "  "+strings.Repeat("-", 80))
	for _, s := range sessions {
		fmt.Fprintf(out, "  %-20s  %-40s  %s\n", s.ID, s.Domain, s.UpdatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

// showRuns prints the most recent runs of a session.
func showRuns(ctx context.Context, db *database.RankDB, sessionID string, limit int, out io.Writer) error {
	runs, err := db.ListRuns(ctx, sessionID, limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintf(out, "No runs recorded for session %q\n", sessionID)
		return nil
	}

	fmt.Fprintf(out, "Runs for session %q (%d):\n\n", sessionID, len(runs))
	fmt.Fprintf(out, "  %-20s  %-10s  %-8s  %-7s  %s\n", "Started", "State", "Checked", "Failed", "Avg position")
	fmt.Fprintln(out, "  "+strings.Repeat("-", 64))
	for _, run := range runs {
		fmt.Fprintf(out, "  %-20s  %-10s  %-8d  %-7d  %.1f\n",
			run.StartedAt.Format("2006-01-02 15:04:05"), run.State, run.Total, run.Failed, run.Summary.AveragePosition)
	}
	return nil
}

func positionLabel(pos *int) string {
	if pos == nil {
		return "not found"
	}
	return fmt.Sprintf("#%d", *pos)
}

func changeLabel(change *int) string {
	switch {
	case change == nil:
		return "-"
	case *change == model.ChangeNewlyRanked:
		return "new"
	case *change == model.ChangeDroppedOut:
		return "lost"
	case *change > 0:
		return fmt.Sprintf("+%d", *change)
	default:
		return fmt.Sprintf("%d", *change)
	}
}

func dateLabel(date string) string {
	if date == "" {
		return "never"
	}
	return date
}

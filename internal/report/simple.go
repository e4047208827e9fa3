package report

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

const (
	lineWidth    = 70
	keywordWidth = 34
)

// SimpleWriter outputs human-readable text reports for the terminal.
type SimpleWriter struct {
	baseWriter

	// showCompetitors lists competitors under each keyword.
	showCompetitors bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithCompetitors lists the competitors seen for each keyword.
func WithCompetitors(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showCompetitors = show
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the report as text.
func (w *SimpleWriter) Write(r *Report) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, r)
	w.writeRankings(&sb, r)
	w.writeSummary(&sb, r)
	sb.WriteString(strings.Repeat("=", lineWidth))
	sb.WriteString("\n")

	return io.WriteString(w.output, sb.String())
}

func (w *SimpleWriter) writeHeader(sb *strings.Builder, r *Report) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", lineWidth))
	sb.WriteString("\n")
	sb.WriteString("                          RANKWATCH REPORT\n")
	sb.WriteString(strings.Repeat("=", lineWidth))
	sb.WriteString("\n\n")

	fmt.Fprintf(sb, "Domain:    %s\n", r.Domain)
	if r.Location != "" {
		fmt.Fprintf(sb, "Location:  %s\n", r.Location)
	}
	if !r.GeneratedAt.IsZero() {
		fmt.Fprintf(sb, "Checked:   %s\n", r.GeneratedAt.Format("2006-01-02 15:04:05 MST"))
	}
	fmt.Fprintf(sb, "Status:    %s\n\n", r.Status())
}

func (w *SimpleWriter) writeRankings(sb *strings.Builder, r *Report) {
	section(sb, "RANKINGS")

	if len(r.Results) == 0 {
		sb.WriteString("  No keywords tracked\n\n")
		return
	}

	fmt.Fprintf(sb, "  %s %9s %7s  %s\n", pad("KEYWORD", keywordWidth), "POSITION", "CHANGE", "TREND")
	for _, res := range r.Results {
		fmt.Fprintf(sb, "  %s %9s %7s  %s\n",
			pad(truncateString(res.Keyword, keywordWidth), keywordWidth),
			formatPosition(res),
			formatChange(res),
			res.Trend.Symbol(),
		)
		if res.Failed() {
			fmt.Fprintf(sb, "      error: %s\n", res.Error)
		}
		if w.showCompetitors {
			for _, c := range res.Competitors {
				pos := "-"
				if c.Position != nil {
					pos = fmt.Sprintf("#%d", *c.Position)
				}
				fmt.Fprintf(sb, "      %4s %s\n", pos, c.Domain)
			}
		}
	}
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeSummary(sb *strings.Builder, r *Report) {
	section(sb, "SUMMARY")

	s := r.Summary
	fmt.Fprintf(sb, "  Keywords:          %d\n", s.Total)
	fmt.Fprintf(sb, "  Top 3:             %d\n", s.Top3)
	fmt.Fprintf(sb, "  Top 10:            %d\n", s.Top10)
	fmt.Fprintf(sb, "  Not found:         %d\n", s.NotFound)
	fmt.Fprintf(sb, "  Average position:  %.1f\n", s.AveragePosition)
	fmt.Fprintf(sb, "  Biggest gainer:    %s\n", formatMover(s.BiggestGainer))
	fmt.Fprintf(sb, "  Biggest loser:     %s\n", formatMover(s.BiggestLoser))
	if r.Failed > 0 {
		fmt.Fprintf(sb, "  Failed checks:     %d\n", r.Failed)
	}
	sb.WriteString("\n")
}

func section(sb *strings.Builder, title string) {
	sb.WriteString(strings.Repeat("-", lineWidth))
	sb.WriteString("\n")
	sb.WriteString(title)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", lineWidth))
	sb.WriteString("\n\n")
}

// pad right-pads s with spaces to width runes.
func pad(s string, width int) string {
	if n := utf8.RuneCountInString(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}

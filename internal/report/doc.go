// Package report renders rank results.
//
// Writers for the whole report:
//   - SimpleWriter: plain text for the terminal
//   - MarkdownWriter: Markdown with a mermaid pie chart of the position
//     distribution
//   - JSONWriter: the report as JSON for other tools
//   - CSVWriter: one row per keyword (keyword, current_rank, change,
//     check_date)
//
// ChartWriter is separate: it writes the pivoted history (one row per date,
// one column per keyword) that charting tools consume.
//
// Report data lives in the model package; a Report is built from a run
// with FromBatch or from stored history with FromSession.
package report

package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/rankwatch/internal/model"
)

// MarkdownWriter outputs reports in Markdown for sharing with clients.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the report in Markdown.
func (w *MarkdownWriter) Write(r *Report) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, r)
	w.writeSummary(md, r)
	w.writeRankings(md, r)
	w.writeCompetitors(md, r)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, r *Report) {
	md.H1("Rank Report")
	md.PlainText("")

	rows := [][]string{
		{"Domain", "`" + r.Domain + "`"},
	}
	if r.Location != "" {
		rows = append(rows, []string{"Location", r.Location})
	}
	if !r.GeneratedAt.IsZero() {
		rows = append(rows, []string{"Checked", r.GeneratedAt.Format("2006-01-02 15:04:05 MST")})
	}
	rows = append(rows, []string{"Status", r.Status()})

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, r *Report) {
	s := r.Summary

	md.H2("Summary")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Keywords", strconv.Itoa(s.Total)},
			{"Top 3", strconv.Itoa(s.Top3)},
			{"Top 10", strconv.Itoa(s.Top10)},
			{"Not found", strconv.Itoa(s.NotFound)},
			{"Average position", fmt.Sprintf("%.1f", s.AveragePosition)},
			{"Biggest gainer", formatMover(s.BiggestGainer)},
			{"Biggest loser", formatMover(s.BiggestLoser)},
		},
	})
	md.PlainText("")

	if s.Total > 0 {
		w.writePieChart(md, r)
	}
	w.writeAlert(md, r)
}

// writePieChart writes a mermaid pie chart of the position distribution.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, r *Report) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Position Distribution"),
		piechart.WithShowData(true),
	)
	for _, b := range model.Distribution(r.Results) {
		if b.Count > 0 {
			chart.LabelAndIntValue(b.Label, uint64(b.Count))
		}
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, r *Report) {
	s := r.Summary
	switch {
	case r.Cancelled:
		md.Warningf("The run was cancelled. %d keyword(s) were checked before it stopped.", len(r.Results))
	case r.Failed > 0:
		md.Cautionf("%d check(s) failed. Their keywords are shown without a position.", r.Failed)
	case s.BiggestLoser != nil:
		md.Importantf("%s lost ground (%s).", s.BiggestLoser.Keyword, formatMover(s.BiggestLoser))
	case s.Top10 == s.Total && s.Total > 0:
		md.Tip("Every tracked keyword ranks in the top 10.")
	default:
		md.Note("No keyword lost ground since the previous check.")
	}
	md.PlainText("")
}

func (w *MarkdownWriter) writeRankings(md *markdown.Markdown, r *Report) {
	md.H2("Rankings")
	md.PlainText("")

	if len(r.Results) == 0 {
		md.PlainText("No keywords tracked.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(r.Results))
	for i, res := range r.Results {
		url := res.URL
		if url == "" {
			url = "-"
		}
		date := res.CheckedDate
		if date == "" {
			date = "-"
		}
		rows[i] = []string{
			res.Keyword,
			formatPosition(res),
			formatChange(res),
			res.Trend.Symbol(),
			date,
			truncateString(url, 60),
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Keyword", "Position", "Change", "Trend", "Checked", "URL"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeCompetitors lists, per keyword, the other sites seen ranking.
func (w *MarkdownWriter) writeCompetitors(md *markdown.Markdown, r *Report) {
	var withCompetitors []model.KeywordResult
	for _, res := range r.Results {
		if len(res.Competitors) > 0 {
			withCompetitors = append(withCompetitors, res)
		}
	}
	if len(withCompetitors) == 0 {
		return
	}

	md.H2("Competitors")
	md.PlainText("")
	for _, res := range withCompetitors {
		items := make([]string, len(res.Competitors))
		for i, c := range res.Competitors {
			pos := "not ranked"
			if c.Position != nil {
				pos = "#" + strconv.Itoa(*c.Position)
			}
			items[i] = fmt.Sprintf("%s %s", pos, c.Domain)
		}
		md.H3(res.Keyword)
		md.PlainText("")
		md.BulletList(items...)
		md.PlainText("")
	}
}

func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [rankwatch](https://github.com/nao1215/rankwatch)*")
}

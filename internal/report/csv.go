package report

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/nao1215/rankwatch/internal/model"
)

// CSVHeader is the header row written by CSVWriter.
var CSVHeader = []string{"keyword", "current_rank", "change", "check_date"}

// CSVWriter outputs one row per keyword. current_rank and change are empty
// when unknown; change keeps the numeric sentinels for dropped-out and
// newly ranked keywords.
type CSVWriter struct {
	baseWriter
}

// NewCSVWriter creates a CSVWriter that outputs to the given writer.
func NewCSVWriter(output io.Writer) *CSVWriter {
	return &CSVWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs the report as CSV.
func (w *CSVWriter) Write(r *Report) (int, error) {
	cw := newCountingWriter(w.output)
	out := csv.NewWriter(cw)

	if err := out.Write(CSVHeader); err != nil {
		return cw.n, err
	}
	for _, res := range r.Results {
		if err := out.Write(csvRow(res)); err != nil {
			return cw.n, err
		}
	}
	out.Flush()
	return cw.n, out.Error()
}

func csvRow(r model.KeywordResult) []string {
	return []string{
		csvText(r.Keyword),
		optionalInt(r.Position),
		optionalInt(r.Change),
		r.CheckedDate,
	}
}

// csvText quotes a text cell that a spreadsheet would otherwise evaluate as
// a formula. Numeric cells are written as they are.
func csvText(s string) string {
	if s != "" && strings.ContainsRune("=+-@\t\r", rune(s[0])) {
		return "'" + s
	}
	return s
}

// countingWriter counts the bytes written through it.
type countingWriter struct {
	w io.Writer
	n int
}

func newCountingWriter(w io.Writer) *countingWriter {
	return &countingWriter{w: w}
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += n
	return n, err
}

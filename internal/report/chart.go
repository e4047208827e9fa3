package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"

	"github.com/nao1215/rankwatch/internal/model"
)

// ChartFormat selects how ChartWriter encodes rows.
type ChartFormat string

const (
	// ChartCSV writes a "date" column followed by one column per keyword.
	ChartCSV ChartFormat = "csv"

	// ChartJSON writes the keyword list and the rows as one JSON document.
	ChartJSON ChartFormat = "json"
)

// ChartWriter writes history pivoted by date, ready for a line chart.
type ChartWriter struct {
	baseWriter
	format ChartFormat
}

// NewChartWriter creates a ChartWriter. An unknown format falls back to
// ChartCSV.
func NewChartWriter(output io.Writer, format ChartFormat) *ChartWriter {
	if format != ChartJSON {
		format = ChartCSV
	}
	return &ChartWriter{baseWriter: newBaseWriter(output), format: format}
}

type chartDocument struct {
	Keywords []string         `json:"keywords"`
	Rows     []model.ChartRow `json:"rows"`
}

// WriteHistory writes the chart rows of history.
func (w *ChartWriter) WriteHistory(history map[string][]model.RankPoint) (int, error) {
	keywords := model.ChartKeywords(history)
	rows := model.PivotHistory(history)

	if w.format == ChartJSON {
		data, err := json.MarshalIndent(chartDocument{Keywords: keywords, Rows: rows}, "", "  ")
		if err != nil {
			return 0, fmt.Errorf("failed to encode chart rows: %w", err)
		}
		return w.output.Write(append(data, '\n'))
	}

	cw := newCountingWriter(w.output)
	out := csv.NewWriter(cw)
	header := []string{"date"}
	for _, kw := range keywords {
		header = append(header, csvText(kw))
	}
	if err := out.Write(header); err != nil {
		return cw.n, err
	}
	for _, row := range rows {
		record := make([]string, 0, len(keywords)+1)
		record = append(record, row.Date)
		for _, kw := range keywords {
			record = append(record, optionalInt(row.Positions[kw]))
		}
		if err := out.Write(record); err != nil {
			return cw.n, err
		}
	}
	out.Flush()
	return cw.n, out.Error()
}

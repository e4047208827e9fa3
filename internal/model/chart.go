package model

import (
	"sort"
)

// ChartRow is one date of a multi-line rank chart. Positions has an entry
// for every charted keyword; the value is nil when the keyword was not
// checked that day or was not found.
type ChartRow struct {
	Date      string          `json:"date"`
	Positions map[string]*int `json:"positions"`
}

// PivotHistory turns per-keyword series into per-date rows sorted by date.
// Keywords are checked on different days, so a date present in one series
// gets nil for every keyword that has no point on it. Series values are
// copied; the rows do not alias history.
func PivotHistory(history map[string][]RankPoint) []ChartRow {
	byDate := make(map[string]map[string]*int)
	for kw, series := range history {
		for _, p := range series {
			row, ok := byDate[p.Date]
			if !ok {
				row = make(map[string]*int, len(history))
				byDate[p.Date] = row
			}
			if p.Position != nil {
				row[kw] = IntPtr(*p.Position)
			} else {
				row[kw] = nil
			}
		}
	}

	dates := make([]string, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	rows := make([]ChartRow, 0, len(dates))
	for _, d := range dates {
		positions := byDate[d]
		for kw := range history {
			if _, ok := positions[kw]; !ok {
				positions[kw] = nil
			}
		}
		rows = append(rows, ChartRow{Date: d, Positions: positions})
	}
	return rows
}

// ChartKeywords returns the keywords of history in sorted order, the column
// order used when rows are written out.
func ChartKeywords(history map[string][]RankPoint) []string {
	keywords := make([]string, 0, len(history))
	for kw := range history {
		keywords = append(keywords, kw)
	}
	sort.Strings(keywords)
	return keywords
}

package model

import (
	"time"
)

// CompetitorRank is another site seen ranking for the same keyword. It is
// shown with the result and never stored in the session.
type CompetitorRank struct {
	Domain   string `json:"domain"`
	Position *int   `json:"position,omitempty"`
	URL      string `json:"url,omitempty"`
}

// Source is a web page the model cited while answering.
type Source struct {
	Title string `json:"title,omitempty"`
	URI   string `json:"uri"`
}

// RankCheck is the outcome of checking one keyword.
type RankCheck struct {
	Keyword     string           `json:"keyword"`
	Position    *int             `json:"position"`
	URL         string           `json:"url,omitempty"`
	Competitors []CompetitorRank `json:"competitors,omitempty"`
	Sources     []Source         `json:"sources,omitempty"`
}

// KeywordResult is one row of a run: the check outcome plus its comparison
// with stored history.
type KeywordResult struct {
	Keyword          string           `json:"keyword"`
	Position         *int             `json:"position"`
	PreviousPosition *int             `json:"previousPosition"`
	Change           *int             `json:"change"`
	Trend            Trend            `json:"trend"`
	URL              string           `json:"url,omitempty"`
	Competitors      []CompetitorRank `json:"competitors,omitempty"`
	Sources          []Source         `json:"sources,omitempty"`
	CheckedDate      string           `json:"checkedDate,omitempty"`

	// Error is set when the check failed. Position is then nil, Change is
	// zero and Trend is TrendUnknown; the failure says nothing about the
	// real ranking.
	Error string `json:"error,omitempty"`
}

// Failed reports whether the check behind r failed.
func (r KeywordResult) Failed() bool {
	return r.Error != ""
}

// Found reports whether the domain was found for the keyword.
func (r KeywordResult) Found() bool {
	return r.Position != nil
}

// BatchResult is the outcome of a whole run.
type BatchResult struct {
	RunID       string          `json:"runId"`
	SessionID   string          `json:"sessionId"`
	Domain      string          `json:"domain"`
	Location    string          `json:"location"`
	StartedAt   time.Time       `json:"startedAt"`
	CompletedAt time.Time       `json:"completedAt"`
	Results     []KeywordResult `json:"results"`

	// Failed counts results whose check failed.
	Failed int `json:"failed"`

	// Cancelled is set when the run stopped before every keyword was
	// checked.
	Cancelled bool `json:"cancelled,omitempty"`
}

// Summary returns the summary statistics of the run's results.
func (b *BatchResult) Summary() Summary {
	return Summarize(b.Results)
}

// RunRecord is the stored log entry of one run.
type RunRecord struct {
	ID          string    `json:"id"`
	SessionID   string    `json:"sessionId"`
	StartedAt   time.Time `json:"startedAt"`
	CompletedAt time.Time `json:"completedAt"`
	State       string    `json:"state"`
	Total       int       `json:"total"`
	Failed      int       `json:"failed"`
	Summary     Summary   `json:"summary"`
}

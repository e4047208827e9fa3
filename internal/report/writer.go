package report

import (
	"io"
	"time"

	"github.com/nao1215/rankwatch/internal/model"
)

// Report is the data every writer renders: one row per keyword plus the
// summary of those rows.
type Report struct {
	RunID       string                `json:"runId,omitempty"`
	SessionID   string                `json:"sessionId"`
	Domain      string                `json:"domain"`
	Location    string                `json:"location"`
	GeneratedAt time.Time             `json:"generatedAt"`
	Results     []model.KeywordResult `json:"results"`
	Summary     model.Summary         `json:"summary"`

	// Failed counts results whose check failed.
	Failed int `json:"failed"`

	// Cancelled is set for a run that stopped early.
	Cancelled bool `json:"cancelled,omitempty"`
}

// FromBatch builds a Report from the result of a run.
func FromBatch(b *model.BatchResult) *Report {
	return &Report{
		RunID:       b.RunID,
		SessionID:   b.SessionID,
		Domain:      b.Domain,
		Location:    b.Location,
		GeneratedAt: b.CompletedAt,
		Results:     b.Results,
		Summary:     b.Summary(),
		Failed:      b.Failed,
		Cancelled:   b.Cancelled,
	}
}

// FromSession builds a Report from stored history, as of the session's
// last check.
func FromSession(s *model.Session) *Report {
	results := s.CurrentRankings()
	return &Report{
		SessionID:   s.ID,
		Domain:      s.Domain,
		Location:    s.Location,
		GeneratedAt: s.LastChecked,
		Results:     results,
		Summary:     model.Summarize(results),
	}
}

// Status describes how the run behind r ended.
func (r *Report) Status() string {
	switch {
	case r.Cancelled:
		return "Cancelled (partial results)"
	case r.Failed > 0:
		return "Completed with failures"
	default:
		return "Complete"
	}
}

// Writer writes a Report in one format.
type Writer interface {
	// Write outputs the report and returns the number of bytes written.
	Write(r *Report) (int, error)
}

// MultiWriter writes the same report to several Writers, for example the
// terminal and a file.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the report to every Writer and stops on the first error.
func (m *MultiWriter) Write(r *Report) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(r)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter holds the output destination shared by the writers.
type baseWriter struct {
	output io.Writer
}

func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

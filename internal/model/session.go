package model

import (
	"sort"
	"time"
)

// DefaultSessionID is the session used when the caller does not name one.
const DefaultSessionID = "default"

// Session is the persisted state of rank tracking for one domain and
// location. It is stored and replaced as a whole.
type Session struct {
	// ID identifies the session in the store.
	ID string `json:"id"`

	// Domain is the normalized URL of the tracked site.
	Domain string `json:"domain"`

	// Location is the free-form service area, e.g. "Austin, TX".
	Location string `json:"location"`

	// Keywords is the tracked keyword list. It decides which series are
	// shown; History may hold series for keywords no longer listed.
	Keywords []string `json:"keywords"`

	// History maps a keyword to its position series, oldest first.
	History map[string][]RankPoint `json:"history"`

	// LastChecked is when the last run completed. Zero if never checked.
	LastChecked time.Time `json:"lastChecked"`
}

// NewSession returns an empty session with the given ID.
func NewSession(id string) *Session {
	if id == "" {
		id = DefaultSessionID
	}
	return &Session{
		ID:      id,
		History: make(map[string][]RankPoint),
	}
}

// Clone returns a deep copy of s. It exists for in-memory stores used in
// tests, which must not share history slices with the caller.
func (s *Session) Clone() *Session {
	c := *s
	c.Keywords = append([]string(nil), s.Keywords...)
	c.History = make(map[string][]RankPoint, len(s.History))
	for kw, series := range s.History {
		points := make([]RankPoint, len(series))
		for i, p := range series {
			points[i] = RankPoint{Date: p.Date}
			if p.Position != nil {
				points[i].Position = IntPtr(*p.Position)
			}
		}
		c.History[kw] = points
	}
	return &c
}

// ActiveHistory returns the series of the listed keywords only, in keyword
// order. Keywords without history get an empty series.
func (s *Session) ActiveHistory() map[string][]RankPoint {
	out := make(map[string][]RankPoint, len(s.Keywords))
	for _, kw := range s.Keywords {
		out[kw] = s.History[kw]
	}
	return out
}

// StaleKeywords returns the sorted keywords that have history but are no
// longer tracked.
func (s *Session) StaleKeywords() []string {
	tracked := make(map[string]bool, len(s.Keywords))
	for _, kw := range s.Keywords {
		tracked[kw] = true
	}
	var stale []string
	for kw := range s.History {
		if !tracked[kw] {
			stale = append(stale, kw)
		}
	}
	sort.Strings(stale)
	return stale
}

// CurrentRankings builds one result per tracked keyword from stored
// history, without running any check. It is what the history and export
// commands show between runs.
func (s *Session) CurrentRankings() []KeywordResult {
	results := make([]KeywordResult, 0, len(s.Keywords))
	for _, kw := range s.Keywords {
		series := s.History[kw]
		r := KeywordResult{Keyword: kw}
		if last, ok := LatestPoint(series); ok {
			r.Position = last.Position
			r.CheckedDate = last.Date
			r.PreviousPosition = PreviousPosition(series, last.Date)
			r.Change = ComputeChange(r.PreviousPosition, r.Position)
			r.Trend = TrendOf(r.PreviousPosition, r.Position)
		}
		results = append(results, r)
	}
	return results
}

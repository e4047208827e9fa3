package model

import (
	"time"
)

const (
	// DateLayout is the layout of RankPoint.Date.
	DateLayout = "2006-01-02"

	// MaxHistoryPoints is the number of points kept per keyword. Older points
	// are evicted first.
	MaxHistoryPoints = 90

	// NotFoundPosition stands in for "not found" when averaging positions.
	// Models are asked about the top results only, so anything unranked is
	// treated as if it sat on page ten.
	NotFoundPosition = 100

	// ChangeDroppedOut is the change reported when a keyword had a position
	// and now has none.
	ChangeDroppedOut = -100

	// ChangeNewlyRanked is the change reported when a keyword had no position
	// and now has one.
	ChangeNewlyRanked = 100
)

// RankPoint is one observation of a keyword's position on a calendar day.
type RankPoint struct {
	// Date is the check day in DateLayout.
	Date string `json:"date"`

	// Position is the 1-based search position, or nil when the domain was
	// not found in the results.
	Position *int `json:"position"`
}

// DateOf formats t as a RankPoint date in t's location.
func DateOf(t time.Time) string {
	return t.Format(DateLayout)
}

// IntPtr returns a pointer to v.
func IntPtr(v int) *int {
	return &v
}

// ComputeChange compares a keyword's previous and current positions.
// A positive change is an improvement (a numerically smaller position).
//
//   - both known: previous - current
//   - previous known, current nil: ChangeDroppedOut
//   - previous nil, current known: ChangeNewlyRanked
//   - neither known: nil, meaning there is nothing to compare against
func ComputeChange(previous, current *int) *int {
	switch {
	case previous != nil && current != nil:
		return IntPtr(*previous - *current)
	case previous != nil:
		return IntPtr(ChangeDroppedOut)
	case current != nil:
		return IntPtr(ChangeNewlyRanked)
	default:
		return nil
	}
}

// AppendPoint adds p to series and returns the updated series.
//
// A point for a day that already ends the series replaces it, so a series
// holds at most one point per calendar day. The result is trimmed to the
// most recent limit points; limit <= 0 means MaxHistoryPoints. The input
// slice is not modified.
func AppendPoint(series []RankPoint, p RankPoint, limit int) []RankPoint {
	if limit <= 0 {
		limit = MaxHistoryPoints
	}

	out := make([]RankPoint, 0, len(series)+1)
	out = append(out, series...)
	if n := len(out); n > 0 && out[n-1].Date == p.Date {
		out[n-1] = p
	} else {
		out = append(out, p)
	}

	if len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out
}

// LatestPoint returns the last point of series, if any.
func LatestPoint(series []RankPoint) (RankPoint, bool) {
	if len(series) == 0 {
		return RankPoint{}, false
	}
	return series[len(series)-1], true
}

// LatestPosition returns the position of the last point of series, or nil
// when the series is empty or the last check found nothing.
func LatestPosition(series []RankPoint) *int {
	p, ok := LatestPoint(series)
	if !ok {
		return nil
	}
	return p.Position
}

// PreviousPosition returns the position stored before a check made on date.
// When the series already ends with a point for date (an earlier check the
// same day), the point before it is the baseline, so repeated same-day
// checks keep comparing against the prior day.
func PreviousPosition(series []RankPoint, date string) *int {
	n := len(series)
	if n > 0 && series[n-1].Date == date {
		n--
	}
	if n == 0 {
		return nil
	}
	return series[n-1].Position
}

package model

// Mover is a keyword together with its change.
type Mover struct {
	Keyword string `json:"keyword"`
	Change  int    `json:"change"`
}

// Summary aggregates a set of keyword results.
type Summary struct {
	// Total is the number of results.
	Total int `json:"total"`

	// Top3 and Top10 count results ranked at position 3 or better and 10
	// or better.
	Top3  int `json:"top3"`
	Top10 int `json:"top10"`

	// NotFound counts results without a position, failed checks included.
	NotFound int `json:"notFound"`

	// AveragePosition is the mean position with every missing position
	// counted as NotFoundPosition. Zero when Total is zero.
	AveragePosition float64 `json:"averagePosition"`

	// BiggestGainer is the result with the largest positive change, and
	// BiggestLoser the one with the most negative change. Nil when no
	// result moved in that direction. Ties go to the earlier result.
	BiggestGainer *Mover `json:"biggestGainer,omitempty"`
	BiggestLoser  *Mover `json:"biggestLoser,omitempty"`
}

// Summarize computes the Summary of results.
func Summarize(results []KeywordResult) Summary {
	s := Summary{Total: len(results)}
	if len(results) == 0 {
		return s
	}

	sum := 0
	for _, r := range results {
		pos := NotFoundPosition
		if r.Position != nil {
			pos = *r.Position
			if pos <= 3 {
				s.Top3++
			}
			if pos <= 10 {
				s.Top10++
			}
		} else {
			s.NotFound++
		}
		sum += pos

		if r.Change == nil {
			continue
		}
		c := *r.Change
		if c > 0 && (s.BiggestGainer == nil || c > s.BiggestGainer.Change) {
			s.BiggestGainer = &Mover{Keyword: r.Keyword, Change: c}
		}
		if c < 0 && (s.BiggestLoser == nil || c < s.BiggestLoser.Change) {
			s.BiggestLoser = &Mover{Keyword: r.Keyword, Change: c}
		}
	}
	s.AveragePosition = float64(sum) / float64(len(results))
	return s
}

// PositionBucket is a range of positions used for distribution charts.
type PositionBucket struct {
	Label string
	Count int
}

// Distribution groups results into the buckets 1-3, 4-10, 11-20, 21+ and
// not found, in that order.
func Distribution(results []KeywordResult) []PositionBucket {
	buckets := []PositionBucket{
		{Label: "1-3"},
		{Label: "4-10"},
		{Label: "11-20"},
		{Label: "21+"},
		{Label: "not found"},
	}
	for _, r := range results {
		switch {
		case r.Position == nil:
			buckets[4].Count++
		case *r.Position <= 3:
			buckets[0].Count++
		case *r.Position <= 10:
			buckets[1].Count++
		case *r.Position <= 20:
			buckets[2].Count++
		default:
			buckets[3].Count++
		}
	}
	return buckets
}

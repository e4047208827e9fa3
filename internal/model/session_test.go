package model

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestSession_JSONLayout(t *testing.T) {
	t.Parallel()

	s := NewSession("")
	s.Domain = "https://acme-restoration.com"
	s.Location = "Austin, TX"
	s.Keywords = []string{"flood cleanup"}
	s.History["flood cleanup"] = []RankPoint{{Date: "2024-01-01", Position: IntPtr(8)}, {Date: "2024-01-02"}}
	s.LastChecked = time.Date(2024, 1, 2, 9, 30, 0, 0, time.UTC)

	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("failed to marshal: %v", err)
	}

	want := `{"id":"default","domain":"https://acme-restoration.com","location":"Austin, TX",` +
		`"keywords":["flood cleanup"],"history":{"flood cleanup":[{"date":"2024-01-01","position":8},` +
		`{"date":"2024-01-02","position":null}]},"lastChecked":"2024-01-02T09:30:00Z"}`
	if string(data) != want {
		t.Errorf("unexpected JSON:\nwant %s\ngot  %s", want, data)
	}
}

func TestSession_CloneIsDeep(t *testing.T) {
	t.Parallel()

	s := NewSession("a")
	s.Keywords = []string{"x"}
	s.History["x"] = []RankPoint{{Date: "2024-01-01", Position: IntPtr(1)}}

	c := s.Clone()
	c.Keywords[0] = "y"
	*c.History["x"][0].Position = 99
	c.History["z"] = nil

	if s.Keywords[0] != "x" || *s.History["x"][0].Position != 1 || len(s.History) != 1 {
		t.Errorf("clone shares state with original: %+v", s)
	}
}

func TestSession_ActiveAndStaleHistory(t *testing.T) {
	t.Parallel()

	s := NewSession("a")
	s.Keywords = []string{"b", "a"}
	s.History["a"] = []RankPoint{{Date: "2024-01-01", Position: IntPtr(3)}}
	s.History["old"] = []RankPoint{{Date: "2023-12-01", Position: IntPtr(9)}}
	s.History["older"] = nil

	active := s.ActiveHistory()
	if len(active) != 2 {
		t.Fatalf("expected 2 active series, got %d", len(active))
	}
	if _, ok := active["old"]; ok {
		t.Error("expected stale keyword to be hidden")
	}
	if diff := cmp.Diff([]string{"old", "older"}, s.StaleKeywords()); diff != "" {
		t.Errorf("StaleKeywords mismatch (-want +got):\n%s", diff)
	}
	if _, ok := s.History["old"]; !ok {
		t.Error("expected stale history to be retained")
	}
}

func TestSession_CurrentRankings(t *testing.T) {
	t.Parallel()

	s := NewSession("a")
	s.Keywords = []string{"flood cleanup", "mold removal", "never checked"}
	s.History["flood cleanup"] = []RankPoint{
		{Date: "2024-01-01", Position: IntPtr(8)},
		{Date: "2024-01-02", Position: IntPtr(5)},
	}
	s.History["mold removal"] = []RankPoint{{Date: "2024-01-02", Position: IntPtr(2)}}

	got := s.CurrentRankings()
	want := []KeywordResult{
		{
			Keyword:          "flood cleanup",
			Position:         IntPtr(5),
			PreviousPosition: IntPtr(8),
			Change:           IntPtr(3),
			Trend:            TrendUp,
			CheckedDate:      "2024-01-02",
		},
		{
			Keyword:     "mold removal",
			Position:    IntPtr(2),
			Change:      IntPtr(ChangeNewlyRanked),
			Trend:       TrendNew,
			CheckedDate: "2024-01-02",
		},
		{Keyword: "never checked"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("CurrentRankings mismatch (-want +got):\n%s", diff)
	}
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	results := []KeywordResult{
		{Keyword: "a", Position: IntPtr(1), Change: IntPtr(2)},
		{Keyword: "b", Position: IntPtr(5), Change: IntPtr(-3)},
		{Keyword: "c", Position: IntPtr(12), Change: IntPtr(7)},
		{Keyword: "d", Position: nil, Change: IntPtr(ChangeDroppedOut)},
		{Keyword: "e", Position: IntPtr(3), Change: nil},
		{Keyword: "f", Error: "boom", Change: IntPtr(0)},
	}

	got := Summarize(results)
	want := Summary{
		Total:           6,
		Top3:            2,
		Top10:           3,
		NotFound:        2,
		AveragePosition: float64(1+5+12+100+3+100) / 6,
		BiggestGainer:   &Mover{Keyword: "c", Change: 7},
		BiggestLoser:    &Mover{Keyword: "d", Change: ChangeDroppedOut},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Summarize mismatch (-want +got):\n%s", diff)
	}
}

func TestSummarize_NoMovement(t *testing.T) {
	t.Parallel()

	got := Summarize([]KeywordResult{{Keyword: "a", Position: IntPtr(4), Change: IntPtr(0)}})
	if got.BiggestGainer != nil || got.BiggestLoser != nil {
		t.Errorf("expected no movers, got %+v / %+v", got.BiggestGainer, got.BiggestLoser)
	}
	if math.Abs(got.AveragePosition-4) > 1e-9 {
		t.Errorf("expected average 4, got %f", got.AveragePosition)
	}

	empty := Summarize(nil)
	if empty.Total != 0 || empty.AveragePosition != 0 {
		t.Errorf("expected zero summary, got %+v", empty)
	}
}

func TestDistribution(t *testing.T) {
	t.Parallel()

	results := []KeywordResult{
		{Position: IntPtr(1)}, {Position: IntPtr(3)}, {Position: IntPtr(4)},
		{Position: IntPtr(15)}, {Position: IntPtr(40)}, {Position: nil},
	}
	got := Distribution(results)
	want := []PositionBucket{
		{Label: "1-3", Count: 2},
		{Label: "4-10", Count: 1},
		{Label: "11-20", Count: 1},
		{Label: "21+", Count: 1},
		{Label: "not found", Count: 1},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Distribution mismatch (-want +got):\n%s", diff)
	}
}

func TestPivotHistory(t *testing.T) {
	t.Parallel()

	history := map[string][]RankPoint{
		"flood cleanup": {
			{Date: "2024-01-01", Position: IntPtr(8)},
			{Date: "2024-01-03", Position: IntPtr(5)},
		},
		"mold removal": {
			{Date: "2024-01-02", Position: IntPtr(4)},
			{Date: "2024-01-03", Position: nil},
		},
		"untracked yet": nil,
	}

	got := PivotHistory(history)
	want := []ChartRow{
		{Date: "2024-01-01", Positions: map[string]*int{"flood cleanup": IntPtr(8), "mold removal": nil, "untracked yet": nil}},
		{Date: "2024-01-02", Positions: map[string]*int{"flood cleanup": nil, "mold removal": IntPtr(4), "untracked yet": nil}},
		{Date: "2024-01-03", Positions: map[string]*int{"flood cleanup": IntPtr(5), "mold removal": nil, "untracked yet": nil}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("PivotHistory mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff([]string{"flood cleanup", "mold removal", "untracked yet"}, ChartKeywords(history)); diff != "" {
		t.Errorf("ChartKeywords mismatch (-want +got):\n%s", diff)
	}
}

package report

import (
	"strconv"

	"github.com/nao1215/rankwatch/internal/model"
)

// formatPosition renders a position for people: "#4", or "not found".
func formatPosition(r model.KeywordResult) string {
	switch {
	case r.Failed():
		return "error"
	case r.Position == nil:
		return "not found"
	default:
		return "#" + strconv.Itoa(*r.Position)
	}
}

// formatChange renders a change for people. The dropped-out and newly
// ranked sentinels are shown as words.
func formatChange(r model.KeywordResult) string {
	if r.Change == nil || r.Failed() {
		return "-"
	}
	switch c := *r.Change; {
	case r.Trend == model.TrendNew:
		return "new"
	case r.Trend == model.TrendLost:
		return "lost"
	case c > 0:
		return "+" + strconv.Itoa(c)
	default:
		return strconv.Itoa(c)
	}
}

// formatMover renders a biggest gainer or loser.
func formatMover(m *model.Mover) string {
	if m == nil {
		return "-"
	}
	change := strconv.Itoa(m.Change)
	if m.Change > 0 {
		change = "+" + change
	}
	return m.Keyword + " (" + change + ")"
}

// optionalInt renders v for machine formats: the number, or "" when nil.
func optionalInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

// truncateString truncates s to maxLen runes with an ellipsis.
func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}

package model

import (
	"fmt"
)

// Trend classifies a keyword's movement between two checks.
type Trend int

const (
	// TrendUnknown means there was nothing to compare, or the check failed.
	TrendUnknown Trend = iota

	// TrendUp means the position improved.
	TrendUp

	// TrendDown means the position got worse.
	TrendDown

	// TrendStable means the position did not change.
	TrendStable

	// TrendNew means the keyword entered the results.
	TrendNew

	// TrendLost means the keyword dropped out of the results.
	TrendLost
)

var trendNames = map[Trend]string{
	TrendUnknown: "unknown",
	TrendUp:      "up",
	TrendDown:    "down",
	TrendStable:  "stable",
	TrendNew:     "new",
	TrendLost:    "lost",
}

// String returns the lower-case trend name.
func (t Trend) String() string {
	if name, ok := trendNames[t]; ok {
		return name
	}
	return "unknown"
}

// Symbol returns a short marker for terminal and markdown tables.
func (t Trend) Symbol() string {
	switch t {
	case TrendUp:
		return "↑"
	case TrendDown:
		return "↓"
	case TrendStable:
		return "="
	case TrendNew:
		return "★"
	case TrendLost:
		return "✗"
	default:
		return "-"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (t Trend) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Trend) UnmarshalText(text []byte) error {
	for trend, name := range trendNames {
		if name == string(text) {
			*t = trend
			return nil
		}
	}
	return fmt.Errorf("unknown trend %q", string(text))
}

// TrendOf classifies the movement from previous to current. It looks at
// the positions rather than the change value so that a genuine 100-place
// move is not mistaken for a sentinel.
func TrendOf(previous, current *int) Trend {
	switch {
	case previous == nil && current == nil:
		return TrendUnknown
	case previous == nil:
		return TrendNew
	case current == nil:
		return TrendLost
	case *current < *previous:
		return TrendUp
	case *current > *previous:
		return TrendDown
	default:
		return TrendStable
	}
}

package rankcheck

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Payload is the JSON object the model is asked to return.
type Payload struct {
	Keyword     string              `json:"keyword" validate:"max=200"`
	Position    Rank                `json:"position"`
	URL         string              `json:"url" validate:"max=2048"`
	Competitors []CompetitorPayload `json:"competitors" validate:"max=20,dive"`
}

// CompetitorPayload is one competitor entry of Payload.
type CompetitorPayload struct {
	Domain   string `json:"domain" validate:"required,max=253"`
	Position Rank   `json:"position"`
	URL      string `json:"url" validate:"max=2048"`
}

// Rank is a search position as models actually write it: 4, 4.0, "4",
// "#4", null, 0 or "not found". Anything that is not a positive whole
// number means not found.
type Rank struct {
	value *int
}

// Int returns the position, or nil when not found.
func (r Rank) Int() *int {
	if r.value == nil {
		return nil
	}
	v := *r.value
	return &v
}

// RankOf returns a Rank for v; v <= 0 is not found.
func RankOf(v int) Rank {
	if v <= 0 {
		return Rank{}
	}
	return Rank{value: &v}
}

// MarshalJSON implements json.Marshaler.
func (r Rank) MarshalJSON() ([]byte, error) {
	if r.value == nil {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(*r.value)), nil
}

// UnmarshalJSON implements json.Unmarshaler. It only fails for objects and
// arrays; unusable scalars decode as not found.
func (r *Rank) UnmarshalJSON(data []byte) error {
	r.value = nil
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	switch data[0] {
	case '{', '[':
		return fmt.Errorf("position must be a number, got %s", data)
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		r.value = parseRankString(s)
		return nil
	case 't', 'f':
		return nil
	default:
		var f float64
		if err := json.Unmarshal(data, &f); err != nil {
			return err
		}
		r.value = positive(f)
		return nil
	}
}

func parseRankString(s string) *int {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "#"))
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return positive(f)
}

func positive(f float64) *int {
	if f < 1 || f != float64(int(f)) {
		return nil
	}
	v := int(f)
	return &v
}

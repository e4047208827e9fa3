package extract

import (
	"strings"
)

// Repair is a single named rewrite applied to a sliced candidate before the
// final parse attempt. Every repair leaves string literals untouched except
// where noted.
type Repair struct {
	// Name identifies the repair in logs, Result.Repairs and WithoutRepair.
	Name string

	// Apply returns the rewritten candidate.
	Apply func(string) string
}

// Repair names.
const (
	RepairComments       = "comments"
	RepairTrailingCommas = "trailing-commas"
	RepairStringNewlines = "string-newlines"
)

// DefaultRepairs is the repair chain in the order it is applied. Comments go
// first so that a comment between a trailing comma and its closer does not
// hide the comma.
func DefaultRepairs() []Repair {
	return []Repair{
		{Name: RepairComments, Apply: StripComments},
		{Name: RepairTrailingCommas, Apply: RemoveTrailingCommas},
		{Name: RepairStringNewlines, Apply: EscapeStringControls},
	}
}

// IsRepair reports whether name is the name of a default repair.
func IsRepair(name string) bool {
	for _, r := range DefaultRepairs() {
		if r.Name == name {
			return true
		}
	}
	return false
}

// scanner walks JSON-ish text and tracks whether the current byte is inside
// a string literal.
type scanner struct {
	inString bool
	escaped  bool
}

// step updates the state for ch and reports whether ch belongs to a string
// literal (including its quotes).
func (s *scanner) step(ch byte) bool {
	if s.inString {
		switch {
		case s.escaped:
			s.escaped = false
		case ch == '\\':
			s.escaped = true
		case ch == '"':
			s.inString = false
		}
		return true
	}
	if ch == '"' {
		s.inString = true
		return true
	}
	return false
}

// RemoveTrailingCommas drops commas that are followed, after optional
// whitespace, by a closing brace or bracket.
func RemoveTrailingCommas(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	var sc scanner
	for i := 0; i < len(text); i++ {
		ch := text[i]
		if sc.step(ch) || ch != ',' {
			b.WriteByte(ch)
			continue
		}
		j := i + 1
		for j < len(text) && isSpace(text[j]) {
			j++
		}
		if j < len(text) && (text[j] == '}' || text[j] == ']') {
			continue
		}
		b.WriteByte(ch)
	}
	return b.String()
}

// EscapeStringControls escapes raw newlines, carriage returns and tabs that
// appear inside string literals. Models often wrap long descriptions across
// lines without escaping them.
func EscapeStringControls(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	var sc scanner
	for i := 0; i < len(text); i++ {
		ch := text[i]
		wasInString := sc.inString
		sc.step(ch)
		if !wasInString {
			b.WriteByte(ch)
			continue
		}
		switch ch {
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteByte(ch)
		}
	}
	return b.String()
}

// StripComments removes // line comments and /* block */ comments that sit
// outside string literals. URLs inside strings are not affected.
func StripComments(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	var sc scanner
	for i := 0; i < len(text); i++ {
		ch := text[i]
		if sc.step(ch) {
			b.WriteByte(ch)
			continue
		}
		if ch == '/' && i+1 < len(text) {
			switch text[i+1] {
			case '/':
				end := strings.IndexByte(text[i:], '\n')
				if end < 0 {
					return b.String()
				}
				i += end - 1
				continue
			case '*':
				end := strings.Index(text[i+2:], "*/")
				if end < 0 {
					return b.String()
				}
				i += end + 3
				continue
			}
		}
		b.WriteByte(ch)
	}
	return b.String()
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\n' || ch == '\r' || ch == '\t'
}

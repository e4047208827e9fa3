package extract

import "strings"

const fence = "```"

// StripFences removes every code-fence marker outside string literals,
// together with its optional language tag ("```", "```json", "```JSON5"),
// and trims the result. Text between fences is kept, so prose around a
// fenced block survives; the slice strategy deals with that. Markers inside
// a string literal are part of the value and stay.
func StripFences(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	var sc scanner
	for i := 0; i < len(text); i++ {
		if !sc.inString && strings.HasPrefix(text[i:], fence) {
			i += len(fence)
			for i < len(text) && isFenceTag(text[i]) {
				i++
			}
			i--
			continue
		}
		sc.step(text[i])
		b.WriteByte(text[i])
	}
	return strings.TrimSpace(b.String())
}

// HasFence reports whether text contains a code-fence marker.
func HasFence(text string) bool {
	return strings.Contains(text, fence)
}

func isFenceTag(ch byte) bool {
	switch {
	case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z', ch >= '0' && ch <= '9':
		return true
	}
	return strings.IndexByte("_+.-", ch) >= 0
}

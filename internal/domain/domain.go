package domain

import (
	"net/url"
	"strings"
	"unicode"

	"golang.org/x/net/idna"
)

const (
	schemeHTTP  = "http://"
	schemeHTTPS = "https://"
)

// Normalize turns user input such as "example.com/", "  https://example.com//"
// or "HTTP://example.com" into a URL with an explicit scheme and no trailing
// slash. Input without a scheme gets https://; an existing http:// is kept.
// Empty input (after trimming) yields "".
//
// Normalize is idempotent: Normalize(Normalize(x)) == Normalize(x).
func Normalize(input string) string {
	s := strings.TrimRightFunc(strings.TrimSpace(input), func(r rune) bool {
		return r == '/' || unicode.IsSpace(r)
	})
	if s == "" {
		return ""
	}
	if hasScheme(s) {
		return s
	}
	return schemeHTTPS + s
}

func hasScheme(s string) bool {
	lower := strings.ToLower(s)
	return strings.HasPrefix(lower, schemeHTTP) || strings.HasPrefix(lower, schemeHTTPS)
}

// IsValidDomain reports whether input, once normalized, is a URL whose host
// contains at least one dot and is a valid (optionally internationalized)
// hostname. It never panics.
func IsValidDomain(input string) bool {
	normalized := Normalize(input)
	if normalized == "" {
		return false
	}
	u, err := url.Parse(normalized)
	if err != nil {
		return false
	}
	host := u.Hostname()
	if host == "" || !strings.Contains(host, ".") {
		return false
	}
	if strings.HasPrefix(host, ".") || strings.HasSuffix(host, ".") {
		return false
	}
	_, err = idna.Lookup.ToASCII(host)
	return err == nil
}

// Host returns the lower-cased ASCII host of input with any leading "www."
// removed, or "" when input has no usable host. It accepts bare domains and
// full URLs alike and is used to compare a ranking URL with the tracked
// domain.
func Host(input string) string {
	normalized := Normalize(input)
	if normalized == "" {
		return ""
	}
	u, err := url.Parse(normalized)
	if err != nil {
		return ""
	}
	host := strings.ToLower(u.Hostname())
	if ascii, err := idna.Lookup.ToASCII(host); err == nil {
		host = ascii
	}
	return strings.TrimPrefix(host, "www.")
}

// SameSite reports whether a and b point at the same host, ignoring scheme,
// path, case and a leading "www.".
func SameSite(a, b string) bool {
	ha, hb := Host(a), Host(b)
	if ha == "" || hb == "" {
		return false
	}
	return ha == hb || strings.HasSuffix(ha, "."+hb)
}

package domain

import (
	"testing"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "bare domain", input: "example.com", want: "https://example.com"},
		{name: "trailing slash", input: "example.com/", want: "https://example.com"},
		{name: "many trailing slashes", input: "https://example.com///", want: "https://example.com"},
		{name: "http preserved", input: "http://example.com", want: "http://example.com"},
		{name: "uppercase scheme preserved", input: "HTTPS://Example.com", want: "HTTPS://Example.com"},
		{name: "whitespace trimmed", input: "  www.example.com/  ", want: "https://www.example.com"},
		{name: "path kept", input: "example.com/services/", want: "https://example.com/services"},
		{name: "empty", input: "", want: ""},
		{name: "whitespace only", input: "   ", want: ""},
		{name: "slashes only", input: "///", want: ""},
		{name: "mixed trailing slash and space", input: "example.com/ /", want: "https://example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Normalize(tt.input)
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
			if again := Normalize(got); again != got {
				t.Errorf("Normalize is not idempotent: %q -> %q -> %q", tt.input, got, again)
			}
		})
	}
}

func TestNormalize_NeverUpgradesHTTP(t *testing.T) {
	t.Parallel()

	for _, input := range []string{"http://a.com", "http://a.com/", "  http://a.com//"} {
		if got := Normalize(input); got != "http://a.com" {
			t.Errorf("Normalize(%q) = %q, want %q", input, got, "http://a.com")
		}
	}
}

func TestIsValidDomain(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  bool
	}{
		{input: "example.com", want: true},
		{input: "https://acme-restoration.com/", want: true},
		{input: "http://sub.example.co.uk/path", want: true},
		{input: "bücher.de", want: true},
		{input: "example.com:8080", want: true},
		{input: "", want: false},
		{input: "localhost", want: false},
		{input: "not a domain", want: false},
		{input: "https://", want: false},
		{input: "exa mple.com", want: false},
		{input: ".com", want: false},
		{input: "%%%.com", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			if got := IsValidDomain(tt.input); got != tt.want {
				t.Errorf("IsValidDomain(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestHost(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  string
	}{
		{input: "https://www.Example.com/page", want: "example.com"},
		{input: "example.com", want: "example.com"},
		{input: "http://blog.example.com:8080", want: "blog.example.com"},
		{input: "bücher.de", want: "xn--bcher-kva.de"},
		{input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			if got := Host(tt.input); got != tt.want {
				t.Errorf("Host(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSameSite(t *testing.T) {
	t.Parallel()

	tests := []struct {
		a, b string
		want bool
	}{
		{a: "https://www.acme.com/water-damage", b: "acme.com", want: true},
		{a: "https://blog.acme.com/post", b: "https://acme.com", want: true},
		{a: "https://notacme.com", b: "acme.com", want: false},
		{a: "https://other.com", b: "acme.com", want: false},
		{a: "", b: "acme.com", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			t.Parallel()

			if got := SameSite(tt.a, tt.b); got != tt.want {
				t.Errorf("SameSite(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

// Package main provides the entry point for the rankwatch CLI.
//
// rankwatch tracks where a website ranks in AI-grounded local search for
// a list of keywords. Each run asks a Gemini model with Google Search
// grounding for the position of the site, stores the answer in a local
// history and reports the changes since the previous day.
//
// Usage:
//
//	rankwatch check -d acme-restoration.com -l "Austin, TX" "flood cleanup"
//	rankwatch history
//	rankwatch watch --project acme
//
// See --help for all available options.
package main

// main is the entry point for rankwatch.
func main() {
	Execute()
}

package rankcheck

import (
	"fmt"
	"strings"
)

// MaxCompetitors is the number of competitors the model is asked for.
const MaxCompetitors = 5

// BuildPrompt returns the request sent to the model for one keyword.
func BuildPrompt(domain, location, keyword string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Search Google for %q", keyword)
	if location != "" {
		fmt.Fprintf(&b, " as a searcher located in %s", location)
	}
	b.WriteString(".\n")
	fmt.Fprintf(&b, "Find the organic position (1 = first result) of the website %s in those results.\n", domain)
	fmt.Fprintf(&b, "Also list up to %d other websites ranking for the keyword with their positions.\n", MaxCompetitors)
	b.WriteString("Answer with one JSON object and nothing else, in this shape:\n")
	fmt.Fprintf(&b, `{"keyword": %q, "position": <number or null if not found>, "url": "<ranking page of the website or empty>", `+
		`"competitors": [{"domain": "<domain>", "position": <number>, "url": "<page>"}]}`, keyword)
	b.WriteString("\n")
	return b.String()
}

package renderer

import (
	"fintidy"
)

// SummaryMarkdown renders a spending summary to a markdown string.
func SummaryMarkdown(s *fintidy.Summary) string {
	partials := map[string]string{
		"summary_totals":     "summary_totals.md",
		"summary_categories": "summary_categories.md",
		"summary_buckets":    "summary_buckets.md",
	}
	return renderTemplate("summary", "summary.md", partials, s)
}

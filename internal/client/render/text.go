package render

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// Clean strips markup from server-provided text before it reaches the
// terminal and drops control characters other than newline and tab.
func Clean(s string) string {
	s = html.UnescapeString(strict.Sanitize(s))
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, s)
}

// Truncate shortens s to at most n runes, marking the cut with "...".
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}

// OneLine collapses whitespace so s fits a table cell.
func OneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

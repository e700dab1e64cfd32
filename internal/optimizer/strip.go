package optimizer

import (
	"regexp"
	"strings"
)

var (
	// blockDirective matches an MDC block component opener such as
	// "::callout\n" or "::card{title=\"x\"}\n", line terminator included.
	blockDirective = regexp.MustCompile(`::[\w-]+(\{[^}]*\})?\n`)
	// closeMarkerLine matches the text of a line holding nothing but a block
	// closer. The line terminator is not part of the match.
	closeMarkerLine = regexp.MustCompile(`(?m)^[ \t]*::[ \t]*$`)
	// htmlTag matches anything between '<' and the next '>'.
	htmlTag        = regexp.MustCompile(`<[^>]+>`)
	excessNewlines = regexp.MustCompile(`\n{3,}`)
)

// indentedCloseMarker is the two-space indented "::" that closes nested blocks.
const indentedCloseMarker = "  ::"

// StripUIElements removes presentation markup from a Markdown body.
//
// It drops MDC block directive openers, block closers and all HTML-like
// tags, then collapses runs of blank lines and trims the result. Passes are
// repeated until nothing changes, so StripUIElements(StripUIElements(s)) ==
// StripUIElements(s).
//
// This is a textual approximation, not a parser: text inside inline code
// that looks like a tag (for example `a <b> c`) is stripped too.
func StripUIElements(body string) string {
	out := body
	for {
		next := stripPass(out)
		if next == out {
			return next
		}
		out = next
	}
}

// stripPass only ever removes characters, so repeating it terminates.
func stripPass(s string) string {
	s = blockDirective.ReplaceAllString(s, "")
	s = closeMarkerLine.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, indentedCloseMarker, "")
	s = htmlTag.ReplaceAllString(s, "")
	s = excessNewlines.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

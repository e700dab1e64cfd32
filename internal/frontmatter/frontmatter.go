// Package frontmatter splits YAML frontmatter from Markdown documents and
// models the parsed block as an ordered, typed value tree.
package frontmatter

import "strings"

const (
	delimiter = "---"
	openSeq   = delimiter + "\n"
	closeSeq  = "\n" + delimiter + "\n"
)

// Split separates a leading `---` delimited frontmatter block from the body.
//
// The block must start at byte 0 with a `---` line and ends at the first
// following line that is exactly `---`. At least one line (possibly empty)
// must sit between the delimiters, so "---\n---\n" is not a block. Only LF
// line endings are recognized.
//
// If no block is found, had is false and body is the full input.
func Split(content string) (frontmatter string, body string, had bool) {
	if !strings.HasPrefix(content, openSeq) {
		return "", content, false
	}

	rest := content[len(openSeq):]
	idx := strings.Index(rest, closeSeq)
	if idx < 0 {
		return "", content, false
	}

	return rest[:idx], rest[idx+len(closeSeq):], true
}

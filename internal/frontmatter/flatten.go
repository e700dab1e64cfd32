package frontmatter

import (
	"fmt"
	"strings"
)

// Flatten writes fields as flat YAML-like text without delimiters.
//
// Lists become a `key:` line followed by `  - item` lines, nested maps are
// written inline as compact JSON, and scalars as `key: value`. Keys and
// scalars that would not read back as the same plain YAML scalar are written
// as JSON strings. The output has no trailing newline.
func Flatten(m *Map) string {
	lines := make([]string, 0, m.Len())
	for _, f := range m.Fields() {
		key := plainOrQuoted(f.Key)
		switch v := f.Value.(type) {
		case List:
			entry := make([]string, 0, len(v)+1)
			entry = append(entry, key+":")
			for _, item := range v {
				entry = append(entry, "  - "+scalarText(item))
			}
			lines = append(lines, strings.Join(entry, "\n"))
		case *Map:
			lines = append(lines, key+": "+JSON(v))
		default:
			lines = append(lines, key+": "+scalarText(v))
		}
	}
	return strings.Join(lines, "\n")
}

func scalarText(v Value) string {
	switch v.(type) {
	case String, List:
		return plainOrQuoted(Text(v))
	default:
		return Text(v)
	}
}

// yamlIndicators may not start a plain scalar.
const yamlIndicators = "-?:,[]{}#&*!|>'\"%@`"

func plainOrQuoted(s string) string {
	if !needsQuoting(s) {
		return s
	}
	q := quoteJSON(s)
	if !strings.ContainsFunc(q, unprintable) {
		return q
	}
	var b strings.Builder
	for _, r := range q {
		if unprintable(r) {
			fmt.Fprintf(&b, `\u%04x`, r)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// unprintable reports runes that YAML rejects or folds even inside a quoted
// scalar but that JSON leaves unescaped.
func unprintable(r rune) bool {
	return (r >= 0x7f && r <= 0x9f) || r == 0xfeff || r == 0xfffe || r == 0xffff
}

func needsQuoting(s string) bool {
	if s == "" || s != strings.TrimSpace(s) {
		return true
	}
	if strings.ContainsRune(yamlIndicators, rune(s[0])) {
		return true
	}
	if strings.Contains(s, ": ") || strings.Contains(s, " #") || strings.HasSuffix(s, ":") {
		return true
	}
	for _, r := range s {
		if r < 0x20 || r == 0x2028 || r == 0x2029 || unprintable(r) {
			return true
		}
	}
	return false
}

package pipeline

import (
	"fmt"
	"sort"
	"strings"

	"git.home.luguber.info/inful/llmdocs/internal/optimizer"
)

// rootSection heads the documents that live directly in the content root.
const rootSection = "Docs"

// IndexEntry is one document line of the llms.txt index.
type IndexEntry struct {
	Path   string // slash-separated path of the optimized file, relative to the output root
	Title  string
	Hints  optimizer.Hints
	Tokens int
}

func (e IndexEntry) section() string {
	if i := strings.IndexByte(e.Path, '/'); i > 0 {
		return e.Path[:i]
	}
	return rootSection
}

var linkTextEscaper = strings.NewReplacer(`\`, `\\`, `[`, `\[`, `]`, `\]`)

// BuildIndex renders an llms.txt document: a title, an optional summary
// blockquote and one bullet per entry, grouped by top-level directory.
func BuildIndex(title, description string, entries []IndexEntry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n", title)
	if d := strings.TrimSpace(description); d != "" {
		fmt.Fprintf(&b, "\n> %s\n", d)
	}

	groups := map[string][]IndexEntry{}
	for _, e := range entries {
		groups[e.section()] = append(groups[e.section()], e)
	}
	sections := make([]string, 0, len(groups))
	for s := range groups {
		sections = append(sections, s)
	}
	sort.Slice(sections, func(i, j int) bool {
		if sections[i] == rootSection || sections[j] == rootSection {
			return sections[i] == rootSection && sections[j] != rootSection
		}
		return sections[i] < sections[j]
	})

	for _, s := range sections {
		list := groups[s]
		sort.Slice(list, func(i, j int) bool { return list[i].Path < list[j].Path })
		fmt.Fprintf(&b, "\n## %s\n\n", s)
		for _, e := range list {
			fmt.Fprintf(&b, "- [%s](%s): %s/%s/%s, ~%d tokens\n",
				linkTextEscaper.Replace(e.Title), e.Path,
				e.Hints.Package, e.Hints.Scope, e.Hints.Complexity, e.Tokens)
		}
	}
	return b.String()
}

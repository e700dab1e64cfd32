package pipeline

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"git.home.luguber.info/inful/llmdocs/internal/docs"
	"git.home.luguber.info/inful/llmdocs/internal/frontmatter"
	"git.home.luguber.info/inful/llmdocs/internal/markdown"
	"git.home.luguber.info/inful/llmdocs/internal/optimizer"
)

// documentTitle prefers the frontmatter title, then the first H1, then a
// title derived from the file name.
func documentTitle(res optimizer.Result, df docs.DocFile) string {
	if v, ok := res.Metadata.Get("title"); ok && frontmatter.Truthy(v) {
		return frontmatter.Text(v)
	}
	if h := markdown.FirstHeading([]byte(res.Body)); h != "" {
		return h
	}
	return fileTitle(df.Name)
}

// fileTitle turns "getting-started" or "api_reference" into "Getting Started"
// and "Api Reference".
func fileTitle(name string) string {
	words := strings.FieldsFunc(name, func(r rune) bool { return r == '-' || r == '_' || r == ' ' || r == '.' })
	if len(words) == 0 {
		return name
	}
	// a Caser keeps state, so each call gets its own
	return cases.Title(language.English, cases.NoLower).String(strings.Join(words, " "))
}

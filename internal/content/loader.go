// Package content resolves logical documentation paths to Markdown files.
package content

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path"
	"strings"

	"git.home.luguber.info/inful/llmdocs/internal/docs"
	derrors "git.home.luguber.info/inful/llmdocs/internal/foundation/errors"
	"git.home.luguber.info/inful/llmdocs/internal/frontmatter"
	"git.home.luguber.info/inful/llmdocs/internal/markdown"
)

// Page is a loaded Markdown document.
type Page struct {
	Doc docs.DocFile
	Raw string
}

// Body returns the page content without its frontmatter block.
func (p Page) Body() string {
	_, body, _ := frontmatter.Split(p.Raw)
	return body
}

// Loader maps logical paths such as "/sdk/getting-started/installation" onto
// files below a content root.
type Loader struct {
	discovery *docs.Discovery
}

// NewLoader creates a loader over a discovery's root and filters.
func NewLoader(d *docs.Discovery) *Loader {
	return &Loader{discovery: d}
}

// Resolve returns the document for a logical path without reading it.
// Paths may carry a Markdown extension or name a directory holding an index page.
func (l *Loader) Resolve(logicalPath string) (docs.DocFile, error) {
	clean := path.Clean("/" + strings.TrimSpace(logicalPath))
	for _, seg := range strings.Split(logicalPath, "/") {
		if seg == ".." {
			return docs.DocFile{}, derrors.ValidationError("path escapes content root").
				WithContext("path", logicalPath).
				Build()
		}
	}
	rel := strings.TrimPrefix(clean, "/")

	for _, candidate := range l.candidates(rel) {
		if df, ok := l.discovery.Lookup(candidate); ok {
			return df, nil
		}
	}
	return docs.DocFile{}, derrors.NotFoundError("document not found").
		WithContext("path", logicalPath).
		Build()
}

// Load resolves and reads a document.
func (l *Loader) Load(ctx context.Context, logicalPath string) (Page, error) {
	if err := ctx.Err(); err != nil {
		return Page{}, err
	}
	df, err := l.Resolve(logicalPath)
	if err != nil {
		return Page{}, err
	}
	data, err := os.ReadFile(df.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Page{}, derrors.NotFoundError("document not found").WithContext("path", logicalPath).Build()
		}
		return Page{}, derrors.WrapError(err, derrors.CategoryFileSystem, "failed to read document").
			WithContext("path", df.RelativePath).
			Build()
	}
	return Page{Doc: df, Raw: string(data)}, nil
}

// Render returns the page body as HTML.
func (p Page) Render() ([]byte, error) {
	return markdown.Render([]byte(p.Body()))
}

// candidates lists relative file paths to try for rel, most specific first.
func (l *Loader) candidates(rel string) []string {
	var out []string
	if rel != "" && rel != "." && l.discovery.Matches(rel) {
		out = append(out, rel)
	}
	for _, ext := range l.discovery.Extensions() {
		if rel != "" && rel != "." {
			out = append(out, rel+ext)
		}
		out = append(out, path.Join(rel, "index"+ext))
	}
	return out
}

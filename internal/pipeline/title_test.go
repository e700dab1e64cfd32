package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"git.home.luguber.info/inful/llmdocs/internal/docs"
	"git.home.luguber.info/inful/llmdocs/internal/optimizer"
)

func TestFileTitle(t *testing.T) {
	tests := map[string]string{
		"getting-started": "Getting Started",
		"api_reference":   "Api Reference",
		"v2.migration":    "V2 Migration",
		"README":          "README",
		"--":              "--",
	}
	for in, want := range tests {
		assert.Equal(t, want, fileTitle(in), in)
	}
}

func TestDocumentTitle(t *testing.T) {
	df := docs.DocFile{Name: "quick-start"}

	res := optimizer.Optimize("---\ntitle: From Frontmatter\n---\n# Heading\n")
	assert.Equal(t, "From Frontmatter", documentTitle(res, df))

	res = optimizer.Optimize("---\ntitle: \"\"\n---\n# Heading\n")
	assert.Equal(t, "Heading", documentTitle(res, df))

	res = optimizer.Optimize("Plain text only.\n")
	assert.Equal(t, "Quick Start", documentTitle(res, df))
}

package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"git.home.luguber.info/inful/llmdocs/internal/optimizer"
)

func TestBuildIndex(t *testing.T) {
	hints := optimizer.Hints{Package: "sdk", Scope: "api", Complexity: "advanced"}
	got := BuildIndex("Docs Title", "Summary line", []IndexEntry{
		{Path: "sdk/b.md", Title: "B [beta]", Hints: hints, Tokens: 20},
		{Path: "api/x.md", Title: "X", Hints: hints, Tokens: 3},
		{Path: "index.md", Title: "Home", Hints: optimizer.DefaultHints(), Tokens: 7},
		{Path: "sdk/a.md", Title: "A", Hints: hints, Tokens: 10},
	})

	want := "# Docs Title\n" +
		"\n> Summary line\n" +
		"\n## Docs\n\n" +
		"- [Home](index.md): unknown/general/intermediate, ~7 tokens\n" +
		"\n## api\n\n" +
		"- [X](api/x.md): sdk/api/advanced, ~3 tokens\n" +
		"\n## sdk\n\n" +
		"- [A](sdk/a.md): sdk/api/advanced, ~10 tokens\n" +
		"- [B \\[beta\\]](sdk/b.md): sdk/api/advanced, ~20 tokens\n"
	assert.Equal(t, want, got)
}

func TestBuildIndex_NoDescriptionNoEntries(t *testing.T) {
	assert.Equal(t, "# Empty\n", BuildIndex("Empty", "  ", nil))
}

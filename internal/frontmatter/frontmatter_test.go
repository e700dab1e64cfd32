package frontmatter

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplit_NoFrontmatter_ReturnsBodyOnly(t *testing.T) {
	input := "# Title\n\nHello\n"

	fm, body, had := Split(input)
	require.False(t, had)
	require.Empty(t, fm)
	require.Equal(t, input, body)
}

func TestSplit_YAMLFrontmatter_SplitsFrontmatterAndBody(t *testing.T) {
	fm, body, had := Split("---\nkey: value\n---\n# Title\n")
	require.True(t, had)
	require.Equal(t, "key: value", fm)
	require.Equal(t, "# Title\n", body)
}

func TestSplit_StopsAtFirstClosingDelimiter(t *testing.T) {
	fm, body, had := Split("---\na: 1\n---\nintro\n---\nmore\n")
	require.True(t, had)
	require.Equal(t, "a: 1", fm)
	require.Equal(t, "intro\n---\nmore\n", body)
}

func TestSplit_NotABlock(t *testing.T) {
	cases := map[string]string{
		"missing closing":      "---\nkey: value\n# Title\n",
		"adjacent delimiters":  "---\n---\n# Title\n",
		"closing without eol":  "---\nkey: value\n---",
		"crlf":                 "---\r\nkey: value\r\n---\r\n# Title\r\n",
		"not at start":         "\n---\nkey: value\n---\n",
		"four dashes":          "----\nkey: value\n----\n",
		"indented closing":     "---\nkey: value\n ---\nbody",
		"closing with trailer": "---\nkey: value\n--- \nbody",
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			fm, body, had := Split(input)
			require.False(t, had)
			require.Empty(t, fm)
			require.Equal(t, input, body)
		})
	}
}

func TestSplit_EmptyLineBlock(t *testing.T) {
	fm, body, had := Split("---\n\n---\nbody")
	require.True(t, had)
	require.Empty(t, fm)
	require.Equal(t, "body", body)
}

package frontmatter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	derrors "git.home.luguber.info/inful/llmdocs/internal/foundation/errors"
)

func TestExtract_Absent(t *testing.T) {
	ex := Extract("# Title\n\nSome text")
	assert.Equal(t, StatusAbsent, ex.Status)
	assert.Equal(t, 0, ex.Fields.Len())
	assert.Equal(t, "# Title\n\nSome text", ex.Body)
	assert.NoError(t, ex.Err)
	assert.False(t, ex.Degraded())
}

func TestExtract_Parsed(t *testing.T) {
	ex := Extract("---\npackage: sdk\ncomplexity: advanced\n---\n::callout\nHello\n")
	require.Equal(t, StatusParsed, ex.Status)
	assert.Equal(t, "sdk", ex.Fields.String("package"))
	assert.Equal(t, "advanced", ex.Fields.String("complexity"))
	assert.Equal(t, "::callout\nHello\n", ex.Body)
}

func TestExtract_MalformedDegrades(t *testing.T) {
	input := "---\ntags: [a, b\n---\nBody text\n"
	ex := Extract(input)

	require.Equal(t, StatusMalformed, ex.Status)
	assert.True(t, ex.Degraded())
	assert.Equal(t, 0, ex.Fields.Len())
	assert.Equal(t, input, ex.Body)
	require.Error(t, ex.Err)
	assert.True(t, derrors.HasCategory(ex.Err, derrors.CategoryFrontmatter))
	assert.Equal(t, derrors.SeverityWarning, derrors.GetSeverity(ex.Err))
}

func TestExtract_EmptyInput(t *testing.T) {
	ex := Extract("")
	assert.Equal(t, StatusAbsent, ex.Status)
	assert.Equal(t, "", ex.Body)
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "absent", StatusAbsent.String())
	assert.Equal(t, "parsed", StatusParsed.String())
	assert.Equal(t, "malformed", StatusMalformed.String())
	assert.Equal(t, "unknown", Status(42).String())
}

func TestExtract_Property_NoLeadingBlock(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		input := rapid.String().Draw(t, "input")
		if strings.HasPrefix(input, "---\n") {
			input = "x" + input
		}
		ex := Extract(input)
		require.Equal(t, StatusAbsent, ex.Status)
		require.Equal(t, 0, ex.Fields.Len())
		require.Equal(t, input, ex.Body)
	})
}

func TestExtract_Property_WellFormedBlockExcludedExactly(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		keys := rapid.SliceOfNDistinct(rapid.StringMatching(`[a-z]{1,8}`), 1, 6, func(s string) string { return s }).Draw(t, "keys")
		lines := make([]string, 0, len(keys))
		for i, k := range keys {
			v := rapid.StringMatching(`[a-z]{1,10}`).Draw(t, "value"+string(rune('a'+i)))
			lines = append(lines, k+": "+v)
		}
		body := rapid.String().Draw(t, "body")

		ex := Extract("---\n" + strings.Join(lines, "\n") + "\n---\n" + body)
		require.Equal(t, StatusParsed, ex.Status)
		require.Equal(t, body, ex.Body)
		require.Equal(t, keys, ex.Fields.Keys())
	})
}

func TestExtract_Property_MalformedDegradesToFullInput(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		broken := rapid.SampledFrom([]string{"tags: [a, b", "a: b: c", "key: {unclosed", "a:\n\t- b"}).Draw(t, "broken")
		body := rapid.String().Draw(t, "body")
		input := "---\n" + broken + "\n---\n" + body

		ex := Extract(input)
		require.Equal(t, StatusMalformed, ex.Status)
		require.Equal(t, 0, ex.Fields.Len())
		require.Equal(t, input, ex.Body)
		require.Error(t, ex.Err)
	})
}

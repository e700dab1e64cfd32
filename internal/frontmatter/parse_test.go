package frontmatter

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseYAML_TypedScalars(t *testing.T) {
	m, err := ParseYAML("title: Intro\nweight: 3\nratio: 1.5\ndraft: false\nnothing: ~\ndate: 2024-11-24\nquoted: \"42\"")
	require.NoError(t, err)

	require.Equal(t, []string{"title", "weight", "ratio", "draft", "nothing", "date", "quoted"}, m.Keys())

	v, _ := m.Get("title")
	assert.Equal(t, String("Intro"), v)
	v, _ = m.Get("weight")
	assert.Equal(t, Number(3), v)
	v, _ = m.Get("ratio")
	assert.Equal(t, Number(1.5), v)
	v, _ = m.Get("draft")
	assert.Equal(t, Bool(false), v)
	v, _ = m.Get("nothing")
	assert.Equal(t, Null{}, v)
	v, _ = m.Get("date")
	assert.Equal(t, String("2024-11-24"), v)
	v, _ = m.Get("quoted")
	assert.Equal(t, String("42"), v)
}

func TestParseYAML_NestedValues(t *testing.T) {
	m, err := ParseYAML("tags:\n  - react\n  - hooks\nauthor:\n  name: Ada\n  roles: [dev, ops]")
	require.NoError(t, err)

	tags, ok := m.Get("tags")
	require.True(t, ok)
	assert.Equal(t, List{String("react"), String("hooks")}, tags)

	author, ok := m.Get("author")
	require.True(t, ok)
	am, ok := author.(*Map)
	require.True(t, ok)
	assert.Equal(t, []string{"name", "roles"}, am.Keys())
	assert.Equal(t, `{"name":"Ada","roles":["dev","ops"]}`, JSON(am))
}

func TestParseYAML_AliasesResolve(t *testing.T) {
	m, err := ParseYAML("base: &b\n  level: advanced\ncopy: *b")
	require.NoError(t, err)
	assert.Equal(t, `{"level":"advanced"}`, m.String("copy"))
}

func TestParseYAML_EmptyInputs(t *testing.T) {
	for _, in := range []string{"", "   ", "# only a comment", "~", "null"} {
		m, err := ParseYAML(in)
		require.NoError(t, err, in)
		assert.Equal(t, 0, m.Len(), in)
	}
}

func TestParseYAML_Errors(t *testing.T) {
	cases := map[string]string{
		"unclosed flow":   "tags: [a, b",
		"nested mapping":  "a: b: c",
		"tab indentation": "a:\n\t- b",
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseYAML(in)
			require.Error(t, err)
		})
	}
}

func TestParseYAML_NonMappingRejected(t *testing.T) {
	for _, in := range []string{"- a\n- b", "just text", "42"} {
		_, err := ParseYAML(in)
		require.Error(t, err, in)
		assert.True(t, errors.Is(err, ErrNotMapping), in)
	}
}

func TestParseYAML_DuplicateKeyRejected(t *testing.T) {
	_, err := ParseYAML("package: sdk\npackage: abis")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicateKey))
}

func TestParseYAML_SpecialFloats(t *testing.T) {
	m, err := ParseYAML("a: .inf\nb: -.inf\nc: .nan")
	require.NoError(t, err)
	a, _ := m.Get("a")
	assert.True(t, math.IsInf(float64(a.(Number)), 1))
	assert.Equal(t, "a: Infinity\nb: -Infinity\nc: NaN", Flatten(m))
	assert.Equal(t, `{"a":null,"b":null,"c":null}`, JSON(m))
}

package frontmatter

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMap_SetKeepsPosition(t *testing.T) {
	m := NewMap(Field{"a", Number(1)}, Field{"b", Number(2)})
	m.Set("a", String("x"))
	m.Set("c", Bool(true))

	assert.Equal(t, []string{"a", "b", "c"}, m.Keys())
	assert.Equal(t, "x", m.String("a"))
	assert.Equal(t, "", m.String("missing"))
}

func TestMap_NilIsEmpty(t *testing.T) {
	var m *Map
	assert.Equal(t, 0, m.Len())
	assert.False(t, m.Has("a"))
	assert.Empty(t, m.Keys())
	assert.Equal(t, "", Flatten(m))
}

func TestTruthy(t *testing.T) {
	falsy := []Value{nil, Null{}, String(""), Number(0), Number(math.NaN()), Bool(false)}
	for _, v := range falsy {
		assert.False(t, Truthy(v), "%#v", v)
	}
	truthy := []Value{String("0"), String("false"), Number(-1), Bool(true), List{}, NewMap()}
	for _, v := range truthy {
		assert.True(t, Truthy(v), "%#v", v)
	}
}

func TestText(t *testing.T) {
	cases := []struct {
		in   Value
		want string
	}{
		{String("sdk"), "sdk"},
		{Number(3), "3"},
		{Number(-2.5), "-2.5"},
		{Number(1e21), "1e+21"},
		{Number(1e-7), "1e-7"},
		{Number(123456789012), "123456789012"},
		{Bool(true), "true"},
		{Null{}, "null"},
		{List{String("a"), Null{}, Number(2)}, "a,,2"},
		{List{String("a"), List{String("b"), String("c")}}, "a,b,c"},
		{NewMap(Field{"k", String("v")}), `{"k":"v"}`},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Text(tc.in), "%#v", tc.in)
	}
}

func TestJSON_DoesNotEscapeHTML(t *testing.T) {
	m := NewMap(Field{"link", String("<a href=\"x\">y</a> & z")})
	assert.Equal(t, `{"link":"<a href=\"x\">y</a> & z"}`, JSON(m))
}

func TestMap_MarshalJSON_KeepsOrder(t *testing.T) {
	m := NewMap(Field{"z", Number(1)}, Field{"a", List{Bool(false)}})
	b, err := json.Marshal(struct {
		Metadata *Map `json:"metadata"`
	}{m})
	require.NoError(t, err)
	assert.Equal(t, `{"metadata":{"z":1,"a":[false]}}`, string(b))
}

func TestFlatten(t *testing.T) {
	m := NewMap(
		Field{"package", String("sdk")},
		Field{"tags", List{String("react"), Number(2), NewMap(Field{"k", String("v")})}},
		Field{"meta", NewMap(Field{"level", Number(3)}, Field{"draft", Bool(true)})},
		Field{"empty", List{}},
		Field{"none", Null{}},
	)

	want := "package: sdk\n" +
		"tags:\n  - react\n  - 2\n  - {\"k\":\"v\"}\n" +
		"meta: {\"level\":3,\"draft\":true}\n" +
		"empty:\n" +
		"none: null"
	assert.Equal(t, want, Flatten(m))
}

func TestFlatten_QuotesAmbiguousScalars(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "title: Setup", "title: Setup"},
		{"colon space", "title: \"Setup: Install\"", `title: "Setup: Install"`},
		{"block scalar with delimiter", "notes: |\n  first\n  ---\n  last\n", `notes: "first\n---\nlast\n"`},
		{"comment marker", "title: \"a #b\"", `title: "a #b"`},
		{"leading indicator", "tag: \"#go\"", `tag: "#go"`},
		{"leading dash", "item: \"- x\"", `item: "- x"`},
		{"trailing colon", "label: \"Note:\"", `label: "Note:"`},
		{"empty", "title: \"\"", `title: ""`},
		{"list item", "tags:\n  - \"a: b\"\n  - plain\n", "tags:\n  - \"a: b\"\n  - plain"},
		{"key", "\"a: b\": x", `"a: b": x`},
		{"url stays plain", "link: https://example.com/a#b", "link: https://example.com/a#b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := ParseYAML(tt.in)
			require.NoError(t, err)
			flat := Flatten(m)
			assert.Equal(t, tt.want, flat)

			back, err := ParseYAML(flat)
			require.NoError(t, err)
			assert.Equal(t, JSON(m), JSON(back))
		})
	}
}

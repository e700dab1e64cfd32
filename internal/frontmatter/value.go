package frontmatter

import (
	"math"
	"strconv"
	"strings"
)

// Kind identifies the concrete type behind a Value.
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
	KindList
	KindMap
)

// Value is a frontmatter value: one of String, Number, Bool, Null, List or *Map.
type Value interface {
	Kind() Kind
}

type (
	String string
	Number float64
	Bool   bool
	Null   struct{}
	List   []Value
)

func (String) Kind() Kind { return KindString }
func (Number) Kind() Kind { return KindNumber }
func (Bool) Kind() Kind   { return KindBool }
func (Null) Kind() Kind   { return KindNull }
func (List) Kind() Kind   { return KindList }
func (*Map) Kind() Kind   { return KindMap }

// Field is a single key/value entry of a Map.
type Field struct {
	Key   string
	Value Value
}

// Map is an ordered mapping that preserves document key order.
type Map struct {
	fields []Field
	index  map[string]int
}

// NewMap builds a Map from fields. Later duplicates replace earlier values in place.
func NewMap(fields ...Field) *Map {
	m := &Map{}
	for _, f := range fields {
		m.Set(f.Key, f.Value)
	}
	return m
}

// Len returns the number of fields. A nil Map is empty.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.fields)
}

// Fields returns the entries in document order.
func (m *Map) Fields() []Field {
	if m == nil {
		return nil
	}
	return m.fields
}

// Keys returns the keys in document order.
func (m *Map) Keys() []string {
	keys := make([]string, 0, m.Len())
	for _, f := range m.Fields() {
		keys = append(keys, f.Key)
	}
	return keys
}

// Get returns the value stored under key.
func (m *Map) Get(key string) (Value, bool) {
	if m == nil || m.index == nil {
		return nil, false
	}
	i, ok := m.index[key]
	if !ok {
		return nil, false
	}
	return m.fields[i].Value, true
}

// Has reports whether key is present.
func (m *Map) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

// Set stores value under key, keeping the original position for existing keys.
func (m *Map) Set(key string, value Value) {
	if m.index == nil {
		m.index = make(map[string]int)
	}
	if i, ok := m.index[key]; ok {
		m.fields[i].Value = value
		return
	}
	m.index[key] = len(m.fields)
	m.fields = append(m.fields, Field{Key: key, Value: value})
}

// String returns the value of key rendered as text, or "" if absent.
func (m *Map) String(key string) string {
	v, ok := m.Get(key)
	if !ok {
		return ""
	}
	return Text(v)
}

// Truthy reports whether v counts as set for fallback purposes:
// empty strings, zero, NaN, false and null do not.
func Truthy(v Value) bool {
	switch t := v.(type) {
	case nil, Null:
		return false
	case String:
		return t != ""
	case Number:
		f := float64(t)
		return f != 0 && !math.IsNaN(f)
	case Bool:
		return bool(t)
	default:
		return true
	}
}

// Text renders v as plain inline text. Lists are comma-joined with null
// elements left empty, nested maps are written as compact JSON.
func Text(v Value) string {
	switch t := v.(type) {
	case nil, Null:
		return "null"
	case String:
		return string(t)
	case Number:
		return formatNumber(float64(t))
	case Bool:
		return strconv.FormatBool(bool(t))
	case List:
		parts := make([]string, len(t))
		for i, item := range t {
			if item == nil || item.Kind() == KindNull {
				continue
			}
			parts[i] = Text(item)
		}
		return strings.Join(parts, ",")
	case *Map:
		return JSON(t)
	default:
		return ""
	}
}

// formatNumber renders a float64 the way ECMAScript's Number#toString does
// for the common cases: integers without a fraction, exponent notation below
// 1e-6 and from 1e21 upward.
func formatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}

	abs := math.Abs(f)
	if abs >= 1e21 || abs < 1e-6 {
		s := strconv.FormatFloat(f, 'e', -1, 64)
		mant, exp, _ := strings.Cut(s, "e")
		sign := exp[0]
		digits := strings.TrimLeft(exp[1:], "0")
		if digits == "" {
			digits = "0"
		}
		return mant + "e" + string(sign) + digits
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

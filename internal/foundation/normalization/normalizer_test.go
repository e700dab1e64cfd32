package normalization

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnum string

const (
	enumAlpha testEnum = "alpha"
	enumBeta  testEnum = "beta"
	enumGamma testEnum = "gamma"
)

func newTestNormalizer() *Normalizer[testEnum] {
	return NewNormalizer(map[string]testEnum{
		"alpha": enumAlpha,
		"Beta":  enumBeta,
		"gamma": enumGamma,
	}, enumAlpha)
}

func TestNormalizer_Normalize(t *testing.T) {
	n := newTestNormalizer()
	tests := []struct {
		input string
		want  testEnum
	}{
		{"alpha", enumAlpha},
		{"ALPHA", enumAlpha},
		{"  beta  ", enumBeta},
		{"  GaMmA ", enumGamma},
		{"invalid", enumAlpha},
		{"", enumAlpha},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, n.Normalize(tt.input))
		})
	}
}

func TestNormalizer_Lookup(t *testing.T) {
	n := newTestNormalizer()

	v, ok := n.Lookup(" BETA")
	assert.True(t, ok)
	assert.Equal(t, enumBeta, v)

	_, ok = n.Lookup("delta")
	assert.False(t, ok)
}

func TestNormalizer_NormalizeWithError(t *testing.T) {
	n := newTestNormalizer()

	v, err := n.NormalizeWithError("Gamma")
	require.NoError(t, err)
	assert.Equal(t, enumGamma, v)

	_, err = n.NormalizeWithError("delta")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "[alpha beta gamma]")
}

func TestNormalizer_KeysAndDefault(t *testing.T) {
	n := newTestNormalizer()
	keys := n.ValidKeys()
	assert.Equal(t, []string{"alpha", "beta", "gamma"}, keys)
	keys[0] = "mutated"
	assert.Equal(t, "alpha", n.ValidKeys()[0])
	assert.Equal(t, enumAlpha, n.Default())
}

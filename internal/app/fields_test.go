package app

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLeadingFloat(t *testing.T) {
	cases := map[string]float64{
		"450":       450,
		"450.5":     450.5,
		" 12 g":     12,
		"-3.5kcal":  -3.5,
		".5":        0.5,
		"1e3":       1000,
		"1e999":     0,
		"abc":       0,
		"":          0,
		"1,200 cal": 1,
	}
	for in, want := range cases {
		assert.Equal(t, want, parseLeadingFloat(in), "input %q", in)
	}
}

func TestTruthy(t *testing.T) {
	for _, v := range []any{true, "true", "TRUE", " True ", json.Number("1"), 1.0, 1} {
		assert.True(t, truthy(v), "%#v", v)
	}
	for _, v := range []any{false, "yes", "1", json.Number("0"), 2.0, nil, map[string]any{}} {
		assert.False(t, truthy(v), "%#v", v)
	}
}

func TestLookupAny(t *testing.T) {
	m := map[string]any{
		"a.b": "literal",
		"x":   map[string]any{"y": map[string]any{"z": "deep"}},
	}
	assert.Equal(t, "literal", lookupAny(m, "a.b"))
	assert.Equal(t, "deep", lookupAny(m, "x.y.z"))
	assert.Nil(t, lookupAny(m, "x.q"))
	assert.Nil(t, lookupAny(m, "missing"))
}

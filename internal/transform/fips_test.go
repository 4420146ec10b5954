package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidCountyFIPS(t *testing.T) {
	tests := []struct {
		raw   string
		valid bool
	}{
		{"06037", true},
		{"36061", true},
		{" 06037 ", true}, // surrounding whitespace tolerated
		{"6037", false},   // length 4
		{"ABCDE", false},  // non-numeric
		{"123456", false}, // length 6
		{"0603a", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.valid, ValidCountyFIPS(tt.raw), "raw: %q", tt.raw)
	}
}

func TestNormalizeCountyFIPS(t *testing.T) {
	code, ok := NormalizeCountyFIPS(" 06037")
	require.True(t, ok)
	assert.Equal(t, "06037", code)

	_, ok = NormalizeCountyFIPS("6037")
	assert.False(t, ok)
}

func TestStateFromCountyFIPS(t *testing.T) {
	state, ok := StateFromCountyFIPS("06037")
	require.True(t, ok)
	assert.Equal(t, 6, state)

	state, ok = StateFromCountyFIPS("36061")
	require.True(t, ok)
	assert.Equal(t, 36, state)

	_, ok = StateFromCountyFIPS("123456")
	assert.False(t, ok)
}

func TestFormatFIPS(t *testing.T) {
	assert.Equal(t, "06", FormatFIPS(6, 2))
	assert.Equal(t, "037", FormatFIPS(37, 3))
	assert.Equal(t, "06037", FormatFIPS(6037, 5))
}

func TestStateName(t *testing.T) {
	name, ok := StateName(6)
	require.True(t, ok)
	assert.Equal(t, "California", name)

	name, ok = StateName(11)
	require.True(t, ok)
	assert.Equal(t, "District of Columbia", name)

	_, ok = StateName(99)
	assert.False(t, ok)

	// All 50 states plus DC.
	count := 0
	for code := 1; code <= 56; code++ {
		if _, ok := StateName(code); ok {
			count++
		}
	}
	assert.Equal(t, 51, count)
}

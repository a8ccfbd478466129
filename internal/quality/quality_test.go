package quality

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsScanLikeBoundary(t *testing.T) {
	text := strings.Repeat("a", 1500)

	assert.False(t, IsScanLike(text, 1500), "length equal to threshold is text-native")
	assert.True(t, IsScanLike(text[:1499], 1500))
	assert.False(t, IsScanLike(text+"b", 1500))
}

func TestIsScanLikeTrimsBeforeMeasuring(t *testing.T) {
	padded := "\n\n   " + strings.Repeat("x", 10) + "  \t\n"

	assert.Equal(t, 10, Length(padded))
	assert.True(t, IsScanLike(padded, 11))
	assert.False(t, IsScanLike(padded, 10))
}

func TestLengthCountsCharactersNotBytes(t *testing.T) {
	assert.Equal(t, 4, Length("éèêë"))
}

func TestIsScanLikeEmpty(t *testing.T) {
	assert.True(t, IsScanLike("", DefaultMinDocLength))
	assert.False(t, IsScanLike("", 0), "zero threshold never OCRs")
}

func TestMeasure(t *testing.T) {
	s := Measure("  hello world\nsecond line\x01  ")

	assert.Equal(t, 4, s.Words)
	assert.Equal(t, 2, s.Lines)
	assert.Greater(t, s.AlphaRatio, 0.5)
	assert.Greater(t, s.GarbageRatio, 0.0)

	assert.Equal(t, Stats{}, Measure("   "))
}

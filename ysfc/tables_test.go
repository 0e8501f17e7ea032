// sampleconv
// Licensed under MIT

package ysfc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnvelopeTimesSpanAndMonotonic(t *testing.T) {
	assert.InDelta(t, 0.2, EnvelopeTimeSeconds(0), 0.001)
	assert.InDelta(t, 90.0, EnvelopeTimeSeconds(127), 0.01)
	for i := 1; i < 128; i++ {
		assert.Greater(t, EnvelopeTimeSeconds(uint8(i)), EnvelopeTimeSeconds(uint8(i-1)))
	}
}

func TestEnvelopeTimeByteRoundTrip(t *testing.T) {
	for i := 0; i < 128; i++ {
		assert.Equal(t, uint8(i), EnvelopeTimeByte(EnvelopeTimeSeconds(uint8(i))))
	}
}

func TestPitchKeyFollowSpan(t *testing.T) {
	assert.InDelta(t, -200, PitchKeyFollowPercent(0), 0.01)
	assert.InDelta(t, 200, PitchKeyFollowPercent(127), 0.01)
	for i := 0; i < 128; i++ {
		assert.Equal(t, uint8(i), PitchKeyFollowByte(PitchKeyFollowPercent(uint8(i))))
	}
}

func TestMainCategoryFirstSetBitWins(t *testing.T) {
	name, idx := MainCategoryName(0x1000 | 0x8000)
	assert.Equal(t, "Drum/Perc", name)
	assert.Equal(t, 12, idx)

	name, idx = MainCategoryName(0)
	assert.Equal(t, "", name)
	assert.Equal(t, -1, idx)
}

func TestMainCategoryMaskInverse(t *testing.T) {
	for i := 0; i < 16; i++ {
		name, got := MainCategoryName(MainCategoryMask(i))
		assert.Equal(t, i, got)
		assert.NotEmpty(t, name)
	}
}

func TestMainCategoryIndexFuzzyMatch(t *testing.T) {
	assert.Equal(t, 12, MainCategoryIndex("Drum"))
	assert.Equal(t, 0, MainCategoryIndex("Piano"))
	assert.Equal(t, -1, MainCategoryIndex(""))
	assert.Equal(t, -1, MainCategoryIndex("Accordion"))
}

func TestSubCategoryNoAssignValues(t *testing.T) {
	for v := 8; v <= 248; v += 16 {
		assert.Equal(t, "No Assign", SubCategoryName(v), "value %d", v)
	}
	assert.Equal(t, "No Assign", SubCategoryName(256))
	assert.Equal(t, "Acoustic", SubCategoryName(0))
	assert.Equal(t, "Percussion", SubCategoryName(12*16+1))
}

func TestSplitJoinEntryName(t *testing.T) {
	cat, base := SplitEntryName("12:Big Kit")
	assert.Equal(t, 12, cat)
	assert.Equal(t, "Big Kit", base)

	cat, base = SplitEntryName("NoPrefix")
	assert.Equal(t, -1, cat)
	assert.Equal(t, "NoPrefix", base)

	assert.Equal(t, "12:Big Kit", JoinEntryName(12, "Big Kit"))
	assert.Equal(t, "Bare", JoinEntryName(-1, "Bare"))
}

package calendar

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeekMaskRoundTripAllSubsets(t *testing.T) {
	for mask := 0; mask <= FullWeekMask; mask++ {
		days := DecodeWeekMask(mask)

		encoded, err := EncodeWeekMask(days)
		require.NoError(t, err)
		assert.Equal(t, mask, encoded, "mask %07b", mask)

		again := DecodeWeekMask(encoded)
		assert.Equal(t, days, again)
	}
}

func TestMonthMaskRoundTrip(t *testing.T) {
	cases := [][]int{
		{},
		{1},
		{31},
		{1, 16},
		{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20, 21, 22, 23, 24, 25, 26, 27, 28, 29, 30, 31},
		{5, 10, 15, 20, 25, 30},
	}

	for _, days := range cases {
		mask, err := EncodeMonthMask(days)
		require.NoError(t, err)
		assert.Equal(t, days, DecodeMonthMask(mask))
	}

	// Every single-bit mask survives the round trip too.
	for d := 1; d <= MonthDays; d++ {
		mask, err := EncodeMonthMask([]int{d})
		require.NoError(t, err)
		assert.Equal(t, 1<<(d-1), mask)
		assert.Equal(t, []int{d}, DecodeMonthMask(mask))
	}
}

func TestEncodeWeekMaskKnownValue(t *testing.T) {
	mask, err := EncodeWeekMask([]int{1, 3})
	require.NoError(t, err)
	assert.Equal(t, 0b0001010, mask)

	mask, err = EncodeWeekMask([]int{0, 1})
	require.NoError(t, err)
	assert.Equal(t, 3, mask)
}

func TestEncodeMonthMaskKnownValue(t *testing.T) {
	mask, err := EncodeMonthMask([]int{1, 16})
	require.NoError(t, err)
	assert.Equal(t, 32769, mask)
}

func TestEncodeRejectsOutOfRange(t *testing.T) {
	_, err := EncodeWeekMask([]int{1, 7})
	assert.True(t, errors.Is(err, ErrInvalidDay))

	_, err = EncodeWeekMask([]int{-1})
	assert.True(t, errors.Is(err, ErrInvalidDay))

	_, err = EncodeMonthMask([]int{0})
	assert.True(t, errors.Is(err, ErrInvalidDay))

	_, err = EncodeMonthMask([]int{32})
	assert.True(t, errors.Is(err, ErrInvalidDay))
}

func TestMaskHas(t *testing.T) {
	assert.True(t, WeekMaskHas(0b0001010, 1))
	assert.False(t, WeekMaskHas(0b0001010, 2))
	assert.False(t, WeekMaskHas(FullWeekMask, 7))

	mask, _ := EncodeMonthMask([]int{31})
	assert.True(t, MonthMaskHas(mask, 31))
	assert.False(t, MonthMaskHas(mask, 30))
	assert.False(t, MonthMaskHas(mask, 0))
}

func TestUniqueSorted(t *testing.T) {
	assert.Equal(t, []int{1, 3, 5}, UniqueSorted([]int{5, 1, 3, 1, 5}))
	assert.Equal(t, []int{}, UniqueSorted(nil))
}

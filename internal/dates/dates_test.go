package dates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormalize_StripsTimeInCanonicalZone(t *testing.T) {
	// 23:30 UTC on June 1 is already June 2 in Manila.
	in := time.Date(2025, 6, 1, 23, 30, 0, 0, time.UTC)
	got := Normalize(in)

	assert.Equal(t, 2025, got.Year())
	assert.Equal(t, time.June, got.Month())
	assert.Equal(t, 2, got.Day())
	assert.Equal(t, 0, got.Hour())
	assert.Equal(t, Location, got.Location())
}

func TestDaysBetween_Signed(t *testing.T) {
	jun1 := time.Date(2025, 6, 1, 0, 0, 0, 0, Location)
	jun3 := time.Date(2025, 6, 3, 0, 0, 0, 0, Location)

	assert.Equal(t, 2, DaysBetween(jun1, jun3))
	assert.Equal(t, -2, DaysBetween(jun3, jun1))
	assert.Equal(t, 0, DaysBetween(jun1, jun1))
}

func TestLengthOfStay_SameDayBillsOneDay(t *testing.T) {
	jun1 := time.Date(2025, 6, 1, 0, 0, 0, 0, Location)
	jun3 := time.Date(2025, 6, 3, 0, 0, 0, 0, Location)

	assert.Equal(t, 1, LengthOfStay(jun1, jun1))
	assert.Equal(t, 2, LengthOfStay(jun1, jun3))
}

func TestOverlaps_InclusiveBounds(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2025, 6, d, 0, 0, 0, 0, Location) }

	// Shared boundary day counts as overlap.
	assert.True(t, Overlaps(day(1), day(3), day(3), day(5)))
	// Single-day stay inside a longer range.
	assert.True(t, Overlaps(day(2), day(2), day(1), day(3)))
	// Identical single days.
	assert.True(t, Overlaps(day(2), day(2), day(2), day(2)))
	// Disjoint.
	assert.False(t, Overlaps(day(1), day(2), day(3), day(5)))
	assert.False(t, Overlaps(day(6), day(8), day(3), day(5)))
}

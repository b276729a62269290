// Package dates centralizes calendar arithmetic for check-in/check-out
// handling. Every date the service compares is first normalized to midnight
// in one canonical timezone, so boundary comparisons never shift by a day
// depending on the caller's offset.
package dates

import "time"

// Location is the canonical timezone for all stay-date arithmetic.
var Location = loadLocation()

func loadLocation() *time.Location {
	loc, err := time.LoadLocation("Asia/Manila")
	if err != nil {
		// No tzdata on the host; Manila has no DST so a fixed offset is exact.
		return time.FixedZone("PHT", 8*60*60)
	}
	return loc
}

// Normalize truncates t to midnight in the canonical timezone.
func Normalize(t time.Time) time.Time {
	t = t.In(Location)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, Location)
}

// DaysBetween returns the signed number of whole days from one date to the
// other. Both arguments are normalized first.
func DaysBetween(from, to time.Time) int {
	from, to = Normalize(from), Normalize(to)
	return int(to.Sub(from).Hours() / 24)
}

// LengthOfStay returns the billable nights for a stay. A same-day stay still
// occupies the bed and bills one day.
func LengthOfStay(checkIn, checkOut time.Time) int {
	days := DaysBetween(checkIn, checkOut)
	if days < 1 {
		return 1
	}
	return days
}

// Overlaps reports whether two closed date intervals share at least one day:
// aIn <= bOut && aOut >= bIn. Inclusive on both bounds, so a single-day stay
// (check_in == check_out) still collides with anything covering that day.
func Overlaps(aIn, aOut, bIn, bOut time.Time) bool {
	return !Normalize(aIn).After(Normalize(bOut)) && !Normalize(aOut).Before(Normalize(bIn))
}

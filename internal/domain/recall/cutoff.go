package recall

import "time"

const DefaultMonths = 6

// SubtractMonths moves day back by whole calendar months. When the target
// month is shorter the result is clamped to its last day, so Aug 31 minus
// six months is Feb 28 (or 29), never early March.
func SubtractMonths(day time.Time, months int) time.Time {
	y, m, d := day.Date()

	target := time.Date(y, m-time.Month(months), 1, 0, 0, 0, 0, day.Location())
	last := daysIn(target.Year(), target.Month())
	if d > last {
		d = last
	}

	return time.Date(target.Year(), target.Month(), d, 0, 0, 0, 0, day.Location())
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Cutoff is the latest last-visit day that still makes a patient overdue.
func Cutoff(today time.Time, months int) time.Time {
	if months <= 0 {
		months = DefaultMonths
	}
	return SubtractMonths(today, months)
}

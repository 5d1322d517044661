// Package ledger holds small pure helpers shared by the balance calculator
// and transfer matcher: calendar normalization and daily flow aggregation.
package ledger

import "time"

// NormalizeDate truncates t to UTC midnight. Every entry date, balance date
// and rate date in the system is stored in this form so that (account, date)
// keys compare exactly.
func NormalizeDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of whole days from from to to, both
// normalized. Zero when equal, negative when to precedes from.
func DaysBetween(from, to time.Time) int {
	f := NormalizeDate(from)
	t := NormalizeDate(to)
	return int(t.Sub(f).Hours() / 24)
}

// EachDay walks every date from from through to inclusive, ascending, calling
// fn with the normalized date. It is a no-op when to precedes from.
func EachDay(from, to time.Time, fn func(day time.Time)) {
	for d := NormalizeDate(from); !d.After(NormalizeDate(to)); d = d.AddDate(0, 0, 1) {
		fn(d)
	}
}

// AbsDays returns the absolute day distance between two dates.
func AbsDays(a, b time.Time) int {
	d := DaysBetween(a, b)
	if d < 0 {
		return -d
	}
	return d
}

package app

import (
	"fmt"
	"time"

	"github.com/bft-labs/docship/internal/domain"
)

// checkFreshness reports ErrStale unless created advanced by months is
// strictly after now. A document exactly months old is stale.
func checkFreshness(created, now time.Time, months int) error {
	expires := addMonths(created, months)
	if !expires.After(now) {
		return fmt.Errorf("%w: created %s, expired %s", domain.ErrStale,
			created.Format(time.RFC3339), expires.Format(time.RFC3339))
	}
	return nil
}

// addMonths adds calendar months to t. When the target month is shorter
// than t's day of month, the day is clamped to the target month's last day
// (Jan 31 + 1 month = Feb 28, or Feb 29 in a leap year). Clock time and
// location are preserved.
func addMonths(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	hour, min, sec := t.Clock()

	// First of the target month, normalized by time.Date.
	first := time.Date(year, month+time.Month(months), 1, 0, 0, 0, 0, t.Location())
	if last := daysIn(first.Year(), first.Month(), t.Location()); day > last {
		day = last
	}

	return time.Date(first.Year(), first.Month(), day, hour, min, sec, t.Nanosecond(), t.Location())
}

func daysIn(year int, month time.Month, loc *time.Location) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
}

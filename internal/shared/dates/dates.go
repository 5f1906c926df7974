package dates

import (
	"fmt"
	"time"

	"github.com/diillson/aws-cost-report-go/internal/shared/types"
)

const layout = "2006-01-02"

// maxRangeDays is the widest span Cost Explorer is asked for in one report.
const maxRangeDays = 365

// CurrentMonthBounds returns the default reporting period: the first day of the
// month containing now through the first day of the next month. The end is
// exclusive, matching the Cost Explorer DateInterval convention.
func CurrentMonthBounds(now time.Time) (time.Time, time.Time) {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

// Parse normalizes a YYYY-MM-DD date string.
func Parse(value string) (time.Time, error) {
	t, err := time.Parse(layout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", types.ErrInvalidDate, value)
	}
	return t, nil
}

// ResolveRange parses the start/end arguments, applying the current-month
// defaults when either is empty, and validates the result against now:
// start must not be after today, start must precede end, and the span must not
// exceed 365 days (a 365-day range is accepted, 366 is not).
func ResolveRange(startArg, endArg string, now time.Time) (time.Time, time.Time, error) {
	start, end := CurrentMonthBounds(now)

	var err error
	if startArg != "" {
		if start, err = Parse(startArg); err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	if endArg != "" {
		if end, err = Parse(endArg); err != nil {
			return time.Time{}, time.Time{}, err
		}
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if start.After(today) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %s", types.ErrStartInFuture, start.Format(layout))
	}
	if !start.Before(end) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %s >= %s", types.ErrInvertedRange, start.Format(layout), end.Format(layout))
	}
	if end.Sub(start) > maxRangeDays*24*time.Hour {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %s to %s", types.ErrRangeTooLarge, start.Format(layout), end.Format(layout))
	}

	return start, end, nil
}

// Format renders a date in the YYYY-MM-DD wire format.
func Format(t time.Time) string {
	return t.Format(layout)
}

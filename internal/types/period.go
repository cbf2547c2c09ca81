// README: Billing period (calendar month) value type.
package types

import (
	"fmt"
	"time"
)

// Period is a half-open time window [Start, End). Billing runs use calendar
// months but nothing below assumes month alignment.
type Period struct {
	Start time.Time
	End   time.Time
}

// MonthOf returns the calendar-month period containing the given year/month
// in UTC.
func MonthOf(year int, month time.Month) Period {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return Period{Start: start, End: start.AddDate(0, 1, 0)}
}

// ParseMonth parses "2006-01" into its calendar-month period.
func ParseMonth(s string) (Period, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Period{}, fmt.Errorf("period: bad month %q: %w", s, err)
	}
	return MonthOf(t.Year(), t.Month()), nil
}

// Contains reports whether t falls inside the period. The end bound is
// exclusive, so a trip starting exactly at End belongs to the next period.
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.Start) && t.Before(p.End)
}

// Month renders the period's start month as "2006-01".
func (p Period) Month() string {
	return p.Start.Format("2006-01")
}

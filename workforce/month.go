package workforce

import (
	"time"
)

// =============================================================================
// MONTHS - Fixed display window and the previous-month key
// =============================================================================

// MonthLabels is the fixed three-month window shown on the board. It does not
// follow the calendar; earnings use PrevMonthKey instead.
var MonthLabels = [3]string{"May", "June", "July"}

// MonthKeyLayout is the layout of MonthlyCost.Month.
const MonthKeyLayout = "2006-01"

// PrevMonthKey returns "YYYY-MM" for the calendar month before now, in now's
// location.
func PrevMonthKey(now time.Time) string {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return first.AddDate(0, -1, 0).Format(MonthKeyLayout)
}

// monthRate finds the utilisation rate for label. nil when not listed.
func monthRate(entries []MonthUtilisation, label string) *string {
	for _, e := range entries {
		if e.Month == label {
			return e.UtilisationRate
		}
	}
	return nil
}

// costFor finds the cost string booked for month. ok is false when absent.
func costFor(entries []MonthlyCost, month string) (string, bool) {
	for _, e := range entries {
		if e.Month == month {
			return e.Costs, true
		}
	}
	return "", false
}

// Clock supplies the current time. Tests pin it.
type Clock func() time.Time

package employee

import "time"

// Month returns the quota month key ("2006-01") for t.
func Month(t time.Time) string {
	return t.Format("2006-01")
}

// ResetIfStale zeroes the consumed counter when the employee's quota month
// is not month. Returns true when a reset happened.
func ResetIfStale(e *Employee, month string) bool {
	if e.LastResetMonth == month {
		return false
	}
	e.CurrentMonthPickups = 0
	e.LastResetMonth = month
	return true
}

// ApplyPickupDelta adjusts the consumed counter by quantity (positive on
// schedule, negative on cancel), resetting a stale month first. The counter
// never goes below zero.
func ApplyPickupDelta(e *Employee, quantity int, month string) {
	ResetIfStale(e, month)
	e.CurrentMonthPickups += quantity
	if e.CurrentMonthPickups < 0 {
		e.CurrentMonthPickups = 0
	}
}

// Remaining reports how many units the employee may still schedule in month.
func Remaining(e *Employee, month string) int {
	if e.LastResetMonth != month {
		return e.MonthlyLimit
	}
	return e.MonthlyLimit - e.CurrentMonthPickups
}

// ExceedsLimit reports whether scheduling quantity more units would push the
// employee past the monthly limit.
func ExceedsLimit(e *Employee, quantity int, month string) bool {
	return quantity > Remaining(e, month)
}

package loancalc

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment grading thresholds, in days past the due date.
const (
	onTimeMaxDays = 5
	lateMaxDays   = 30
)

// MonthsUntilDue returns the number of whole months between now and the due
// date, floored at zero. The projection is deliberately month-granular:
// day-of-month is ignored, so a due date one day into next month counts as
// one month away and a due date in the current year/month counts as zero.
func MonthsUntilDue(dueDate, now time.Time) int {
	months := (dueDate.Year()-now.Year())*12 + int(dueDate.Month()) - int(now.Month())
	if months < 0 {
		return 0
	}
	return months
}

// EstimateInterest computes simple, non-compounding interest scaled linearly
// by whole months remaining: principal * rate * months / 100. The rate is a
// percentage (5 means 5%).
func EstimateInterest(principal, rate decimal.Decimal, months int) decimal.Decimal {
	return principal.
		Mul(rate).
		Mul(decimal.NewFromInt(int64(months))).
		Div(decimal.NewFromInt(100))
}

// GradePayment classifies a payment by how many days after the due date it
// was recorded: within 5 days is "On Time", 6 to 30 days is "Late", more than
// 30 days is "Defaulted". Payments made before the due date grade "On Time".
func GradePayment(paymentDate, dueDate time.Time) string {
	days := int(paymentDate.Sub(dueDate).Hours() / 24)

	switch {
	case days <= onTimeMaxDays:
		return "On Time"
	case days <= lateMaxDays:
		return "Late"
	default:
		return "Defaulted"
	}
}

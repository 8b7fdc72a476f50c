package domain

import (
	"github.com/shopspring/decimal"
)

// LoanPayment is a single payment event recorded against a loan. The loan
// field, when present, is the denormalized snapshot attached by the upstream
// loanPayments resolver.
type LoanPayment struct {
	ID          int             `json:"id"`
	LoanID      int             `json:"loan_id"`
	Amount      decimal.Decimal `json:"amount"`
	PaymentDate Date            `json:"payment_date"`
	Status      string          `json:"status"`
	Loan        *LoanSnapshot   `json:"loan,omitempty"`
}

// PaymentHistory is the composed payment-history view for one loan: the
// payment rows in source order, the aggregate amount paid, and the simple
// interest projected from the first row's loan snapshot. When the due date
// has passed (or no snapshot is available) Interest is nil and DueDatePassed
// distinguishes "overdue" from "nothing owed".
type PaymentHistory struct {
	LoanID         int              `json:"loan_id"`
	Payments       []*PaymentRow    `json:"payments"`
	AggregateTotal decimal.Decimal  `json:"aggregate_total"`
	Interest       *decimal.Decimal `json:"interest,omitempty"`
	MonthsUntilDue int              `json:"months_until_due"`
	DueDatePassed  bool             `json:"due_date_passed"`
}

// PaymentRow is a payment decorated with its display category.
type PaymentRow struct {
	*LoanPayment
	Category Category `json:"category"`
}

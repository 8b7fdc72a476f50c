package client

import (
	"context"

	"github.com/loandesk/dashboard/internal/domain"
	"github.com/shopspring/decimal"
)

// LoanFilter narrows the loans query.
type LoanFilter struct {
	ID      *int         `json:"id,omitempty"`
	Name    *string      `json:"name,omitempty"`
	DueDate *domain.Date `json:"due_date,omitempty"`
}

// PaymentFilter narrows the loanPayments query.
type PaymentFilter struct {
	ID     *int    `json:"id,omitempty"`
	LoanID *int    `json:"loan_id,omitempty"`
	Status *string `json:"status,omitempty"`
}

// QueryClient is the read path against the external loan API.
type QueryClient interface {
	// Loans retrieves the loan collection. With combined=true each loan
	// carries its latest payment date and graded status; otherwise the
	// payments collection is embedded instead.
	Loans(ctx context.Context, filter *LoanFilter, combined bool) ([]*domain.Loan, error)

	// LoanPayments retrieves payment rows, each optionally embedding the
	// denormalized loan snapshot.
	LoanPayments(ctx context.Context, filter *PaymentFilter) ([]*domain.LoanPayment, error)

	// UpdateLoan and DeleteLoan are declared by the upstream schema. No view
	// flow routes to them; they exist for callers extending the system.
	UpdateLoan(ctx context.Context, loanID int) (*domain.Loan, error)
	DeleteLoan(ctx context.Context, loanID int) (bool, error)
}

// PaymentClient is the write path: the payment submission command, distinct
// from the query interface. Submission is atomic from the caller's
// perspective; there is no partial-success state and no retry here.
type PaymentClient interface {
	Submit(ctx context.Context, loanID int, amount decimal.Decimal) error
}

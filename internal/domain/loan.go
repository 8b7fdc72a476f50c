package domain

import (
	"github.com/shopspring/decimal"
)

// Payment status values as graded by the upstream service
const (
	StatusOnTime    = "On Time"
	StatusLate      = "Late"
	StatusDefaulted = "Defaulted"
	StatusUnpaid    = "Unpaid"
)

// Loan represents a loan record owned by the upstream service. The combined
// projection (isCombined=true) carries the latest payment date and its graded
// status; the expanded projection embeds the payment collection instead.
type Loan struct {
	ID           int             `json:"id"`
	Name         string          `json:"name"`
	InterestRate decimal.Decimal `json:"interest_rate"`
	Principal    decimal.Decimal `json:"principal"`
	DueDate      Date            `json:"due_date"`
	PaymentDate  *Date           `json:"payment_date,omitempty"`
	Status       string          `json:"status,omitempty"`
	Payments     []*LoanPayment  `json:"payments,omitempty"`
}

// LoanSnapshot is the read-only projection of a loan's static fields embedded
// in each payment row. It is a copy taken at query time, not a live reference.
type LoanSnapshot struct {
	InterestRate decimal.Decimal `json:"interest_rate"`
	Principal    decimal.Decimal `json:"principal"`
	DueDate      Date            `json:"due_date"`
}

// DTOs for the dashboard API

type ListRequest struct {
	Query     string `json:"query"`
	SortField string `json:"sort_field" validate:"omitempty,oneof=id name interest_rate principal due_date payment_date status"`
	SortOrder string `json:"sort_order" validate:"omitempty,oneof=asc desc"`
	Page      int    `json:"page" validate:"omitempty,gte=1"`
	PageSize  int    `json:"page_size" validate:"omitempty,oneof=5 10 25"`
}

type LoanPage struct {
	Loans      []*Loan `json:"loans"`
	Page       int     `json:"page"`
	PageSize   int     `json:"page_size"`
	TotalCount int     `json:"total_count"`
}

type SubmitPaymentRequest struct {
	Amount decimal.Decimal `json:"amount" validate:"required"`
}

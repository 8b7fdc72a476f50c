package errors

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrInvalidPaymentAmount = errors.New("invalid payment amount")
	ErrLoanFetchFailed      = errors.New("failed to load loans")
	ErrPaymentFetchFailed   = errors.New("failed to load payment history")
	ErrSubmissionFailed     = errors.New("payment submission failed")
	ErrUpstreamError        = errors.New("upstream service error")
)

// ViewError is a user-presentable error carrying a stable code. Every failure
// in the dashboard is converted into one of these at the component that issued
// the request; nothing propagates past the view layer.
type ViewError struct {
	Code    string
	Message string
	Err     error
}

func (e *ViewError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ViewError) Unwrap() error {
	return e.Err
}

func NewViewError(code, message string, err error) *ViewError {
	return &ViewError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Error codes
const (
	ErrCodeInvalidPaymentAmount = "INVALID_PAYMENT_AMOUNT"
	ErrCodeLoanFetchFailed      = "LOAN_FETCH_FAILED"
	ErrCodePaymentFetchFailed   = "PAYMENT_FETCH_FAILED"
	ErrCodeSubmissionFailed     = "PAYMENT_SUBMISSION_FAILED"
	ErrCodeUpstreamError        = "UPSTREAM_ERROR"
	ErrCodeCacheError           = "CACHE_ERROR"
)

// Wrap common errors with view context

func WrapInvalidPaymentAmount() *ViewError {
	return NewViewError(
		ErrCodeInvalidPaymentAmount,
		"Please enter a valid amount",
		ErrInvalidPaymentAmount,
	)
}

func WrapLoanFetchFailed(err error) *ViewError {
	return NewViewError(
		ErrCodeLoanFetchFailed,
		"could not load loans",
		errors.Join(ErrLoanFetchFailed, err),
	)
}

func WrapPaymentFetchFailed(loanID int, err error) *ViewError {
	return NewViewError(
		ErrCodePaymentFetchFailed,
		fmt.Sprintf("could not load payments for loan %d", loanID),
		errors.Join(ErrPaymentFetchFailed, err),
	)
}

func WrapSubmissionFailed(loanID int, err error) *ViewError {
	return NewViewError(
		ErrCodeSubmissionFailed,
		fmt.Sprintf("payment for loan %d failed", loanID),
		errors.Join(ErrSubmissionFailed, err),
	)
}

func WrapUpstreamError(err error) *ViewError {
	return NewViewError(
		ErrCodeUpstreamError,
		"upstream service request failed",
		errors.Join(ErrUpstreamError, err),
	)
}

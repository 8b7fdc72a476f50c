package mocks

import (
	"context"

	"github.com/loandesk/dashboard/internal/client"
	"github.com/loandesk/dashboard/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type MockQueryClient struct {
	mock.Mock
}

func (m *MockQueryClient) Loans(ctx context.Context, filter *client.LoanFilter, combined bool) ([]*domain.Loan, error) {
	args := m.Called(ctx, filter, combined)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Loan), args.Error(1)
}

func (m *MockQueryClient) LoanPayments(ctx context.Context, filter *client.PaymentFilter) ([]*domain.LoanPayment, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.LoanPayment), args.Error(1)
}

func (m *MockQueryClient) UpdateLoan(ctx context.Context, loanID int) (*domain.Loan, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}

func (m *MockQueryClient) DeleteLoan(ctx context.Context, loanID int) (bool, error) {
	args := m.Called(ctx, loanID)
	return args.Bool(0), args.Error(1)
}

type MockPaymentClient struct {
	mock.Mock
}

func (m *MockPaymentClient) Submit(ctx context.Context, loanID int, amount decimal.Decimal) error {
	args := m.Called(ctx, loanID, amount)
	return args.Error(0)
}

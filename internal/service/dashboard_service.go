package service

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/loandesk/dashboard/internal/cache"
	"github.com/loandesk/dashboard/internal/client"
	"github.com/loandesk/dashboard/internal/domain"
	viewerrors "github.com/loandesk/dashboard/pkg/errors"
	"github.com/loandesk/dashboard/pkg/loancalc"
	"github.com/shopspring/decimal"
)

// AllowedPageSizes are the page sizes the grid offers.
var AllowedPageSizes = []int{5, 10, 25}

// DashboardService composes the loan grid, the payment-history view and the
// payment-submission flow on top of the external query and payment clients.
// Reads go through the query cache when one is configured; reconciliation
// after a successful payment is a cache drop plus full refetch, never an
// incremental patch.
type DashboardService struct {
	queries         client.QueryClient
	payments        client.PaymentClient
	cache           *cache.QueryCache
	logger          *slog.Logger
	defaultPageSize int
	now             func() time.Time
}

func NewDashboardService(
	queries client.QueryClient,
	payments client.PaymentClient,
	queryCache *cache.QueryCache,
	logger *slog.Logger,
	defaultPageSize int,
) *DashboardService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DashboardService{
		queries:         queries,
		payments:        payments,
		cache:           queryCache,
		logger:          logger,
		defaultPageSize: defaultPageSize,
		now:             time.Now,
	}
}

// LoanList returns one page of the combined loan grid after applying the
// quick filter and column sort.
func (s *DashboardService) LoanList(ctx context.Context, req domain.ListRequest) (*domain.LoanPage, error) {
	loans, err := s.loadLoans(ctx)
	if err != nil {
		return nil, viewerrors.WrapLoanFetchFailed(err)
	}

	filtered := quickFilter(loans, req.Query)
	sortLoans(filtered, req.SortField, req.SortOrder)

	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	if !IsAllowedPageSize(pageSize) {
		pageSize = s.defaultPageSize
	}

	start := (page - 1) * pageSize
	if start > len(filtered) {
		start = len(filtered)
	}
	end := start + pageSize
	if end > len(filtered) {
		end = len(filtered)
	}

	return &domain.LoanPage{
		Loans:      filtered[start:end],
		Page:       page,
		PageSize:   pageSize,
		TotalCount: len(filtered),
	}, nil
}

// PaymentHistory loads the payment rows for one loan, in the order the source
// returned them, with the aggregate total and the interest projection taken
// from the first row's loan snapshot.
func (s *DashboardService) PaymentHistory(ctx context.Context, loanID int) (*domain.PaymentHistory, error) {
	payments, err := s.loadPayments(ctx, loanID)
	if err != nil {
		return nil, viewerrors.WrapPaymentFetchFailed(loanID, err)
	}

	history := &domain.PaymentHistory{
		LoanID:         loanID,
		Payments:       make([]*domain.PaymentRow, 0, len(payments)),
		AggregateTotal: decimal.Zero,
	}

	for _, payment := range payments {
		history.AggregateTotal = history.AggregateTotal.Add(payment.Amount)
		history.Payments = append(history.Payments, &domain.PaymentRow{
			LoanPayment: payment,
			Category:    domain.ClassifyStatus(payment.Status),
		})
	}

	// The first row's snapshot stands in for the parent loan's static fields;
	// all rows for one loan are assumed to carry identical snapshots.
	if len(payments) > 0 && payments[0].Loan != nil {
		snapshot := payments[0].Loan
		months := loancalc.MonthsUntilDue(snapshot.DueDate.Time, s.now())
		history.MonthsUntilDue = months

		if months == 0 {
			history.DueDatePassed = true
		} else {
			interest := loancalc.EstimateInterest(snapshot.Principal, snapshot.InterestRate, months)
			history.Interest = &interest
		}
	}

	return history, nil
}

// SubmitPayment validates the amount locally, hands the submission to the
// payment client, and on success drops the affected cache entries so the next
// render refetches. An invalid amount never reaches the network.
func (s *DashboardService) SubmitPayment(ctx context.Context, loanID int, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return viewerrors.WrapInvalidPaymentAmount()
	}

	if err := s.payments.Submit(ctx, loanID, amount); err != nil {
		return viewerrors.WrapSubmissionFailed(loanID, err)
	}

	if s.cache != nil {
		if err := s.cache.InvalidateLoan(ctx, loanID); err != nil {
			// The payment went through; a stale cache entry only delays the
			// refreshed view until the TTL lapses.
			s.logger.Warn("cache invalidation failed", "loan_id", loanID, "error", err)
		}
	}

	s.logger.Info("payment submitted", "loan_id", loanID, "amount", amount.String())
	return nil
}

// RefreshLoans refetches the combined loan list from upstream and replaces
// the cache entry. Used by the refresher binary and after successful payments.
func (s *DashboardService) RefreshLoans(ctx context.Context) error {
	loans, err := s.queries.Loans(ctx, nil, true)
	if err != nil {
		return viewerrors.WrapLoanFetchFailed(err)
	}
	s.gradeLoans(loans)

	if s.cache != nil {
		if err := s.cache.SetLoans(ctx, loans); err != nil {
			return err
		}
	}

	s.logger.Info("loan list refreshed", "count", len(loans))
	return nil
}

func (s *DashboardService) loadLoans(ctx context.Context) ([]*domain.Loan, error) {
	if s.cache != nil {
		loans, err := s.cache.GetLoans(ctx)
		if err == nil {
			return loans, nil
		}
		if !errors.Is(err, cache.ErrMiss) {
			s.logger.Warn("loan cache read failed", "error", err)
		}
	}

	loans, err := s.queries.Loans(ctx, nil, true)
	if err != nil {
		return nil, err
	}
	s.gradeLoans(loans)

	if s.cache != nil {
		if err := s.cache.SetLoans(ctx, loans); err != nil {
			s.logger.Warn("loan cache write failed", "error", err)
		}
	}

	return loans, nil
}

// gradeLoans fills in the status of combined rows the upstream left blank:
// graded from the latest payment date against the due date when a payment
// exists, "Unpaid" when none does. Rows arriving with a status keep it.
func (s *DashboardService) gradeLoans(loans []*domain.Loan) {
	for _, loan := range loans {
		if loan.Status != "" {
			continue
		}
		if loan.PaymentDate == nil {
			loan.Status = domain.StatusUnpaid
			continue
		}
		loan.Status = loancalc.GradePayment(loan.PaymentDate.Time, loan.DueDate.Time)
	}
}

func (s *DashboardService) loadPayments(ctx context.Context, loanID int) ([]*domain.LoanPayment, error) {
	if s.cache != nil {
		payments, err := s.cache.GetPayments(ctx, loanID)
		if err == nil {
			return payments, nil
		}
		if !errors.Is(err, cache.ErrMiss) {
			s.logger.Warn("payment cache read failed", "loan_id", loanID, "error", err)
		}
	}

	payments, err := s.queries.LoanPayments(ctx, &client.PaymentFilter{LoanID: &loanID})
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetPayments(ctx, loanID, payments); err != nil {
			s.logger.Warn("payment cache write failed", "loan_id", loanID, "error", err)
		}
	}

	return payments, nil
}

// IsAllowedPageSize reports whether the grid offers the given page size.
func IsAllowedPageSize(size int) bool {
	for _, allowed := range AllowedPageSizes {
		if size == allowed {
			return true
		}
	}
	return false
}

// DefaultPageSize returns the configured default grid page size.
func (s *DashboardService) DefaultPageSize() int {
	return s.defaultPageSize
}

// quickFilter keeps loans whose visible column values contain the query text,
// case-insensitively. An empty query keeps everything.
func quickFilter(loans []*domain.Loan, query string) []*domain.Loan {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return append([]*domain.Loan(nil), loans...)
	}

	filtered := make([]*domain.Loan, 0, len(loans))
	for _, loan := range loans {
		if loanMatches(loan, query) {
			filtered = append(filtered, loan)
		}
	}
	return filtered
}

func loanMatches(loan *domain.Loan, query string) bool {
	fields := []string{
		loan.Name,
		loan.Status,
		loan.InterestRate.String(),
		loan.Principal.String(),
		loan.DueDate.String(),
	}
	if loan.PaymentDate != nil {
		fields = append(fields, loan.PaymentDate.String())
	}

	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	return false
}

func sortLoans(loans []*domain.Loan, field, order string) {
	if field == "" {
		return
	}

	less := lessFunc(field)
	if less == nil {
		return
	}

	sort.SliceStable(loans, func(i, j int) bool {
		if order == "desc" {
			return less(loans[j], loans[i])
		}
		return less(loans[i], loans[j])
	})
}

func lessFunc(field string) func(a, b *domain.Loan) bool {
	switch field {
	case "id":
		return func(a, b *domain.Loan) bool { return a.ID < b.ID }
	case "name":
		return func(a, b *domain.Loan) bool { return a.Name < b.Name }
	case "interest_rate":
		return func(a, b *domain.Loan) bool { return a.InterestRate.LessThan(b.InterestRate) }
	case "principal":
		return func(a, b *domain.Loan) bool { return a.Principal.LessThan(b.Principal) }
	case "due_date":
		return func(a, b *domain.Loan) bool { return a.DueDate.Before(b.DueDate.Time) }
	case "payment_date":
		return func(a, b *domain.Loan) bool {
			switch {
			case a.PaymentDate == nil:
				return b.PaymentDate != nil
			case b.PaymentDate == nil:
				return false
			default:
				return a.PaymentDate.Before(b.PaymentDate.Time)
			}
		}
	case "status":
		return func(a, b *domain.Loan) bool { return a.Status < b.Status }
	default:
		return nil
	}
}

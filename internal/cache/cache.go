package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/loandesk/dashboard/internal/domain"
	"github.com/redis/go-redis/v9"
)

const (
	loansKey       = "dashboard:loans:combined"
	paymentsKeyFmt = "dashboard:loan:%d:payments"
)

// ErrMiss is returned when the requested entry is absent or expired.
var ErrMiss = errors.New("cache miss")

// QueryCache is the shared read cache in front of the query client. Entries
// are replaced wholesale, never patched: after a successful payment the
// affected keys are deleted and the next read refetches.
type QueryCache struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewQueryCache(redisClient *redis.Client, ttl time.Duration) *QueryCache {
	return &QueryCache{
		redis: redisClient,
		ttl:   ttl,
	}
}

// GetLoans returns the cached combined loan list.
func (c *QueryCache) GetLoans(ctx context.Context) ([]*domain.Loan, error) {
	payload, err := c.redis.Get(ctx, loansKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, fmt.Errorf("reading loan cache: %w", err)
	}

	var loans []*domain.Loan
	if err := json.Unmarshal(payload, &loans); err != nil {
		return nil, fmt.Errorf("decoding loan cache: %w", err)
	}

	return loans, nil
}

// SetLoans replaces the cached combined loan list.
func (c *QueryCache) SetLoans(ctx context.Context, loans []*domain.Loan) error {
	payload, err := json.Marshal(loans)
	if err != nil {
		return fmt.Errorf("encoding loan cache: %w", err)
	}

	if err := c.redis.Set(ctx, loansKey, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("writing loan cache: %w", err)
	}

	return nil
}

// GetPayments returns the cached payment list for one loan.
func (c *QueryCache) GetPayments(ctx context.Context, loanID int) ([]*domain.LoanPayment, error) {
	payload, err := c.redis.Get(ctx, fmt.Sprintf(paymentsKeyFmt, loanID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, fmt.Errorf("reading payment cache: %w", err)
	}

	var payments []*domain.LoanPayment
	if err := json.Unmarshal(payload, &payments); err != nil {
		return nil, fmt.Errorf("decoding payment cache: %w", err)
	}

	return payments, nil
}

// SetPayments replaces the cached payment list for one loan.
func (c *QueryCache) SetPayments(ctx context.Context, loanID int, payments []*domain.LoanPayment) error {
	payload, err := json.Marshal(payments)
	if err != nil {
		return fmt.Errorf("encoding payment cache: %w", err)
	}

	if err := c.redis.Set(ctx, fmt.Sprintf(paymentsKeyFmt, loanID), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("writing payment cache: %w", err)
	}

	return nil
}

// InvalidateLoan drops the loan list entry and the payment entry for the
// given loan. Called after a successful payment submission so the next view
// render refetches.
func (c *QueryCache) InvalidateLoan(ctx context.Context, loanID int) error {
	if err := c.redis.Del(ctx, loansKey, fmt.Sprintf(paymentsKeyFmt, loanID)).Err(); err != nil {
		return fmt.Errorf("invalidating cache for loan %d: %w", loanID, err)
	}

	return nil
}

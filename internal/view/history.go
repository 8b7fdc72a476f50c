package view

import (
	"context"
	"sync"

	"github.com/loandesk/dashboard/internal/domain"
)

type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseLoading Phase = "loading"
	PhaseReady   Phase = "ready"
	PhaseFailed  Phase = "failed"
)

// HistoryLoader is the payment-history read path as the controller sees it.
type HistoryLoader interface {
	PaymentHistory(ctx context.Context, loanID int) (*domain.PaymentHistory, error)
}

// HistorySnapshot is what the history view renders: exactly one of loading,
// ready (with data) or failed (with the underlying message). Stale data is
// never shown alongside a loading indicator.
type HistorySnapshot struct {
	Phase   Phase                  `json:"phase"`
	History *domain.PaymentHistory `json:"history,omitempty"`
	Error   string                 `json:"error,omitempty"`
}

// HistoryController loads payment history for the selected loan. Each load is
// tagged with a monotonically increasing sequence number; a completion that
// is no longer the latest issued is discarded instead of rendered, so a slow
// response for a superseded selection can never overwrite a newer one.
type HistoryController struct {
	mu       sync.Mutex
	seq      uint64
	snapshot HistorySnapshot
	loader   HistoryLoader
}

func NewHistoryController(loader HistoryLoader) *HistoryController {
	return &HistoryController{
		loader:   loader,
		snapshot: HistorySnapshot{Phase: PhaseIdle},
	}
}

// Load fetches the payment history for loanID and returns it. The held
// snapshot transitions to loading immediately and to ready or failed when
// this load is still the latest one issued.
func (c *HistoryController) Load(ctx context.Context, loanID int) (*domain.PaymentHistory, error) {
	c.mu.Lock()
	c.seq++
	seq := c.seq
	c.snapshot = HistorySnapshot{Phase: PhaseLoading}
	c.mu.Unlock()

	history, err := c.loader.PaymentHistory(ctx, loanID)

	c.mu.Lock()
	defer c.mu.Unlock()

	if seq != c.seq {
		// Superseded by a newer load; drop this result.
		return history, err
	}

	if err != nil {
		c.snapshot = HistorySnapshot{Phase: PhaseFailed, Error: err.Error()}
		return nil, err
	}

	c.snapshot = HistorySnapshot{Phase: PhaseReady, History: history}
	return history, nil
}

// Snapshot returns the current render state.
func (c *HistoryController) Snapshot() HistorySnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot
}

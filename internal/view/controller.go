package view

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	viewerrors "github.com/loandesk/dashboard/pkg/errors"
	"github.com/shopspring/decimal"
)

// ErrNoLoanSelected is returned when a payment is confirmed without a
// selected loan.
var ErrNoLoanSelected = errors.New("no loan selected")

// Submitter is the payment write path as the controller sees it.
type Submitter interface {
	SubmitPayment(ctx context.Context, loanID int, amount decimal.Decimal) error
}

// Reloader refetches the loan list. Invoked exactly once per successful
// submission (reload-as-reconciliation).
type Reloader interface {
	RefreshLoans(ctx context.Context) error
}

// State is the dashboard's transient view state. At most one loan is selected
// at a time; the payment prompt and the in-flight indicator are never both
// set for the same selection.
type State struct {
	SelectedLoanID    *int   `json:"selected_loan_id,omitempty"`
	DetailPanelOpen   bool   `json:"detail_panel_open"`
	PaymentPromptOpen bool   `json:"payment_prompt_open"`
	PaymentInFlight   bool   `json:"payment_in_flight"`
	ValidationMessage string `json:"validation_message,omitempty"`
}

// ListController owns the view state over the loan grid: row selection, the
// detail panel, the payment prompt, and the submission flow.
type ListController struct {
	mu        sync.Mutex
	state     State
	submitter Submitter
	reloader  Reloader
	notices   *NotificationCenter
	logger    *slog.Logger
}

func NewListController(
	submitter Submitter,
	reloader Reloader,
	notices *NotificationCenter,
	logger *slog.Logger,
) *ListController {
	if logger == nil {
		logger = slog.Default()
	}
	return &ListController{
		submitter: submitter,
		reloader:  reloader,
		notices:   notices,
		logger:    logger,
	}
}

// State returns a copy of the current view state.
func (c *ListController) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	state := c.state
	if c.state.SelectedLoanID != nil {
		id := *c.state.SelectedLoanID
		state.SelectedLoanID = &id
	}
	return state
}

// SelectForView selects the loan and opens the detail panel.
func (c *ListController) SelectForView(loanID int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.SelectedLoanID = &loanID
	c.state.DetailPanelOpen = true
}

// SelectForPayment selects the loan and opens the payment prompt.
func (c *ListController) SelectForPayment(loanID int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.SelectedLoanID = &loanID
	c.state.PaymentPromptOpen = true
	c.state.ValidationMessage = ""
}

// CloseDetailPanel closes the panel. The selection is retained, so reopening
// shows the previously selected loan.
func (c *ListController) CloseDetailPanel() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.DetailPanelOpen = false
}

// ClosePaymentPrompt dismisses the prompt without submitting.
func (c *ListController) ClosePaymentPrompt() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.PaymentPromptOpen = false
	c.state.ValidationMessage = ""
}

// ConfirmPayment validates the amount and, when valid, closes the prompt,
// marks the submission in flight and hands off to the submitter. An invalid
// amount surfaces a validation message, keeps the prompt open and makes no
// network call. Success pushes a success notice and triggers exactly one
// reload; failure pushes an error notice and leaves state otherwise
// unchanged.
func (c *ListController) ConfirmPayment(ctx context.Context, amount decimal.Decimal) error {
	c.mu.Lock()

	if c.state.SelectedLoanID == nil {
		c.mu.Unlock()
		return ErrNoLoanSelected
	}
	loanID := *c.state.SelectedLoanID

	if !amount.IsPositive() {
		c.state.ValidationMessage = "Please enter a valid amount"
		c.mu.Unlock()
		return viewerrors.WrapInvalidPaymentAmount()
	}

	c.state.ValidationMessage = ""
	c.state.PaymentPromptOpen = false
	c.state.PaymentInFlight = true
	c.mu.Unlock()

	err := c.submitter.SubmitPayment(ctx, loanID, amount)

	c.mu.Lock()
	c.state.PaymentInFlight = false
	c.mu.Unlock()

	if err != nil {
		c.logger.Error("payment failed", "loan_id", loanID, "error", err)
		c.notices.Push(NoticeError, "Payment Failed, Kindly try again")
		return err
	}

	c.notices.Push(NoticeSuccess, "Payment Success")

	if reloadErr := c.reloader.RefreshLoans(ctx); reloadErr != nil {
		// The payment succeeded; a failed reload only leaves the grid stale
		// until the next fetch.
		c.logger.Warn("reload after payment failed", "loan_id", loanID, "error", reloadErr)
	}

	return nil
}

// Notifications returns the currently visible notices.
func (c *ListController) Notifications() []Notification {
	return c.notices.Active()
}

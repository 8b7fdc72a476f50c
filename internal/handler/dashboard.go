package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/loandesk/dashboard/internal/domain"
	"github.com/loandesk/dashboard/internal/service"
	"github.com/loandesk/dashboard/internal/view"
	viewerrors "github.com/loandesk/dashboard/pkg/errors"
	"github.com/loandesk/dashboard/pkg/response"
)

// DashboardHandler exposes the loan grid, the payment-history view and the
// payment-submission flow over HTTP. It routes list and history reads through
// the view controllers so the session's view state stays consistent with what
// the user last did.
type DashboardHandler struct {
	service   *service.DashboardService
	list      *view.ListController
	history   *view.HistoryController
	validator *validator.Validate
	logger    *slog.Logger
}

func NewDashboardHandler(
	svc *service.DashboardService,
	list *view.ListController,
	history *view.HistoryController,
	logger *slog.Logger,
) *DashboardHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &DashboardHandler{
		service:   svc,
		list:      list,
		history:   history,
		validator: validator.New(),
		logger:    logger,
	}
}

// ListLoans serves one page of the loan grid. A failed load renders an empty,
// non-interactive grid instead of an error status.
func (h *DashboardHandler) ListLoans(w http.ResponseWriter, r *http.Request) {
	req := domain.ListRequest{
		Query:     r.URL.Query().Get("q"),
		SortField: r.URL.Query().Get("sort"),
		SortOrder: r.URL.Query().Get("order"),
	}
	if page := r.URL.Query().Get("page"); page != "" {
		req.Page, _ = strconv.Atoi(page)
	}
	if size := r.URL.Query().Get("page_size"); size != "" {
		req.PageSize, _ = strconv.Atoi(size)
	}

	if err := h.validator.Struct(req); err != nil {
		response.BadRequest(w, "invalid list parameters", err)
		return
	}

	page, err := h.service.LoanList(r.Context(), req)
	if err != nil {
		h.logger.Error("loan list failed", "error", err, "request_id", response.RequestID(r.Context()))
		pageSize := req.PageSize
		if !service.IsAllowedPageSize(pageSize) {
			pageSize = h.service.DefaultPageSize()
		}
		response.Success(w, &domain.LoanPage{
			Loans:    []*domain.Loan{},
			Page:     1,
			PageSize: pageSize,
		})
		return
	}

	response.Success(w, page)
}

// GetPayments serves the payment history for one loan. The selection moves to
// that loan and the detail panel opens, like clicking "View Payments" does.
func (h *DashboardHandler) GetPayments(w http.ResponseWriter, r *http.Request) {
	loanID, ok := h.loanID(w, r)
	if !ok {
		return
	}

	h.list.SelectForView(loanID)

	history, err := h.history.Load(r.Context(), loanID)
	if err != nil {
		response.BadGateway(w, "error loading payments", err)
		return
	}

	response.Success(w, history)
}

// MakePayment submits a payment for one loan through the view controller:
// select for payment, then confirm with the given amount.
func (h *DashboardHandler) MakePayment(w http.ResponseWriter, r *http.Request) {
	loanID, ok := h.loanID(w, r)
	if !ok {
		return
	}

	var req domain.SubmitPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Please enter a valid amount", err)
		return
	}

	if err := h.validator.Struct(req); err != nil {
		response.BadRequest(w, "Please enter a valid amount", err)
		return
	}

	h.list.SelectForPayment(loanID)

	if err := h.list.ConfirmPayment(r.Context(), req.Amount); err != nil {
		var viewErr *viewerrors.ViewError
		if errors.As(err, &viewErr) && viewErr.Code == viewerrors.ErrCodeInvalidPaymentAmount {
			response.BadRequest(w, viewErr.Message, err)
			return
		}
		response.BadGateway(w, "Payment Failed, Kindly try again", err)
		return
	}

	response.SuccessWithMessage(w, "Payment Success", h.list.State())
}

// GetViewState serves the session's view state and active notifications.
func (h *DashboardHandler) GetViewState(w http.ResponseWriter, r *http.Request) {
	response.Success(w, map[string]any{
		"state":         h.list.State(),
		"history":       h.history.Snapshot(),
		"notifications": h.list.Notifications(),
	})
}

// CloseDetailPanel closes the detail panel; the selection is retained.
func (h *DashboardHandler) CloseDetailPanel(w http.ResponseWriter, r *http.Request) {
	h.list.CloseDetailPanel()
	response.Success(w, h.list.State())
}

// ClosePaymentPrompt dismisses the payment prompt without submitting.
func (h *DashboardHandler) ClosePaymentPrompt(w http.ResponseWriter, r *http.Request) {
	h.list.ClosePaymentPrompt()
	response.Success(w, h.list.State())
}

func (h *DashboardHandler) loanID(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := mux.Vars(r)["loanId"]
	loanID, err := strconv.Atoi(raw)
	if err != nil {
		response.BadRequest(w, "loanId must be an integer", err)
		return 0, false
	}
	return loanID, true
}

package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/loandesk/dashboard/internal/domain"
	"github.com/loandesk/dashboard/internal/service"
	"github.com/loandesk/dashboard/internal/view"
	"github.com/loandesk/dashboard/tests/mocks"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
}

type fixture struct {
	queries  *mocks.MockQueryClient
	payments *mocks.MockPaymentClient
	list     *view.ListController
	router   *mux.Router
}

func newFixture() *fixture {
	queries := &mocks.MockQueryClient{}
	payments := &mocks.MockPaymentClient{}

	svc := service.NewDashboardService(queries, payments, nil, nil, 5)
	notices := view.NewNotificationCenter(time.Minute)
	list := view.NewListController(svc, svc, notices, nil)
	history := view.NewHistoryController(svc)

	h := NewDashboardHandler(svc, list, history, nil)

	router := mux.NewRouter()
	api := router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/loans", h.ListLoans).Methods("GET")
	api.HandleFunc("/loans/{loanId}/payments", h.GetPayments).Methods("GET")
	api.HandleFunc("/loans/{loanId}/payment", h.MakePayment).Methods("POST")
	api.HandleFunc("/view", h.GetViewState).Methods("GET")
	api.HandleFunc("/view/panel/close", h.CloseDetailPanel).Methods("POST")

	return &fixture{
		queries:  queries,
		payments: payments,
		list:     list,
		router:   router,
	}
}

func (f *fixture) do(t *testing.T, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec, env
}

func TestListLoans(t *testing.T) {
	f := newFixture()
	f.queries.On("Loans", mock.Anything, mock.Anything, true).Return([]*domain.Loan{
		{ID: 1, Name: "Car Loan", Principal: decimal.NewFromInt(12000), Status: "On Time"},
		{ID: 2, Name: "Home Loan", Principal: decimal.NewFromInt(250000), Status: "Late"},
	}, nil)

	rec, env := f.do(t, http.MethodGet, "/api/v1/loans?sort=name&order=asc", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)

	var page domain.LoanPage
	require.NoError(t, json.Unmarshal(env.Data, &page))
	require.Len(t, page.Loans, 2)
	assert.Equal(t, "Car Loan", page.Loans[0].Name)
	assert.Equal(t, 5, page.PageSize)
	assert.Equal(t, 2, page.TotalCount)
}

func TestListLoans_FailureRendersEmptyGrid(t *testing.T) {
	f := newFixture()
	f.queries.On("Loans", mock.Anything, mock.Anything, true).Return(nil, errors.New("upstream down"))

	rec, env := f.do(t, http.MethodGet, "/api/v1/loans", nil)

	// A failed load is an empty grid, not an error status
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)

	var page domain.LoanPage
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Empty(t, page.Loans)
	assert.Zero(t, page.TotalCount)
	assert.Equal(t, 5, page.PageSize, "fallback grid reports the default page size")
}

func TestListLoans_FailureKeepsRequestedPageSize(t *testing.T) {
	f := newFixture()
	f.queries.On("Loans", mock.Anything, mock.Anything, true).Return(nil, errors.New("upstream down"))

	rec, env := f.do(t, http.MethodGet, "/api/v1/loans?page_size=25", nil)

	assert.Equal(t, http.StatusOK, rec.Code)

	var page domain.LoanPage
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Empty(t, page.Loans)
	assert.Equal(t, 25, page.PageSize)
}

func TestListLoans_RejectsUnsupportedPageSize(t *testing.T) {
	f := newFixture()

	rec, env := f.do(t, http.MethodGet, "/api/v1/loans?page_size=7", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, env.Success)
}

func TestGetPayments_SelectsLoanAndOpensPanel(t *testing.T) {
	f := newFixture()
	f.queries.On("LoanPayments", mock.Anything, mock.Anything).Return([]*domain.LoanPayment{
		{ID: 10, LoanID: 42, Amount: decimal.NewFromInt(100), Status: "On Time"},
		{ID: 11, LoanID: 42, Amount: decimal.NewFromFloat(250.5), Status: "Late"},
	}, nil)

	rec, env := f.do(t, http.MethodGet, "/api/v1/loans/42/payments", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)

	var history domain.PaymentHistory
	require.NoError(t, json.Unmarshal(env.Data, &history))
	assert.True(t, history.AggregateTotal.Equal(decimal.NewFromFloat(350.5)))

	state := f.list.State()
	require.NotNil(t, state.SelectedLoanID)
	assert.Equal(t, 42, *state.SelectedLoanID)
	assert.True(t, state.DetailPanelOpen)
}

func TestGetPayments_FetchError(t *testing.T) {
	f := newFixture()
	f.queries.On("LoanPayments", mock.Anything, mock.Anything).Return(nil, errors.New("boom"))

	rec, env := f.do(t, http.MethodGet, "/api/v1/loans/42/payments", nil)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.False(t, env.Success)
}

func TestGetPayments_BadLoanID(t *testing.T) {
	f := newFixture()

	rec, _ := f.do(t, http.MethodGet, "/api/v1/loans/abc/payments", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMakePayment_Success(t *testing.T) {
	f := newFixture()
	amount := decimal.NewFromInt(200)
	f.payments.On("Submit", mock.Anything, 42, amount).Return(nil).Once()
	// The reload after success refetches the loan list
	f.queries.On("Loans", mock.Anything, mock.Anything, true).Return([]*domain.Loan{}, nil).Once()

	rec, env := f.do(t, http.MethodPost, "/api/v1/loans/42/payment", map[string]any{"amount": 200})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)
	assert.Equal(t, "Payment Success", env.Message)

	f.payments.AssertExpectations(t)
	f.queries.AssertNumberOfCalls(t, "Loans", 1)
}

func TestMakePayment_InvalidAmount(t *testing.T) {
	f := newFixture()

	rec, env := f.do(t, http.MethodPost, "/api/v1/loans/42/payment", map[string]any{"amount": -5})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, env.Success)
	assert.Equal(t, "Please enter a valid amount", env.Message)

	f.payments.AssertNotCalled(t, "Submit")
	f.queries.AssertNotCalled(t, "Loans")
}

func TestMakePayment_SubmissionFailure(t *testing.T) {
	f := newFixture()
	amount := decimal.NewFromInt(200)
	f.payments.On("Submit", mock.Anything, 42, amount).Return(errors.New("status 500"))

	rec, env := f.do(t, http.MethodPost, "/api/v1/loans/42/payment", map[string]any{"amount": 200})

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.False(t, env.Success)

	// Failure does not trigger a reload and the selection survives
	f.queries.AssertNotCalled(t, "Loans")
	state := f.list.State()
	require.NotNil(t, state.SelectedLoanID)
	assert.Equal(t, 42, *state.SelectedLoanID)
	assert.False(t, state.PaymentInFlight)
}

func TestCloseDetailPanel_RetainsSelection(t *testing.T) {
	f := newFixture()
	f.queries.On("LoanPayments", mock.Anything, mock.Anything).Return([]*domain.LoanPayment{}, nil)

	f.do(t, http.MethodGet, "/api/v1/loans/7/payments", nil)
	rec, env := f.do(t, http.MethodPost, "/api/v1/view/panel/close", nil)

	assert.Equal(t, http.StatusOK, rec.Code)

	var state view.State
	require.NoError(t, json.Unmarshal(env.Data, &state))
	assert.False(t, state.DetailPanelOpen)
	require.NotNil(t, state.SelectedLoanID)
	assert.Equal(t, 7, *state.SelectedLoanID)
}

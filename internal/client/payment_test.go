package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentClient_Submit(t *testing.T) {
	var captured paymentRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/make_payment", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	c := NewPaymentClient(server.URL, server.Client())

	err := c.Submit(context.Background(), 42, decimal.NewFromInt(200))

	require.NoError(t, err)
	assert.Equal(t, 42, captured.LoanID)
	assert.Equal(t, 200.0, captured.Amount)
}

func TestPaymentClient_SubmitFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Loan not found", http.StatusInternalServerError)
	}))
	defer server.Close()

	c := NewPaymentClient(server.URL, server.Client())

	err := c.Submit(context.Background(), 99, decimal.NewFromInt(50))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
	assert.Contains(t, err.Error(), "Loan not found")
}

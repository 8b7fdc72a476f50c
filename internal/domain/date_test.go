package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func TestDate_UnmarshalJSON(t *testing.T) {
	var payment LoanPayment
	raw := `{"id": 1, "loan_id": 2, "amount": 250.5, "payment_date": "2024-02-29", "status": "On Time"}`

	require.NoError(t, json.Unmarshal([]byte(raw), &payment))
	assert.Equal(t, NewDate(2024, time.February, 29), payment.PaymentDate)
	assert.True(t, payment.Amount.Equal(mustDecimal(t, "250.5")))
}

func TestDate_NullRoundTrip(t *testing.T) {
	loan := Loan{ID: 7, Name: "Business Loan"}

	encoded, err := json.Marshal(loan)
	require.NoError(t, err)
	assert.Contains(t, string(encoded), `"due_date":null`)

	var decoded Loan
	require.NoError(t, json.Unmarshal(encoded, &decoded))
	assert.True(t, decoded.DueDate.IsZero())
	assert.Nil(t, decoded.PaymentDate)
}

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"
)

type paymentClient struct {
	endpoint string
	http     *http.Client
}

// NewPaymentClient returns a PaymentClient posting to {baseURL}/make_payment.
func NewPaymentClient(baseURL string, httpClient *http.Client) PaymentClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &paymentClient{
		endpoint: strings.TrimRight(baseURL, "/") + "/make_payment",
		http:     httpClient,
	}
}

type paymentRequest struct {
	LoanID int     `json:"loan_id"`
	Amount float64 `json:"amount"`
}

func (c *paymentClient) Submit(ctx context.Context, loanID int, amount decimal.Decimal) error {
	body, err := json.Marshal(paymentRequest{
		LoanID: loanID,
		Amount: amount.InexactFloat64(),
	})
	if err != nil {
		return fmt.Errorf("encoding payment request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building payment request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("payment request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("payment endpoint returned status %d: %s", resp.StatusCode, string(detail))
	}

	return nil
}

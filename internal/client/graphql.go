package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/loandesk/dashboard/internal/domain"
)

// Query documents mirror the upstream schema.
const (
	// The combined projection feeds the grid and never needs the payment
	// collection; the expanded one embeds it instead of the latest-payment
	// columns.
	combinedLoansQuery = `query loans($filters: LoanFilter, $isCombined: Boolean!) {
		loans(filters: $filters, isCombined: $isCombined) {
			id
			name
			interest_rate
			principal
			due_date
			payment_date
			status
		}
	}`

	expandedLoansQuery = `query loans($filters: LoanFilter, $isCombined: Boolean!) {
		loans(filters: $filters, isCombined: $isCombined) {
			id
			name
			interest_rate
			principal
			due_date
			payments {
				id
				loan_id
				amount
				payment_date
				status
			}
		}
	}`

	loanPaymentsQuery = `query loanPayments($filters: LoanPaymentFilter) {
		loanPayments(filters: $filters) {
			id
			loan_id
			payment_date
			amount
			status
			loan {
				interest_rate
				principal
				due_date
			}
		}
	}`

	updateLoanMutation = `mutation updateLoan($loan_id: Int!) {
		updateLoan(loan_id: $loan_id) {
			id
			name
			interest_rate
			principal
			due_date
		}
	}`

	deleteLoanMutation = `mutation deleteLoan($loan_id: Int!) {
		deleteLoan(loan_id: $loan_id)
	}`
)

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphQLError struct {
	Message string `json:"message"`
}

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphQLError  `json:"errors,omitempty"`
}

type graphQLClient struct {
	endpoint string
	http     *http.Client
}

// NewQueryClient returns a QueryClient speaking GraphQL-over-HTTP against
// {baseURL}/graphql.
func NewQueryClient(baseURL string, httpClient *http.Client) QueryClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &graphQLClient{
		endpoint: strings.TrimRight(baseURL, "/") + "/graphql",
		http:     httpClient,
	}
}

func (c *graphQLClient) Loans(ctx context.Context, filter *LoanFilter, combined bool) ([]*domain.Loan, error) {
	variables := map[string]any{"isCombined": combined}
	if filter != nil {
		variables["filters"] = filter
	}

	query := expandedLoansQuery
	if combined {
		query = combinedLoansQuery
	}

	var result struct {
		Loans []*domain.Loan `json:"loans"`
	}
	if err := c.do(ctx, query, variables, &result); err != nil {
		return nil, err
	}

	return result.Loans, nil
}

func (c *graphQLClient) LoanPayments(ctx context.Context, filter *PaymentFilter) ([]*domain.LoanPayment, error) {
	variables := map[string]any{}
	if filter != nil {
		variables["filters"] = filter
	}

	var result struct {
		LoanPayments []*domain.LoanPayment `json:"loanPayments"`
	}
	if err := c.do(ctx, loanPaymentsQuery, variables, &result); err != nil {
		return nil, err
	}

	return result.LoanPayments, nil
}

func (c *graphQLClient) UpdateLoan(ctx context.Context, loanID int) (*domain.Loan, error) {
	var result struct {
		UpdateLoan *domain.Loan `json:"updateLoan"`
	}
	if err := c.do(ctx, updateLoanMutation, map[string]any{"loan_id": loanID}, &result); err != nil {
		return nil, err
	}

	return result.UpdateLoan, nil
}

func (c *graphQLClient) DeleteLoan(ctx context.Context, loanID int) (bool, error) {
	var result struct {
		DeleteLoan bool `json:"deleteLoan"`
	}
	if err := c.do(ctx, deleteLoanMutation, map[string]any{"loan_id": loanID}, &result); err != nil {
		return false, err
	}

	return result.DeleteLoan, nil
}

func (c *graphQLClient) do(ctx context.Context, query string, variables map[string]any, out any) error {
	body, err := json.Marshal(graphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("encoding graphql request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building graphql request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("graphql request: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading graphql response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("graphql endpoint returned status %d", resp.StatusCode)
	}

	var envelope graphQLResponse
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return fmt.Errorf("decoding graphql envelope: %w", err)
	}

	if len(envelope.Errors) > 0 {
		messages := make([]string, 0, len(envelope.Errors))
		for _, e := range envelope.Errors {
			messages = append(messages, e.Message)
		}
		return fmt.Errorf("graphql errors: %s", strings.Join(messages, "; "))
	}

	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("decoding graphql data: %w", err)
	}

	return nil
}

package loancalc

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestMonthsUntilDue(t *testing.T) {
	now := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		dueDate  time.Time
		expected int
	}{
		{
			name:     "same month counts as zero regardless of day",
			dueDate:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			expected: 0,
		},
		{
			name:     "two months ahead",
			dueDate:  time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			expected: 2,
		},
		{
			name:     "past due date is clamped to zero",
			dueDate:  time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC),
			expected: 0,
		},
		{
			name:     "one day into next month still counts as one month",
			dueDate:  time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
			expected: 1,
		},
		{
			name:     "year boundary",
			dueDate:  time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC),
			expected: 13,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, MonthsUntilDue(tt.dueDate, now))
		})
	}
}

func TestMonthsUntilDue_Idempotent(t *testing.T) {
	now := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	due := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	first := MonthsUntilDue(due, now)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, MonthsUntilDue(due, now))
	}
}

func TestEstimateInterest(t *testing.T) {
	tests := []struct {
		name      string
		principal decimal.Decimal
		rate      decimal.Decimal
		months    int
		expected  decimal.Decimal
	}{
		{
			name:      "standard projection",
			principal: decimal.NewFromInt(1000),
			rate:      decimal.NewFromInt(5),
			months:    2,
			expected:  decimal.NewFromInt(100), // 1000 * 5 * 2 / 100
		},
		{
			name:      "zero months yields zero for any inputs",
			principal: decimal.NewFromInt(987654),
			rate:      decimal.NewFromFloat(12.5),
			months:    0,
			expected:  decimal.Zero,
		},
		{
			name:      "fractional rate",
			principal: decimal.NewFromInt(2000),
			rate:      decimal.NewFromFloat(2.5),
			months:    3,
			expected:  decimal.NewFromInt(150),
		},
		{
			name:      "zero principal",
			principal: decimal.Zero,
			rate:      decimal.NewFromInt(5),
			months:    12,
			expected:  decimal.Zero,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := EstimateInterest(tt.principal, tt.rate, tt.months)
			assert.True(t, result.Equal(tt.expected),
				"Expected %v, but got %v", tt.expected, result)
		})
	}
}

func TestGradePayment(t *testing.T) {
	due := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		paymentDate time.Time
		expected    string
	}{
		{
			name:        "on the due date",
			paymentDate: due,
			expected:    "On Time",
		},
		{
			name:        "five days late is still on time",
			paymentDate: due.AddDate(0, 0, 5),
			expected:    "On Time",
		},
		{
			name:        "six days late",
			paymentDate: due.AddDate(0, 0, 6),
			expected:    "Late",
		},
		{
			name:        "thirty days late",
			paymentDate: due.AddDate(0, 0, 30),
			expected:    "Late",
		},
		{
			name:        "thirty-one days late",
			paymentDate: due.AddDate(0, 0, 31),
			expected:    "Defaulted",
		},
		{
			name:        "before the due date",
			paymentDate: due.AddDate(0, 0, -10),
			expected:    "On Time",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GradePayment(tt.paymentDate, due))
		})
	}
}

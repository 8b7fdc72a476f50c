package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		name     string
		status   string
		expected Category
	}{
		{name: "on time", status: "On Time", expected: CategorySuccess},
		{name: "late", status: "Late", expected: CategoryWarning},
		{name: "defaulted", status: "Defaulted", expected: CategoryError},
		{name: "empty string", status: "", expected: CategoryNeutral},
		{name: "unknown value", status: "Pending Review", expected: CategoryNeutral},
		{name: "match is case-sensitive", status: "on time", expected: CategoryNeutral},
		{name: "unpaid maps to neutral", status: "Unpaid", expected: CategoryNeutral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ClassifyStatus(tt.status))
		})
	}
}

func TestClassifyStatus_Idempotent(t *testing.T) {
	for i := 0; i < 5; i++ {
		assert.Equal(t, CategorySuccess, ClassifyStatus("On Time"))
	}
}

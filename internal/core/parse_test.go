package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseExpense(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		category string
		cents    int64
	}{
		{"dash format", "Books-50", "Books", 5000},
		{"space format", "Books 50", "Books", 5000},
		{"multi word category", "Street food 12.5", "Street food", 1250},
		{"dash with spaces", "Books - 50", "Books", 5000},
		{"hebrew dash", "ספרים-50", "ספרים", 5000},
		{"currency suffix", "Food 20₪", "Food", 2000},
		{"noise after dash", "Rent-abc1200", "Rent", 120000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			category, amount, err := ParseExpense(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.category, category)
			assert.Equal(t, tt.cents, amount.Cents)
		})
	}
}

func TestParseExpenseInvalid(t *testing.T) {
	for _, input := range []string{"", "Books", "-50", "Books-", "Books-x", "   "} {
		t.Run(input, func(t *testing.T) {
			_, _, err := ParseExpense(input)
			assert.ErrorIs(t, err, ErrBadFormat)
		})
	}
}

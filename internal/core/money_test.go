package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name  string
		input string
		cents int64
	}{
		{"plain integer", "50", 5000},
		{"decimal", "12.34", 1234},
		{"currency sign stripped", "50₪", 5000},
		{"dollar sign stripped", "$12.34", 1234},
		{"surrounding spaces", " 7 ", 700},
		{"single fractional digit", "3.5", 350},
		{"third digit rounds down", "12.344", 1234},
		{"third digit rounds up", "12.345", 1235},
		{"leading dot", ".5", 50},
		{"zero", "0", 0},
		{"minus stripped", "-20", 2000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := ParseAmount(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.cents, m.Cents)
		})
	}
}

func TestParseAmountInvalid(t *testing.T) {
	for _, input := range []string{"", "abc", ".", "1.2.3", "₪"} {
		t.Run(input, func(t *testing.T) {
			_, err := ParseAmount(input)
			assert.ErrorIs(t, err, ErrInvalidAmount)
		})
	}
}

func TestMoneyString(t *testing.T) {
	assert.Equal(t, "50", Money{Cents: 5000}.String())
	assert.Equal(t, "12.34", Money{Cents: 1234}.String())
	assert.Equal(t, "12.30", Money{Cents: 1230}.String())
	assert.Equal(t, "0", Money{}.String())
	assert.Equal(t, "0.05", Money{Cents: 5}.String())
}

func TestMoneyFloat(t *testing.T) {
	assert.InDelta(t, 12.34, Money{Cents: 1234}.Float(), 1e-9)
}

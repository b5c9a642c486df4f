// Package core provides the expense domain types and text parsing.
package core

import (
	"strconv"
	"strings"
)

// Money is an amount in cents. All arithmetic happens on cents; floats are
// only produced for display.
type Money struct {
	Cents int64
}

// ParseAmount converts free-form amount text to cents. Everything except
// digits and dots is stripped first (so "50₪", "$12.34" and " 7 " all parse),
// then the remainder must contain at most one decimal point. The third
// decimal digit rounds half-up. Zero is a valid amount; a negative sign is
// stripped with the rest of the noise, so results are always non-negative.
func ParseAmount(s string) (Money, error) {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	if cleaned == "" || cleaned == "." {
		return Money{}, ErrInvalidAmount
	}

	parts := strings.Split(cleaned, ".")
	if len(parts) > 2 {
		return Money{}, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}

	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	const maxSafe = (1<<63 - 1) / 100
	if iv > maxSafe {
		return Money{}, ErrInvalidAmount
	}

	// Two fractional digits, half-up rounding on the third.
	var fracCents int64
	if len(fracPart) > 0 {
		fracCents = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			fracCents += int64(fracPart[1] - '0')
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				fracCents++
			}
		}
	}

	return Money{Cents: iv*100 + fracCents}, nil
}

// Float returns the amount as a float64 for display and CSV output.
func (m Money) Float() float64 {
	return float64(m.Cents) / 100.0
}

// String renders the amount without trailing zeros for whole values:
// 5000 cents -> "50", 1234 cents -> "12.34", 1230 cents -> "12.30".
func (m Money) String() string {
	if m.Cents%100 == 0 {
		return strconv.FormatInt(m.Cents/100, 10)
	}
	return strconv.FormatInt(m.Cents/100, 10) + "." + pad2(m.Cents%100)
}

func pad2(n int64) string {
	if n < 10 {
		return "0" + strconv.FormatInt(n, 10)
	}
	return strconv.FormatInt(n, 10)
}

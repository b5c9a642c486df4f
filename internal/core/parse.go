package core

import "strings"

// ParseExpense parses the record-expense grammar: "Category-Amount" or
// "Category Amount". A dash splits once, at the first occurrence; otherwise
// the last whitespace token is the amount and the rest is the category.
// The category is the trimmed remainder and must be non-empty.
func ParseExpense(text string) (category string, amount Money, err error) {
	text = strings.TrimSpace(text)

	var amountText string
	if idx := strings.Index(text, "-"); idx >= 0 {
		category = text[:idx]
		amountText = text[idx+1:]
	} else {
		tokens := strings.Fields(text)
		if len(tokens) < 2 {
			return "", Money{}, ErrBadFormat
		}
		amountText = tokens[len(tokens)-1]
		category = strings.Join(tokens[:len(tokens)-1], " ")
	}

	category = strings.TrimSpace(category)
	if category == "" {
		return "", Money{}, ErrBadFormat
	}

	amount, err = ParseAmount(amountText)
	if err != nil {
		return "", Money{}, ErrBadFormat
	}
	return category, amount, nil
}

package usecase

import (
	"strings"
)

// NormalizePrice validates a decimal price string and renders it with exactly
// 2 fractional digits: "19.5" becomes "19.50", "190" becomes "190.00".
// Negative values, empty strings and anything that is not plain decimal
// notation are rejected with ErrInvalidPrice.
func NormalizePrice(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrInvalidPrice
	}

	intPart, fracPart, hasFrac := strings.Cut(s, ".")
	if intPart == "" || !allDigits(intPart) {
		return "", ErrInvalidPrice
	}
	if hasFrac {
		// More than 2 fractional digits would silently lose money; reject.
		if fracPart == "" || len(fracPart) > 2 || !allDigits(fracPart) {
			return "", ErrInvalidPrice
		}
	}

	// Strip leading zeros but keep a single one for values below 1.
	intPart = strings.TrimLeft(intPart, "0")
	if intPart == "" {
		intPart = "0"
	}

	switch len(fracPart) {
	case 0:
		fracPart = "00"
	case 1:
		fracPart += "0"
	}
	return intPart + "." + fracPart, nil
}

// allDigits reports whether s consists only of ASCII digits.
// A leading "-" therefore fails here, which rejects negative prices.
func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

package domain

import (
	"math"
	"strings"
)

// Money is an amount tagged with a currency code, as found in free text.
// Codes are uppercase but are not checked against ISO 4217.
type Money struct {
	Currency string  `json:"currency"`
	Amount   float64 `json:"amount"`
}

// NewMoney upper-cases the code and rejects non-positive or non-finite amounts.
func NewMoney(currency string, amount float64) (*Money, error) {
	code := strings.ToUpper(strings.TrimSpace(currency))
	if code == "" {
		return nil, ErrMissingCurrency
	}
	if !ValidAmount(amount) {
		return nil, ErrInvalidAmount
	}
	return &Money{Currency: code, Amount: amount}, nil
}

// ValidAmount reports whether amount is strictly positive and finite.
func ValidAmount(amount float64) bool {
	return amount > 0 && !math.IsInf(amount, 0) && !math.IsNaN(amount)
}

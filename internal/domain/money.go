package domain

import (
	"github.com/shopspring/decimal"
)

// Monetary amounts are decimal.Decimal at 2-decimal scale. Computed
// amounts (fees, interest) must pass through RoundMoney before they
// touch a balance so that arithmetic stays exact.

// ValidateAmount checks that an amount is usable for a money movement:
// strictly positive with at most 2 decimal places.
func ValidateAmount(amount decimal.Decimal) *AppError {
	if amount.IsNegative() || amount.IsZero() {
		return NewAppError(InvalidAmount, "amount must be positive")
	}
	if !amount.Equal(amount.Round(2)) {
		return NewAppError(InvalidAmount, "amount cannot have more than 2 decimal places")
	}
	return nil
}

// RoundMoney rounds half-up to 2 decimal places.
func RoundMoney(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(2)
}

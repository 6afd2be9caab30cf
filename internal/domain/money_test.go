package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateAmount(t *testing.T) {
	tests := []struct {
		name     string
		amount   string
		wantCode ErrorCode
	}{
		{name: "positive two decimals", amount: "10.50"},
		{name: "positive integer", amount: "100"},
		{name: "smallest unit", amount: "0.01"},
		{name: "zero", amount: "0", wantCode: InvalidAmount},
		{name: "negative", amount: "-5.00", wantCode: InvalidAmount},
		{name: "three decimals", amount: "1.234", wantCode: InvalidAmount},
		{name: "trailing zero third decimal", amount: "1.230"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount := decimal.RequireFromString(tt.amount)
			appErr := ValidateAmount(amount)
			if tt.wantCode == "" {
				assert.Nil(t, appErr)
				return
			}
			require.NotNil(t, appErr)
			assert.Equal(t, tt.wantCode, appErr.Code)
		})
	}
}

func TestRoundMoneyHalfUp(t *testing.T) {
	assert.True(t, RoundMoney(decimal.RequireFromString("2.005")).Equal(decimal.RequireFromString("2.01")))
	assert.True(t, RoundMoney(decimal.RequireFromString("2.004")).Equal(decimal.RequireFromString("2.00")))
	// 20.00 exactly, no drift: 1000 * 0.02
	interest := decimal.RequireFromString("1000").Mul(decimal.RequireFromString("0.02"))
	assert.True(t, RoundMoney(interest).Equal(decimal.RequireFromString("20.00")))
}

func TestAppErrorHTTPStatus(t *testing.T) {
	assert.Equal(t, 404, ErrAccountNotFound.HTTPStatus())
	assert.Equal(t, 400, NewAppError(InvalidAmount, "x").HTTPStatus())
	assert.Equal(t, 422, NewAppError(InvalidOperation, "x").HTTPStatus())
	assert.Equal(t, 422, NewAppError(BelowMinimum, "x").HTTPStatus())
	assert.Equal(t, 500, NewAppError(InternalError, "x").HTTPStatus())
}

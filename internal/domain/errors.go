package domain

import (
	"fmt"
	"net/http"
)

type ErrorCode string

const (
	AccountNotFound  ErrorCode = "account_not_found"
	InvalidInput     ErrorCode = "invalid_input"
	InvalidAmount    ErrorCode = "invalid_amount"
	InvalidOperation ErrorCode = "invalid_operation"
	BelowMinimum     ErrorCode = "minimum_balance_violation"
	InternalError    ErrorCode = "internal_error"
)

// AppError is a caller error: unknown account, malformed amount, an
// operation that makes no sense. These propagate as Go errors and are
// never recorded in a transaction history.
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
}

func (e AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewAppError(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

func NewAppErrorf(code ErrorCode, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

func (e *AppError) WithDetails(details string) *AppError {
	e.Details = details
	return e
}

// HTTPStatus maps an error code to the response status used by the
// HTTP layer.
func (e *AppError) HTTPStatus() int {
	switch e.Code {
	case AccountNotFound:
		return http.StatusNotFound
	case InvalidInput, InvalidAmount:
		return http.StatusBadRequest
	case InvalidOperation, BelowMinimum:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// Predefined errors for common cases
var (
	ErrAccountNotFound = NewAppError(AccountNotFound, "account not found")
)

// ViolationKind identifies which business rule blocked a withdrawal or
// transfer. Violations are outcomes, not errors: the bank turns them
// into FAILED transactions instead of returning them to the caller.
type ViolationKind string

const (
	InsufficientFunds       ViolationKind = "INSUFFICIENT_FUNDS"
	MinimumBalanceViolation ViolationKind = "MINIMUM_BALANCE_VIOLATION"
	WithdrawalLimitExceeded ViolationKind = "WITHDRAWAL_LIMIT_EXCEEDED"
)

// RuleViolation is the result of a strategy validation. A nil
// *RuleViolation means the operation may proceed.
type RuleViolation struct {
	Kind    ViolationKind
	Message string
}

func NewViolation(kind ViolationKind, format string, args ...interface{}) *RuleViolation {
	return &RuleViolation{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
	}
}

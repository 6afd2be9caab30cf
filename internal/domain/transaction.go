package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountType selects the business rules that apply to an account.
// The set is closed; adding a type means adding a strategy.
type AccountType string

const (
	Checking AccountType = "CHECKING"
	Savings  AccountType = "SAVINGS"
)

// ParseAccountType maps a wire value to an AccountType.
func ParseAccountType(s string) (AccountType, *AppError) {
	switch AccountType(s) {
	case Checking, Savings:
		return AccountType(s), nil
	default:
		return "", NewAppErrorf(InvalidInput, "unknown account type %q", s)
	}
}

type TransactionType string

const (
	TxDeposit    TransactionType = "DEPOSIT"
	TxWithdrawal TransactionType = "WITHDRAWAL"
	TxTransfer   TransactionType = "TRANSFER"
	TxFee        TransactionType = "FEE"
	TxInterest   TransactionType = "INTEREST"
)

type TransactionStatus string

const (
	StatusSuccess TransactionStatus = "SUCCESS"
	StatusFailed  TransactionStatus = "FAILED"
)

// Transaction is a single immutable audit entry. Every money-movement
// attempt, successful or not, produces exactly one. Amount is the
// requested amount and is always positive; for a FAILED transaction
// BalanceAfter equals BalanceBefore and FailureReason says why.
type Transaction struct {
	ID            string            `json:"transaction_id"`
	Type          TransactionType   `json:"type"`
	Amount        decimal.Decimal   `json:"amount"`
	AccountNumber string            `json:"account_number"`
	Timestamp     time.Time         `json:"timestamp"`
	BalanceBefore decimal.Decimal   `json:"balance_before"`
	BalanceAfter  decimal.Decimal   `json:"balance_after"`
	Status        TransactionStatus `json:"status"`
	FailureReason string            `json:"failure_reason,omitempty"`
}

// Failed reports whether this attempt left the balance unchanged.
func (t Transaction) Failed() bool {
	return t.Status == StatusFailed
}

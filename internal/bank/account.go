package bank

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"bank-engine/internal/domain"
)

// Account is the mutable entity behind an account number. Identity is
// the account number alone; type and customer name never change after
// creation. All state changes go through the mutation methods, each of
// which appends exactly one transaction to the history, and the
// history is append-only.
//
// A single mutex serializes every mutation and snapshot read. The
// exported methods lock it themselves; the *Locked primitives assume
// the caller holds it, which is how the bank applies both sides of a
// transfer under ordered locks.
type Account struct {
	number       string
	accountType  domain.AccountType
	customerName string

	mu                 sync.Mutex
	balance            decimal.Decimal
	history            []domain.Transaction
	monthlyTxCount     int
	monthlyWithdrawals int
}

func newAccount(number, customerName string, accountType domain.AccountType) *Account {
	return &Account{
		number:       number,
		accountType:  accountType,
		customerName: customerName,
		balance:      decimal.Zero,
	}
}

func (a *Account) Number() string           { return a.number }
func (a *Account) Type() domain.AccountType { return a.accountType }
func (a *Account) CustomerName() string     { return a.customerName }

// Balance returns the current balance.
func (a *Account) Balance() decimal.Decimal {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.balance
}

func (a *Account) MonthlyTransactionCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.monthlyTxCount
}

func (a *Account) MonthlyWithdrawalCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.monthlyWithdrawals
}

// CanBeClosed reports whether the balance is exactly zero.
func (a *Account) CanBeClosed() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.balance.IsZero()
}

// TransactionHistory returns a copy of the audit trail in creation
// order. The caller owns the returned slice; the underlying history is
// never exposed.
func (a *Account) TransactionHistory() []domain.Transaction {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]domain.Transaction, len(a.history))
	copy(out, a.history)
	return out
}

// Deposit adds amount to the balance. It is the unconditional mutation
// primitive: no business rules run here, only amount sanity checks.
func (a *Account) Deposit(amount decimal.Decimal, txID string) (*domain.Transaction, error) {
	if appErr := domain.ValidateAmount(amount); appErr != nil {
		return nil, appErr
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	tx := a.depositLocked(amount, txID)
	return &tx, nil
}

// Withdraw subtracts amount from the balance. The sufficient-funds
// check here is a guard against misuse, not a recorded failure:
// callers run strategy validation first so that rule violations end up
// as FAILED transactions instead of errors.
func (a *Account) Withdraw(amount decimal.Decimal, txID string) (*domain.Transaction, error) {
	if appErr := domain.ValidateAmount(amount); appErr != nil {
		return nil, appErr
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if amount.GreaterThan(a.balance) {
		return nil, domain.NewAppError(domain.InvalidOperation, "insufficient funds for withdrawal")
	}
	tx := a.withdrawLocked(amount, txID)
	return &tx, nil
}

// TransferOut is Withdraw without the monthly withdrawal counter:
// outbound transfers never consume a savings account's withdrawal
// quota.
func (a *Account) TransferOut(amount decimal.Decimal, txID string) (*domain.Transaction, error) {
	if appErr := domain.ValidateAmount(amount); appErr != nil {
		return nil, appErr
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if amount.GreaterThan(a.balance) {
		return nil, domain.NewAppError(domain.InvalidOperation, "insufficient funds for transfer")
	}
	tx := a.transferOutLocked(amount, txID)
	return &tx, nil
}

// ApplyFee subtracts a month-end fee. No counter changes; the fee may
// drive the balance negative.
func (a *Account) ApplyFee(amount decimal.Decimal, txID string) (*domain.Transaction, error) {
	if appErr := domain.ValidateAmount(amount); appErr != nil {
		return nil, appErr
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	tx := a.applyFeeLocked(amount, txID)
	return &tx, nil
}

// ApplyInterest adds month-end interest. No counter changes.
func (a *Account) ApplyInterest(amount decimal.Decimal, txID string) (*domain.Transaction, error) {
	if appErr := domain.ValidateAmount(amount); appErr != nil {
		return nil, appErr
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	tx := a.applyInterestLocked(amount, txID)
	return &tx, nil
}

// RecordFailedTransaction appends a FAILED entry without touching the
// balance or counters.
func (a *Account) RecordFailedTransaction(txType domain.TransactionType, amount decimal.Decimal, reason, txID string) *domain.Transaction {
	a.mu.Lock()
	defer a.mu.Unlock()
	tx := a.recordFailedLocked(txType, amount, reason, txID)
	return &tx
}

// ResetMonthlyCounters zeroes both monthly counters. Called by the
// bank once per account during month-end processing.
func (a *Account) ResetMonthlyCounters() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.resetCountersLocked()
}

// Locked primitives. The caller holds a.mu.

func (a *Account) depositLocked(amount decimal.Decimal, txID string) domain.Transaction {
	before := a.balance
	a.balance = a.balance.Add(amount)
	a.monthlyTxCount++
	return a.appendLocked(domain.TxDeposit, amount, before, txID)
}

func (a *Account) withdrawLocked(amount decimal.Decimal, txID string) domain.Transaction {
	before := a.balance
	a.balance = a.balance.Sub(amount)
	a.monthlyTxCount++
	a.monthlyWithdrawals++
	return a.appendLocked(domain.TxWithdrawal, amount, before, txID)
}

func (a *Account) transferOutLocked(amount decimal.Decimal, txID string) domain.Transaction {
	before := a.balance
	a.balance = a.balance.Sub(amount)
	a.monthlyTxCount++
	return a.appendLocked(domain.TxTransfer, amount, before, txID)
}

func (a *Account) transferInLocked(amount decimal.Decimal, txID string) domain.Transaction {
	before := a.balance
	a.balance = a.balance.Add(amount)
	a.monthlyTxCount++
	return a.appendLocked(domain.TxTransfer, amount, before, txID)
}

func (a *Account) applyFeeLocked(amount decimal.Decimal, txID string) domain.Transaction {
	before := a.balance
	a.balance = a.balance.Sub(amount)
	return a.appendLocked(domain.TxFee, amount, before, txID)
}

func (a *Account) applyInterestLocked(amount decimal.Decimal, txID string) domain.Transaction {
	before := a.balance
	a.balance = a.balance.Add(amount)
	return a.appendLocked(domain.TxInterest, amount, before, txID)
}

func (a *Account) appendLocked(txType domain.TransactionType, amount, before decimal.Decimal, txID string) domain.Transaction {
	tx := domain.Transaction{
		ID:            txID,
		Type:          txType,
		Amount:        amount,
		AccountNumber: a.number,
		Timestamp:     time.Now().UTC(),
		BalanceBefore: before,
		BalanceAfter:  a.balance,
		Status:        domain.StatusSuccess,
	}
	a.history = append(a.history, tx)
	return tx
}

func (a *Account) recordFailedLocked(txType domain.TransactionType, amount decimal.Decimal, reason, txID string) domain.Transaction {
	tx := domain.Transaction{
		ID:            txID,
		Type:          txType,
		Amount:        amount,
		AccountNumber: a.number,
		Timestamp:     time.Now().UTC(),
		BalanceBefore: a.balance,
		BalanceAfter:  a.balance,
		Status:        domain.StatusFailed,
		FailureReason: reason,
	}
	a.history = append(a.history, tx)
	return tx
}

func (a *Account) resetCountersLocked() {
	a.monthlyTxCount = 0
	a.monthlyWithdrawals = 0
}

// Package bank implements the in-memory banking transaction engine:
// account lifecycle, per-account-type business rules and atomic
// transfers, with every money-movement attempt recorded in an
// append-only audit trail.
package bank

import (
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"bank-engine/internal/domain"
	"bank-engine/internal/id"
)

// Bank is the aggregate root. It owns the account registry and is the
// only place where business-rule validation and account mutation meet:
// rule violations during withdrawals and transfers come back to the
// caller as FAILED transactions, never as errors. Errors are reserved
// for caller bugs such as an unknown account or a malformed amount.
type Bank struct {
	ids    id.Generator
	logger *slog.Logger

	mu       sync.RWMutex
	accounts map[string]*Account
}

// New creates an empty bank using the given ID source.
func New(ids id.Generator, logger *slog.Logger) *Bank {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bank{
		ids:      ids,
		logger:   logger,
		accounts: make(map[string]*Account),
	}
}

// OpenAccount validates the request, registers a new account and, when
// the opening deposit is positive, records it as an initial DEPOSIT
// transaction.
func (b *Bank) OpenAccount(customerName string, accountType domain.AccountType, initialDeposit decimal.Decimal) (*Account, error) {
	if strings.TrimSpace(customerName) == "" {
		return nil, domain.NewAppError(domain.InvalidInput, "customer name must not be empty")
	}
	if StrategyFor(accountType) == nil {
		return nil, domain.NewAppErrorf(domain.InvalidInput, "unknown account type %q", accountType)
	}
	if initialDeposit.IsNegative() {
		return nil, domain.NewAppError(domain.InvalidAmount, "initial deposit must not be negative")
	}
	if initialDeposit.IsPositive() {
		if appErr := domain.ValidateAmount(initialDeposit); appErr != nil {
			return nil, appErr
		}
	}
	if accountType == domain.Savings && initialDeposit.LessThan(savingsMinimumBalance) {
		return nil, domain.NewAppErrorf(domain.BelowMinimum,
			"savings accounts require an initial deposit of at least %s", savingsMinimumBalance.StringFixed(2))
	}

	account := newAccount(b.ids.AccountID(), strings.TrimSpace(customerName), accountType)
	if initialDeposit.IsPositive() {
		account.depositLocked(initialDeposit, b.ids.TransactionID())
	}

	b.mu.Lock()
	b.accounts[account.Number()] = account
	b.mu.Unlock()

	b.logger.Info("account opened",
		"account_number", account.Number(),
		"account_type", accountType,
		"initial_deposit", initialDeposit)
	return account, nil
}

// CloseAccount removes an account from the registry. Only an account
// with an exactly zero balance can be closed; removal is final.
func (b *Bank) CloseAccount(accountNumber string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	account, ok := b.accounts[accountNumber]
	if !ok {
		return domain.ErrAccountNotFound
	}
	account.mu.Lock()
	zero := account.balance.IsZero()
	account.mu.Unlock()
	if !zero {
		return domain.NewAppError(domain.InvalidOperation, "account balance must be zero before closing")
	}
	delete(b.accounts, accountNumber)
	b.logger.Info("account closed", "account_number", accountNumber)
	return nil
}

// Account returns the live account for a number.
func (b *Bank) Account(accountNumber string) (*Account, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	account, ok := b.accounts[accountNumber]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return account, nil
}

// Accounts returns all registered accounts ordered by account number.
func (b *Bank) Accounts() []*Account {
	b.mu.RLock()
	out := make([]*Account, 0, len(b.accounts))
	for _, a := range b.accounts {
		out = append(out, a)
	}
	b.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Number() < out[j].Number() })
	return out
}

// Deposit credits an account. Deposits have no business rules beyond
// amount sanity, so the result is always a SUCCESS transaction.
func (b *Bank) Deposit(accountNumber string, amount decimal.Decimal) (*domain.Transaction, error) {
	account, err := b.Account(accountNumber)
	if err != nil {
		return nil, err
	}
	tx, err := account.Deposit(amount, b.ids.TransactionID())
	if err != nil {
		return nil, err
	}
	b.logger.Info("deposit completed",
		"account_number", accountNumber,
		"amount", amount,
		"transaction_id", tx.ID)
	return tx, nil
}

// Withdraw debits an account after running the account type's rules.
// A rule violation is a business outcome, not an error: it is recorded
// as a FAILED transaction and returned normally. Only malformed input
// or an unknown account produce an error.
func (b *Bank) Withdraw(accountNumber string, amount decimal.Decimal) (*domain.Transaction, error) {
	account, err := b.Account(accountNumber)
	if err != nil {
		return nil, err
	}
	if appErr := domain.ValidateAmount(amount); appErr != nil {
		return nil, appErr
	}

	account.mu.Lock()
	defer account.mu.Unlock()
	if v := StrategyFor(account.accountType).ValidateWithdrawal(account, amount); v != nil {
		tx := account.recordFailedLocked(domain.TxWithdrawal, amount, v.Message, b.ids.TransactionID())
		b.logger.Info("withdrawal rejected",
			"account_number", accountNumber,
			"amount", amount,
			"reason", v.Kind)
		return &tx, nil
	}
	tx := account.withdrawLocked(amount, b.ids.TransactionID())
	b.logger.Info("withdrawal completed",
		"account_number", accountNumber,
		"amount", amount,
		"transaction_id", tx.ID)
	return &tx, nil
}

// Transfer moves amount between two accounts atomically. Both account
// locks are taken in account-number order, the source strategy is
// validated, and the debit and credit are applied with both locks
// held, so no caller can observe one side moved without the other.
// The source debit does not count against a savings withdrawal limit.
// Returns the source-side transaction; the destination records a
// matching TRANSFER credit in its own history.
func (b *Bank) Transfer(fromNumber, toNumber string, amount decimal.Decimal) (*domain.Transaction, error) {
	from, err := b.Account(fromNumber)
	if err != nil {
		return nil, domain.NewAppErrorf(domain.AccountNotFound, "source account %s not found", fromNumber)
	}
	to, err := b.Account(toNumber)
	if err != nil {
		return nil, domain.NewAppErrorf(domain.AccountNotFound, "destination account %s not found", toNumber)
	}
	if fromNumber == toNumber {
		return nil, domain.NewAppError(domain.InvalidOperation, "cannot transfer to the same account")
	}
	if appErr := domain.ValidateAmount(amount); appErr != nil {
		return nil, appErr
	}

	// Total lock order by account number keeps two opposing transfers
	// between the same pair from deadlocking.
	first, second := from, to
	if second.Number() < first.Number() {
		first, second = second, first
	}
	first.mu.Lock()
	defer first.mu.Unlock()
	second.mu.Lock()
	defer second.mu.Unlock()

	if v := StrategyFor(from.accountType).ValidateWithdrawal(from, amount); v != nil {
		tx := from.recordFailedLocked(domain.TxTransfer, amount, v.Message, b.ids.TransactionID())
		b.logger.Info("transfer rejected",
			"from", fromNumber,
			"to", toNumber,
			"amount", amount,
			"reason", v.Kind)
		return &tx, nil
	}

	debit := from.transferOutLocked(amount, b.ids.TransactionID())
	to.transferInLocked(amount, b.ids.TransactionID())
	b.logger.Info("transfer completed",
		"from", fromNumber,
		"to", toNumber,
		"amount", amount,
		"transaction_id", debit.ID)
	return &debit, nil
}

// ApplyMonthlyAdjustments runs each account type's month-end
// processing (checking fees, savings interest) and resets the monthly
// counters. It must be invoked once per billing period: there is no
// guard against a second run, which would charge and credit again.
// The batch walks a snapshot of the registry; accounts opened or
// closed while it runs may or may not be included.
func (b *Bank) ApplyMonthlyAdjustments() []domain.Transaction {
	b.mu.RLock()
	snapshot := make([]*Account, 0, len(b.accounts))
	for _, a := range b.accounts {
		snapshot = append(snapshot, a)
	}
	b.mu.RUnlock()
	sort.Slice(snapshot, func(i, j int) bool { return snapshot[i].Number() < snapshot[j].Number() })

	var applied []domain.Transaction
	for _, account := range snapshot {
		account.mu.Lock()
		adjustments := StrategyFor(account.accountType).ApplyMonthlyAdjustments(account, b.ids)
		account.mu.Unlock()
		applied = append(applied, adjustments...)
	}
	b.logger.Info("monthly adjustments applied",
		"accounts", len(snapshot),
		"adjustments", len(applied))
	return applied
}

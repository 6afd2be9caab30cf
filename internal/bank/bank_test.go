package bank

import (
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bank-engine/internal/domain"
	"bank-engine/internal/id"
)

func newTestBank() *Bank {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(id.NewSequentialGenerator(), logger)
}

func TestOpenAccount(t *testing.T) {
	b := newTestBank()

	account, err := b.OpenAccount("Alice", domain.Checking, money(t, "500"))
	require.NoError(t, err)

	assert.Equal(t, "ACC-00000001", account.Number())
	assert.Equal(t, domain.Checking, account.Type())
	assert.Equal(t, "Alice", account.CustomerName())
	assert.True(t, account.Balance().Equal(money(t, "500")))

	// The opening deposit is part of the audit trail.
	history := account.TransactionHistory()
	require.Len(t, history, 1)
	assert.Equal(t, domain.TxDeposit, history[0].Type)
	assert.True(t, history[0].Amount.Equal(money(t, "500")))
}

func TestOpenAccountZeroDepositRecordsNothing(t *testing.T) {
	b := newTestBank()

	account, err := b.OpenAccount("Alice", domain.Checking, decimal.Zero)
	require.NoError(t, err)
	assert.True(t, account.Balance().IsZero())
	assert.Empty(t, account.TransactionHistory())
}

func TestOpenAccountValidation(t *testing.T) {
	b := newTestBank()

	_, err := b.OpenAccount("", domain.Checking, money(t, "100"))
	require.Error(t, err)
	assert.Equal(t, domain.InvalidInput, err.(*domain.AppError).Code)

	_, err = b.OpenAccount("  ", domain.Checking, money(t, "100"))
	require.Error(t, err)

	_, err = b.OpenAccount("Alice", domain.AccountType("PREMIUM"), money(t, "100"))
	require.Error(t, err)
	assert.Equal(t, domain.InvalidInput, err.(*domain.AppError).Code)

	_, err = b.OpenAccount("Alice", domain.Checking, money(t, "-1"))
	require.Error(t, err)
	assert.Equal(t, domain.InvalidAmount, err.(*domain.AppError).Code)
}

func TestOpenSavingsAccountMinimumDeposit(t *testing.T) {
	b := newTestBank()

	_, err := b.OpenAccount("Alice", domain.Savings, money(t, "50.00"))
	require.Error(t, err)
	assert.Equal(t, domain.BelowMinimum, err.(*domain.AppError).Code)

	account, err := b.OpenAccount("Alice", domain.Savings, money(t, "100.00"))
	require.NoError(t, err)
	assert.True(t, account.Balance().Equal(money(t, "100.00")))
}

func TestCloseAccount(t *testing.T) {
	b := newTestBank()
	account, err := b.OpenAccount("Alice", domain.Checking, money(t, "0.01"))
	require.NoError(t, err)

	err = b.CloseAccount(account.Number())
	require.Error(t, err)
	assert.Equal(t, domain.InvalidOperation, err.(*domain.AppError).Code)

	_, err = b.Withdraw(account.Number(), money(t, "0.01"))
	require.NoError(t, err)

	require.NoError(t, b.CloseAccount(account.Number()))

	// Gone for good.
	_, err = b.Account(account.Number())
	assert.Equal(t, domain.ErrAccountNotFound, err)
	assert.Equal(t, domain.ErrAccountNotFound, b.CloseAccount(account.Number()))
}

func TestBankDeposit(t *testing.T) {
	b := newTestBank()
	account, err := b.OpenAccount("Alice", domain.Checking, money(t, "100"))
	require.NoError(t, err)

	tx, err := b.Deposit(account.Number(), money(t, "25.50"))
	require.NoError(t, err)
	assert.Equal(t, domain.StatusSuccess, tx.Status)
	assert.True(t, account.Balance().Equal(money(t, "125.50")))

	_, err = b.Deposit("ACC-99999999", money(t, "10"))
	assert.Equal(t, domain.ErrAccountNotFound, err)

	_, err = b.Deposit(account.Number(), money(t, "-10"))
	require.Error(t, err)
	assert.Equal(t, domain.InvalidAmount, err.(*domain.AppError).Code)
}

func TestBankWithdrawRecordsRuleViolations(t *testing.T) {
	b := newTestBank()
	account, err := b.OpenAccount("Alice", domain.Savings, money(t, "150"))
	require.NoError(t, err)

	// Would leave $50, below the savings minimum: a FAILED
	// transaction, not an error.
	tx, err := b.Withdraw(account.Number(), money(t, "100"))
	require.NoError(t, err)
	assert.Equal(t, domain.StatusFailed, tx.Status)
	assert.Equal(t, domain.TxWithdrawal, tx.Type)
	assert.NotEmpty(t, tx.FailureReason)
	assert.True(t, tx.BalanceBefore.Equal(tx.BalanceAfter))
	assert.True(t, account.Balance().Equal(money(t, "150")))

	history := account.TransactionHistory()
	require.Len(t, history, 2)
	assert.Equal(t, domain.StatusFailed, history[1].Status)
}

func TestBankWithdrawSuccess(t *testing.T) {
	b := newTestBank()
	account, err := b.OpenAccount("Alice", domain.Checking, money(t, "100"))
	require.NoError(t, err)

	tx, err := b.Withdraw(account.Number(), money(t, "100"))
	require.NoError(t, err)
	assert.Equal(t, domain.StatusSuccess, tx.Status)
	assert.True(t, account.Balance().IsZero())
}

func TestSavingsWithdrawalLimitSixthAttemptFails(t *testing.T) {
	b := newTestBank()
	account, err := b.OpenAccount("Alice", domain.Savings, money(t, "1000"))
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		tx, err := b.Withdraw(account.Number(), money(t, "10"))
		require.NoError(t, err)
		require.Equal(t, domain.StatusSuccess, tx.Status)
	}

	tx, err := b.Withdraw(account.Number(), money(t, "10"))
	require.NoError(t, err)
	assert.Equal(t, domain.StatusFailed, tx.Status)
	assert.Contains(t, tx.FailureReason, "limit")
	assert.True(t, account.Balance().Equal(money(t, "950")))
}

func TestTransfer(t *testing.T) {
	b := newTestBank()
	from, err := b.OpenAccount("Alice", domain.Checking, money(t, "300"))
	require.NoError(t, err)
	to, err := b.OpenAccount("Bob", domain.Checking, money(t, "100"))
	require.NoError(t, err)

	tx, err := b.Transfer(from.Number(), to.Number(), money(t, "120.50"))
	require.NoError(t, err)

	assert.Equal(t, domain.TxTransfer, tx.Type)
	assert.Equal(t, domain.StatusSuccess, tx.Status)
	assert.Equal(t, from.Number(), tx.AccountNumber)
	assert.True(t, from.Balance().Equal(money(t, "179.50")))
	assert.True(t, to.Balance().Equal(money(t, "220.50")))

	// The destination records the matching credit.
	toHistory := to.TransactionHistory()
	require.Len(t, toHistory, 2)
	assert.Equal(t, domain.TxTransfer, toHistory[1].Type)
	assert.True(t, toHistory[1].Amount.Equal(money(t, "120.50")))
}

func TestTransferCallerErrors(t *testing.T) {
	b := newTestBank()
	a1, err := b.OpenAccount("Alice", domain.Checking, money(t, "300"))
	require.NoError(t, err)

	_, err = b.Transfer(a1.Number(), a1.Number(), money(t, "10"))
	require.Error(t, err)
	assert.Equal(t, domain.InvalidOperation, err.(*domain.AppError).Code)

	_, err = b.Transfer(a1.Number(), "ACC-99999999", money(t, "10"))
	require.Error(t, err)
	assert.Equal(t, domain.AccountNotFound, err.(*domain.AppError).Code)

	_, err = b.Transfer("ACC-99999999", a1.Number(), money(t, "10"))
	require.Error(t, err)
	assert.Equal(t, domain.AccountNotFound, err.(*domain.AppError).Code)

	a2, err := b.OpenAccount("Bob", domain.Checking, money(t, "100"))
	require.NoError(t, err)
	_, err = b.Transfer(a1.Number(), a2.Number(), money(t, "0"))
	require.Error(t, err)
	assert.Equal(t, domain.InvalidAmount, err.(*domain.AppError).Code)
}

func TestTransferRuleViolationLeavesBothBalancesUntouched(t *testing.T) {
	b := newTestBank()
	from, err := b.OpenAccount("Alice", domain.Savings, money(t, "150"))
	require.NoError(t, err)
	to, err := b.OpenAccount("Bob", domain.Checking, money(t, "100"))
	require.NoError(t, err)

	tx, err := b.Transfer(from.Number(), to.Number(), money(t, "100"))
	require.NoError(t, err)

	assert.Equal(t, domain.StatusFailed, tx.Status)
	assert.Equal(t, domain.TxTransfer, tx.Type)
	assert.True(t, from.Balance().Equal(money(t, "150")))
	assert.True(t, to.Balance().Equal(money(t, "100")))
	// Only the source records the failed attempt.
	assert.Len(t, from.TransactionHistory(), 2)
	assert.Len(t, to.TransactionHistory(), 1)
}

func TestTransfersDoNotConsumeSavingsWithdrawalQuota(t *testing.T) {
	b := newTestBank()
	from, err := b.OpenAccount("Alice", domain.Savings, money(t, "1000"))
	require.NoError(t, err)
	to, err := b.OpenAccount("Bob", domain.Checking, money(t, "0.01"))
	require.NoError(t, err)

	for i := 0; i < 6; i++ {
		tx, err := b.Transfer(from.Number(), to.Number(), money(t, "50"))
		require.NoError(t, err)
		require.Equal(t, domain.StatusSuccess, tx.Status)
	}

	assert.Equal(t, 0, from.MonthlyWithdrawalCount())
	assert.True(t, from.Balance().Equal(money(t, "700")))

	// A plain withdrawal is still available.
	wtx, err := b.Withdraw(from.Number(), money(t, "100"))
	require.NoError(t, err)
	assert.Equal(t, domain.StatusSuccess, wtx.Status)
}

func TestApplyMonthlyAdjustments(t *testing.T) {
	b := newTestBank()
	checking, err := b.OpenAccount("Alice", domain.Checking, money(t, "1000"))
	require.NoError(t, err)
	savings, err := b.OpenAccount("Bob", domain.Savings, money(t, "1000"))
	require.NoError(t, err)

	// 15 deposits on top of the opening one: 16 transactions, 6 over
	// the free allowance.
	for i := 0; i < 15; i++ {
		_, err := b.Deposit(checking.Number(), money(t, "10"))
		require.NoError(t, err)
	}

	applied := b.ApplyMonthlyAdjustments()
	require.Len(t, applied, 2)

	// Snapshot is walked in account-number order.
	assert.Equal(t, domain.TxFee, applied[0].Type)
	assert.True(t, applied[0].Amount.Equal(money(t, "15.00")))
	assert.True(t, checking.Balance().Equal(money(t, "1135.00")))

	assert.Equal(t, domain.TxInterest, applied[1].Type)
	assert.True(t, applied[1].Amount.Equal(money(t, "20.00")))
	assert.True(t, savings.Balance().Equal(money(t, "1020.00")))

	assert.Equal(t, 0, checking.MonthlyTransactionCount())
	assert.Equal(t, 0, savings.MonthlyTransactionCount())
}

func TestGenerateMonthlyStatementIsReadOnly(t *testing.T) {
	b := newTestBank()
	account, err := b.OpenAccount("Alice", domain.Savings, money(t, "500"))
	require.NoError(t, err)
	_, err = b.Withdraw(account.Number(), money(t, "50"))
	require.NoError(t, err)

	before := account.TransactionHistory()
	statement, err := b.GenerateMonthlyStatement(account.Number())
	require.NoError(t, err)

	assert.Contains(t, statement, account.Number())
	assert.Contains(t, statement, "Alice")
	assert.Contains(t, statement, "WITHDRAWAL")
	assert.Contains(t, statement, "2% interest")
	assert.Equal(t, before, account.TransactionHistory())
	assert.True(t, account.Balance().Equal(money(t, "450")))

	_, err = b.GenerateMonthlyStatement("ACC-99999999")
	assert.Equal(t, domain.ErrAccountNotFound, err)
}

func TestAccountsReturnsStableOrder(t *testing.T) {
	b := newTestBank()
	for _, name := range []string{"Alice", "Bob", "Cara"} {
		_, err := b.OpenAccount(name, domain.Checking, money(t, "10"))
		require.NoError(t, err)
	}

	accounts := b.Accounts()
	require.Len(t, accounts, 3)
	assert.Equal(t, "ACC-00000001", accounts[0].Number())
	assert.Equal(t, "ACC-00000002", accounts[1].Number())
	assert.Equal(t, "ACC-00000003", accounts[2].Number())
}

func TestConcurrentDepositsAndWithdrawals(t *testing.T) {
	b := newTestBank()
	account, err := b.OpenAccount("Alice", domain.Checking, money(t, "1000"))
	require.NoError(t, err)

	const workers, perWorker = 8, 25
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				_, err := b.Deposit(account.Number(), money(t, "2"))
				assert.NoError(t, err)
				_, err = b.Withdraw(account.Number(), money(t, "1"))
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	// 1000 + 200*(2-1)
	assert.True(t, account.Balance().Equal(money(t, "1200")))

	// Every recorded entry is a consistent before/after snapshot.
	for _, tx := range account.TransactionHistory() {
		diff := tx.BalanceAfter.Sub(tx.BalanceBefore).Abs()
		assert.True(t, diff.Equal(tx.Amount))
	}
}

func TestConcurrentOpposingTransfersDoNotDeadlock(t *testing.T) {
	b := newTestBank()
	a1, err := b.OpenAccount("Alice", domain.Checking, money(t, "1000"))
	require.NoError(t, err)
	a2, err := b.OpenAccount("Bob", domain.Checking, money(t, "1000"))
	require.NoError(t, err)

	const rounds = 100
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < rounds; i++ {
			_, err := b.Transfer(a1.Number(), a2.Number(), money(t, "1"))
			assert.NoError(t, err)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < rounds; i++ {
			_, err := b.Transfer(a2.Number(), a1.Number(), money(t, "1"))
			assert.NoError(t, err)
		}
	}()
	wg.Wait()

	// Money is conserved.
	total := a1.Balance().Add(a2.Balance())
	assert.True(t, total.Equal(money(t, "2000")))
}

package bank

import (
	"github.com/shopspring/decimal"

	"bank-engine/internal/domain"
	"bank-engine/internal/id"
)

const savingsMaxMonthlyWithdrawals = 5

var (
	savingsMinimumBalance      = decimal.RequireFromString("100.00")
	savingsMonthlyInterestRate = decimal.RequireFromString("0.02")
)

// savingsStrategy: $100.00 minimum balance, 5 withdrawals per month,
// 2% interest credited at month-end. Outbound transfers do not count
// as withdrawals.
type savingsStrategy struct{}

// ValidateWithdrawal runs its checks in a fixed order; when several
// rules are broken at once, the first one decides the reported reason.
func (savingsStrategy) ValidateWithdrawal(a *Account, amount decimal.Decimal) *domain.RuleViolation {
	if amount.GreaterThan(a.balance) {
		return domain.NewViolation(domain.InsufficientFunds,
			"insufficient funds: balance %s, requested %s", a.balance.StringFixed(2), amount.StringFixed(2))
	}
	// Landing exactly on the minimum is allowed.
	if a.balance.Sub(amount).LessThan(savingsMinimumBalance) {
		return domain.NewViolation(domain.MinimumBalanceViolation,
			"withdrawal would leave balance %s below the %s minimum",
			a.balance.Sub(amount).StringFixed(2), savingsMinimumBalance.StringFixed(2))
	}
	if a.monthlyWithdrawals >= savingsMaxMonthlyWithdrawals {
		return domain.NewViolation(domain.WithdrawalLimitExceeded,
			"monthly withdrawal limit of %d reached", savingsMaxMonthlyWithdrawals)
	}
	return nil
}

func (savingsStrategy) ApplyMonthlyAdjustments(a *Account, ids id.Generator) []domain.Transaction {
	var applied []domain.Transaction
	interest := domain.RoundMoney(a.balance.Mul(savingsMonthlyInterestRate))
	if interest.IsPositive() {
		applied = append(applied, a.applyInterestLocked(interest, ids.TransactionID()))
	}
	a.resetCountersLocked()
	return applied
}

func (savingsStrategy) BusinessRules() string {
	return "Savings: $100.00 minimum balance, 5 withdrawals per month (transfers excluded), 2% interest credited at month-end."
}

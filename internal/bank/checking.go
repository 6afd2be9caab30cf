package bank

import (
	"github.com/shopspring/decimal"

	"bank-engine/internal/domain"
	"bank-engine/internal/id"
)

const checkingFreeTransactions = 10

var checkingExcessFee = decimal.RequireFromString("2.50")

// checkingStrategy: no minimum balance, no withdrawal limit. The first
// 10 transactions in a period are free; each one beyond that costs
// $2.50 at month-end, charged even if it drives the balance negative.
type checkingStrategy struct{}

// ValidateWithdrawal only checks funds. A zero amount passes here on
// purpose: amount positivity belongs to the bank-level validator, not
// to the account-type rules.
func (checkingStrategy) ValidateWithdrawal(a *Account, amount decimal.Decimal) *domain.RuleViolation {
	if amount.GreaterThan(a.balance) {
		return domain.NewViolation(domain.InsufficientFunds,
			"insufficient funds: balance %s, requested %s", a.balance.StringFixed(2), amount.StringFixed(2))
	}
	return nil
}

func (checkingStrategy) ApplyMonthlyAdjustments(a *Account, ids id.Generator) []domain.Transaction {
	var applied []domain.Transaction
	if a.monthlyTxCount > checkingFreeTransactions {
		excess := decimal.NewFromInt(int64(a.monthlyTxCount - checkingFreeTransactions))
		fee := domain.RoundMoney(excess.Mul(checkingExcessFee))
		applied = append(applied, a.applyFeeLocked(fee, ids.TransactionID()))
	}
	a.resetCountersLocked()
	return applied
}

func (checkingStrategy) BusinessRules() string {
	return "Checking: no minimum balance, no withdrawal limit; first 10 transactions per month free, then $2.50 per transaction charged at month-end."
}

package bank

import (
	"github.com/shopspring/decimal"

	"bank-engine/internal/domain"
	"bank-engine/internal/id"
)

// Strategy holds the business rules of one account type: whether a
// withdrawal is allowed and what happens at month-end. Strategies are
// stateless and shared across every account of their type.
//
// The bank invokes every strategy method while holding the account's
// mutex, so implementations read account fields directly and mutate
// through the *Locked primitives.
type Strategy interface {
	// ValidateWithdrawal returns nil when the withdrawal may proceed,
	// otherwise the first rule violation found.
	ValidateWithdrawal(a *Account, amount decimal.Decimal) *domain.RuleViolation
	// ApplyMonthlyAdjustments applies the type's month-end fee or
	// interest and resets the monthly counters. Returns the
	// adjustment transactions recorded, if any.
	ApplyMonthlyAdjustments(a *Account, ids id.Generator) []domain.Transaction
	// BusinessRules returns a static description of the rules, for
	// statements.
	BusinessRules() string
}

var strategies = map[domain.AccountType]Strategy{
	domain.Checking: checkingStrategy{},
	domain.Savings:  savingsStrategy{},
}

// StrategyFor returns the shared strategy instance for an account
// type. The type set is closed, so a miss is a programming error.
func StrategyFor(t domain.AccountType) Strategy {
	return strategies[t]
}

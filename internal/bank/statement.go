package bank

import (
	"fmt"
	"strings"

	"bank-engine/internal/domain"
)

// GenerateMonthlyStatement renders an account's state, full audit
// trail and the business rules that govern it. Read-only: nothing in
// the account changes.
func (b *Bank) GenerateMonthlyStatement(accountNumber string) (string, error) {
	account, err := b.Account(accountNumber)
	if err != nil {
		return "", err
	}

	account.mu.Lock()
	balance := account.balance
	txCount := account.monthlyTxCount
	withdrawals := account.monthlyWithdrawals
	history := make([]domain.Transaction, len(account.history))
	copy(history, account.history)
	account.mu.Unlock()

	var sb strings.Builder
	fmt.Fprintf(&sb, "MONTHLY STATEMENT\n")
	fmt.Fprintf(&sb, "Account:      %s (%s)\n", account.Number(), account.Type())
	fmt.Fprintf(&sb, "Customer:     %s\n", account.CustomerName())
	fmt.Fprintf(&sb, "Balance:      %s\n", balance.StringFixed(2))
	fmt.Fprintf(&sb, "Transactions: %d this month (%d withdrawals)\n", txCount, withdrawals)
	sb.WriteString("\n")

	if len(history) == 0 {
		sb.WriteString("No transactions recorded.\n")
	} else {
		sb.WriteString("History:\n")
		for _, tx := range history {
			line := fmt.Sprintf("  %s  %-10s %10s  %s",
				tx.Timestamp.Format("2006-01-02 15:04:05"), tx.Type, tx.Amount.StringFixed(2), tx.Status)
			if tx.Failed() {
				line += " (" + tx.FailureReason + ")"
			}
			sb.WriteString(line + "\n")
		}
	}

	sb.WriteString("\n")
	sb.WriteString(StrategyFor(account.Type()).BusinessRules())
	sb.WriteString("\n")
	return sb.String(), nil
}

package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"bank-engine/internal/bank"
	"bank-engine/internal/domain"
)

type AccountHandler struct {
	bank *bank.Bank
}

func NewAccountHandler(b *bank.Bank) *AccountHandler {
	return &AccountHandler{bank: b}
}

type OpenAccountRequest struct {
	CustomerName   string `json:"customer_name"`
	AccountType    string `json:"account_type"`
	InitialDeposit string `json:"initial_deposit"`
}

type AccountResponse struct {
	AccountNumber           string `json:"account_number"`
	CustomerName            string `json:"customer_name"`
	AccountType             string `json:"account_type"`
	Balance                 string `json:"balance"`
	MonthlyTransactionCount int    `json:"monthly_transaction_count"`
	MonthlyWithdrawalCount  int    `json:"monthly_withdrawal_count"`
}

func toAccountResponse(a *bank.Account) AccountResponse {
	return AccountResponse{
		AccountNumber:           a.Number(),
		CustomerName:            a.CustomerName(),
		AccountType:             string(a.Type()),
		Balance:                 a.Balance().StringFixed(2),
		MonthlyTransactionCount: a.MonthlyTransactionCount(),
		MonthlyWithdrawalCount:  a.MonthlyWithdrawalCount(),
	}
}

func (h *AccountHandler) OpenAccount(w http.ResponseWriter, r *http.Request) {
	var req OpenAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.NewAppError(domain.InvalidInput, "invalid request body").WithDetails(err.Error()))
		return
	}

	accountType, appErr := domain.ParseAccountType(req.AccountType)
	if appErr != nil {
		writeError(w, appErr)
		return
	}

	initialDeposit := decimal.Zero
	if req.InitialDeposit != "" {
		var err error
		initialDeposit, err = decimal.NewFromString(req.InitialDeposit)
		if err != nil {
			writeError(w, domain.NewAppError(domain.InvalidAmount, "invalid initial_deposit format").WithDetails(err.Error()))
			return
		}
	}

	account, err := h.bank.OpenAccount(req.CustomerName, accountType, initialDeposit)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toAccountResponse(account))
}

func (h *AccountHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	account, err := h.bank.Account(mux.Vars(r)["account_number"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAccountResponse(account))
}

func (h *AccountHandler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts := h.bank.Accounts()
	out := make([]AccountResponse, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, toAccountResponse(a))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *AccountHandler) CloseAccount(w http.ResponseWriter, r *http.Request) {
	if err := h.bank.CloseAccount(mux.Vars(r)["account_number"]); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type AmountRequest struct {
	Amount string `json:"amount"`
}

func (h *AccountHandler) parseAmount(w http.ResponseWriter, r *http.Request) (decimal.Decimal, bool) {
	var req AmountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.NewAppError(domain.InvalidInput, "invalid request body").WithDetails(err.Error()))
		return decimal.Zero, false
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		writeError(w, domain.NewAppError(domain.InvalidAmount, "invalid amount format").WithDetails(err.Error()))
		return decimal.Zero, false
	}
	return amount, true
}

func (h *AccountHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	amount, ok := h.parseAmount(w, r)
	if !ok {
		return
	}
	tx, err := h.bank.Deposit(mux.Vars(r)["account_number"], amount)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTransactionResponse(*tx))
}

func (h *AccountHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	amount, ok := h.parseAmount(w, r)
	if !ok {
		return
	}
	tx, err := h.bank.Withdraw(mux.Vars(r)["account_number"], amount)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	// A rejected withdrawal is still 201: the FAILED transaction is
	// the recorded outcome, not a transport error.
	writeJSON(w, http.StatusCreated, toTransactionResponse(*tx))
}

func (h *AccountHandler) TransactionHistory(w http.ResponseWriter, r *http.Request) {
	account, err := h.bank.Account(mux.Vars(r)["account_number"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	history := account.TransactionHistory()
	out := make([]TransactionResponse, 0, len(history))
	for _, tx := range history {
		out = append(out, toTransactionResponse(tx))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *AccountHandler) Statement(w http.ResponseWriter, r *http.Request) {
	statement, err := h.bank.GenerateMonthlyStatement(mux.Vars(r)["account_number"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(statement))
}

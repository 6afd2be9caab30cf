package handler

import (
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"

	"bank-engine/internal/bank"
	"bank-engine/internal/domain"
)

type TransferHandler struct {
	bank *bank.Bank
}

func NewTransferHandler(b *bank.Bank) *TransferHandler {
	return &TransferHandler{bank: b}
}

type TransferRequest struct {
	FromAccount string `json:"from_account"`
	ToAccount   string `json:"to_account"`
	Amount      string `json:"amount"`
}

func (h *TransferHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	var req TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.NewAppError(domain.InvalidInput, "invalid request body").WithDetails(err.Error()))
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		writeError(w, domain.NewAppError(domain.InvalidAmount, "invalid amount format").WithDetails(err.Error()))
		return
	}

	tx, err := h.bank.Transfer(req.FromAccount, req.ToAccount, amount)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTransactionResponse(*tx))
}

// MonthEnd triggers the month-end batch: checking fees, savings
// interest, counter resets. The caller owns the schedule; calling it
// twice in one period applies the adjustments twice.
func (h *TransferHandler) MonthEnd(w http.ResponseWriter, r *http.Request) {
	adjustments := h.bank.ApplyMonthlyAdjustments()
	out := make([]TransactionResponse, 0, len(adjustments))
	for _, tx := range adjustments {
		out = append(out, toTransactionResponse(tx))
	}
	writeJSON(w, http.StatusOK, out)
}

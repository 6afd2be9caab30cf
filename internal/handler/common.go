package handler

import (
	"encoding/json"
	"net/http"

	"bank-engine/internal/domain"
)

type Response struct {
	Data  interface{} `json:"data,omitempty"`
	Error *Error      `json:"error,omitempty"`
}

type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := Response{Data: data}
	json.NewEncoder(w).Encode(response)
}

func writeError(w http.ResponseWriter, appErr *domain.AppError) {
	w.Header().Set("Content-Type", "application/json")

	statusCode := appErr.HTTPStatus()
	errResponse := Error{
		Code:    string(appErr.Code),
		Message: appErr.Message,
		Details: appErr.Details,
	}

	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(Response{Error: &errResponse})
}

// writeServiceError renders any error from the bank layer, falling
// back to internal_error for anything that is not an AppError.
func writeServiceError(w http.ResponseWriter, err error) {
	if appErr, ok := err.(*domain.AppError); ok {
		writeError(w, appErr)
		return
	}
	writeError(w, domain.NewAppError(domain.InternalError, "an unexpected error occurred"))
}

// TransactionResponse is the wire form of a transaction. Amounts are
// string-encoded so decimals survive the round trip exactly.
type TransactionResponse struct {
	TransactionID string `json:"transaction_id"`
	Type          string `json:"type"`
	Amount        string `json:"amount"`
	AccountNumber string `json:"account_number"`
	Timestamp     string `json:"timestamp"`
	BalanceBefore string `json:"balance_before"`
	BalanceAfter  string `json:"balance_after"`
	Status        string `json:"status"`
	FailureReason string `json:"failure_reason,omitempty"`
}

func toTransactionResponse(tx domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID: tx.ID,
		Type:          string(tx.Type),
		Amount:        tx.Amount.StringFixed(2),
		AccountNumber: tx.AccountNumber,
		Timestamp:     tx.Timestamp.Format("2006-01-02T15:04:05.000Z07:00"),
		BalanceBefore: tx.BalanceBefore.StringFixed(2),
		BalanceAfter:  tx.BalanceAfter.StringFixed(2),
		Status:        string(tx.Status),
		FailureReason: tx.FailureReason,
	}
}

package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"savingsadmin/internal/domain"
	"savingsadmin/internal/logger"

	"github.com/google/uuid"
)

type errorResponse struct {
	Error     string   `json:"error"`
	Message   string   `json:"message"`
	RequestID string   `json:"requestId,omitempty"`
	Completed []string `json:"completedSteps,omitempty"`
	Failed    string   `json:"failedStep,omitempty"`
}

var errorStatus = []struct {
	kind   error
	code   string
	status int
}{
	{domain.ErrInconsistentState, "inconsistent_state", http.StatusInternalServerError},
	{domain.ErrUnauthorized, "unauthorized", http.StatusUnauthorized},
	{domain.ErrInvalidAmount, "invalid_amount", http.StatusBadRequest},
	{domain.ErrInvalidInput, "invalid_input", http.StatusBadRequest},
	{domain.ErrInvalidDurationFormat, "invalid_duration_format", http.StatusBadRequest},
	{domain.ErrInsufficientFunds, "insufficient_funds", http.StatusUnprocessableEntity},
	{domain.ErrWithdrawalNotFound, "withdrawal_not_found", http.StatusNotFound},
	{domain.ErrSavingsNotFound, "savings_not_found", http.StatusNotFound},
	{domain.ErrTransactionNotFound, "transaction_not_found", http.StatusNotFound},
	{domain.ErrInvalidTransition, "invalid_transition", http.StatusConflict},
	{domain.ErrIdempotencyKeyMismatch, "idempotency_key_mismatch", http.StatusConflict},
	{domain.ErrDuplicateRequest, "duplicate_request", http.StatusConflict},
	{domain.ErrGatewayAuth, "gateway_auth", http.StatusBadGateway},
	{domain.ErrTransferFailed, "transfer_failed", http.StatusBadGateway},
	{domain.ErrAuthorizationFailed, "authorization_failed", http.StatusBadGateway},
	{domain.ErrStoreUnavailable, "store_unavailable", http.StatusServiceUnavailable},
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error().Err(err).Msg("failed to encode response")
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	resp := errorResponse{Error: "internal", Message: "internal server error"}
	status := http.StatusInternalServerError

	for _, e := range errorStatus {
		if errors.Is(err, e.kind) {
			resp.Error = e.code
			resp.Message = domain.Reason(err)
			status = e.status
			break
		}
	}

	var ie *domain.InconsistentStateError
	if errors.As(err, &ie) {
		if ie.RequestID != uuid.Nil {
			resp.RequestID = ie.RequestID.String()
		}
		resp.Completed = ie.Completed
		resp.Failed = ie.Failed
	}

	if status >= http.StatusInternalServerError {
		logger.Error().Err(err).Str("path", r.URL.Path).Int("status", status).Msg("request failed")
	} else {
		logger.Debug().Err(err).Str("path", r.URL.Path).Int("status", status).Msg("request rejected")
	}

	writeJSON(w, status, resp)
}

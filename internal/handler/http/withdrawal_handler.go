package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"savingsadmin/internal/domain"
	"savingsadmin/internal/port"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const maxBodyBytes = 1 << 20

type WithdrawalHandler struct {
	service  port.WithdrawalService
	validate *validator.Validate
}

func NewWithdrawalHandler(service port.WithdrawalService) *WithdrawalHandler {
	return &WithdrawalHandler{
		service:  service,
		validate: validator.New(),
	}
}

// decode reads a JSON body into dst and validates it.
func decode(w http.ResponseWriter, r *http.Request, v *validator.Validate, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return domain.NewError(domain.ErrInvalidInput, "malformed JSON body", err)
	}
	if err := v.Struct(dst); err != nil {
		return domain.NewError(domain.ErrInvalidInput, validationMessage(err), err)
	}
	return nil
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Field(), fe.Tag()))
	}
	return strings.Join(msgs, "; ")
}

func pathID(r *http.Request, entity string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, domain.NewError(domain.ErrInvalidInput, entity+" id must be a UUID", err)
	}
	return id, nil
}

func (h *WithdrawalHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createWithdrawalRequest
	if err := decode(w, r, h.validate, &req); err != nil {
		writeError(w, r, err)
		return
	}

	key := strings.TrimSpace(r.Header.Get("Idempotency-Key"))
	if key == "" {
		key = req.IdempotencyKey
	}
	if key == "" {
		writeError(w, r, domain.NewError(domain.ErrInvalidInput, "Idempotency-Key header is required", nil))
		return
	}

	withdrawal, err := h.service.CreateWithdrawal(r.Context(), &domain.WithdrawalReq{
		IdempotencyKey: key,
		UserID:         req.UserID,
		SavingsID:      uuid.MustParse(req.SavingsID),
		Amount:         req.Amount,
		Destination: domain.BankDestination{
			BankName:      req.BankName,
			AccountNumber: req.AccountNumber,
			BankCode:      req.BankCode,
		},
		Narration: req.Narration,
	}, principalFrom(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toWithdrawalResponse(withdrawal))
}

func (h *WithdrawalHandler) Quote(w http.ResponseWriter, r *http.Request) {
	var req quoteRequest
	if err := decode(w, r, h.validate, &req); err != nil {
		writeError(w, r, err)
		return
	}

	details, err := h.service.QuoteWithdrawal(r.Context(), uuid.MustParse(req.SavingsID), req.Amount)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toQuoteResponse(details))
}

func (h *WithdrawalHandler) List(w http.ResponseWriter, r *http.Request) {
	status := domain.WithdrawalStatus(r.URL.Query().Get("status"))
	switch status {
	case "", domain.StatusPending, domain.StatusApproved, domain.StatusDeclined, domain.StatusReversed:
	default:
		writeError(w, r, domain.NewError(domain.ErrInvalidInput, fmt.Sprintf("unknown status %q", status), nil))
		return
	}

	list, err := h.service.ListWithdrawals(r.Context(), status)
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := make([]withdrawalResponse, 0, len(list))
	for i := range list {
		resp = append(resp, toWithdrawalResponse(&list[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *WithdrawalHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "withdrawal")
	if err != nil {
		writeError(w, r, err)
		return
	}

	withdrawal, err := h.service.GetWithdrawal(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toWithdrawalResponse(withdrawal))
}

func (h *WithdrawalHandler) Approve(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "withdrawal")
	if err != nil {
		writeError(w, r, err)
		return
	}

	res, err := h.service.ApproveWithdrawal(r.Context(), id, principalFrom(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, approvalResponse{Withdrawal: toWithdrawalResponse(res.Withdrawal), Warnings: res.Warnings})
}

func (h *WithdrawalHandler) Authorize(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "withdrawal")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req authorizeRequest
	if err := decode(w, r, h.validate, &req); err != nil {
		writeError(w, r, err)
		return
	}

	withdrawal, err := h.service.AuthorizeWithdrawal(r.Context(), id, req.AuthorizationCode, principalFrom(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toWithdrawalResponse(withdrawal))
}

func (h *WithdrawalHandler) ResendOTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "withdrawal")
	if err != nil {
		writeError(w, r, err)
		return
	}

	msg, err := h.service.ResendOTP(r.Context(), id, principalFrom(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": msg})
}

func (h *WithdrawalHandler) Decline(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "withdrawal")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req declineRequest
	if err := decode(w, r, h.validate, &req); err != nil {
		writeError(w, r, err)
		return
	}

	withdrawal, err := h.service.DeclineWithdrawal(r.Context(), id, req.Reason, principalFrom(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toWithdrawalResponse(withdrawal))
}

func (h *WithdrawalHandler) Reverse(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "withdrawal")
	if err != nil {
		writeError(w, r, err)
		return
	}

	withdrawal, err := h.service.ReverseWithdrawal(r.Context(), id, principalFrom(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toWithdrawalResponse(withdrawal))
}

func (h *WithdrawalHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "withdrawal")
	if err != nil {
		writeError(w, r, err)
		return
	}

	res, err := h.service.RefreshTransfer(r.Context(), id, principalFrom(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toSyncResultResponse(*res))
}

func (h *WithdrawalHandler) Sync(w http.ResponseWriter, r *http.Request) {
	results, err := h.service.SyncInitializedTransfers(r.Context(), principalFrom(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := make([]syncResultResponse, 0, len(results))
	for _, res := range results {
		resp = append(resp, toSyncResultResponse(res))
	}
	writeJSON(w, http.StatusOK, resp)
}

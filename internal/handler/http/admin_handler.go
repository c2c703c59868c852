package http

import (
	"net/http"

	"savingsadmin/internal/domain"
	"savingsadmin/internal/port"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// AdminHandler serves savings plans and their ledger, contributions, fee
// settings and the bank directory.
type AdminHandler struct {
	savings       port.SavingsService
	contributions port.ContributionService
	fees          port.FeeService
	banks         port.BankDirectory
	validate      *validator.Validate
}

func NewAdminHandler(savings port.SavingsService, contributions port.ContributionService, fees port.FeeService, banks port.BankDirectory) *AdminHandler {
	return &AdminHandler{
		savings:       savings,
		contributions: contributions,
		fees:          fees,
		banks:         banks,
		validate:      validator.New(),
	}
}

func (h *AdminHandler) ListSavings(w http.ResponseWriter, r *http.Request) {
	plans, err := h.savings.ListActivePlans(r.Context(), r.URL.Query().Get("userId"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := make([]savingsPlanResponse, 0, len(plans))
	for i := range plans {
		resp = append(resp, toSavingsPlanResponse(&plans[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *AdminHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "savings")
	if err != nil {
		writeError(w, r, err)
		return
	}

	txs, err := h.savings.ListTransactions(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := make([]transactionResponse, 0, len(txs))
	for i := range txs {
		resp = append(resp, toTransactionResponse(&txs[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *AdminHandler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "transaction")
	if err != nil {
		writeError(w, r, err)
		return
	}

	tx, err := h.savings.GetTransaction(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toTransactionResponse(tx))
}

func (h *AdminHandler) RecordContribution(w http.ResponseWriter, r *http.Request) {
	var req contributionRequest
	if err := decode(w, r, h.validate, &req); err != nil {
		writeError(w, r, err)
		return
	}

	tx, err := h.contributions.RecordContribution(r.Context(), &domain.ContributionReq{
		UserID:    req.UserID,
		SavingsID: uuid.MustParse(req.SavingsID),
		Amount:    req.Amount,
		Reference: req.Reference,
		Method:    req.Method,
	}, principalFrom(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toTransactionResponse(tx))
}

func (h *AdminHandler) GetFeeSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.fees.GetFeeSettings(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toFeeSettingsResponse(settings))
}

func (h *AdminHandler) UpdateFeeSettings(w http.ResponseWriter, r *http.Request) {
	var req feeSettingsRequest
	if err := decode(w, r, h.validate, &req); err != nil {
		writeError(w, r, err)
		return
	}

	settings, err := h.fees.UpdateFeeSettings(r.Context(), &domain.FeeSettings{
		CompletedPlanFeePercentage: req.CompletedPlanFeePercentage,
		BrokenPlanFeePercentage:    req.BrokenPlanFeePercentage,
	}, principalFrom(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toFeeSettingsResponse(settings))
}

func (h *AdminHandler) ListBanks(w http.ResponseWriter, r *http.Request) {
	banks, err := h.banks.ListBanks(r.Context())
	if err != nil {
		writeError(w, r, domain.NewError(domain.ErrTransferFailed, "bank list unavailable", err))
		return
	}

	resp := make([]bankResponse, 0, len(banks))
	for _, b := range banks {
		resp = append(resp, bankResponse{Name: b.Name, Code: b.Code})
	}
	writeJSON(w, http.StatusOK, resp)
}

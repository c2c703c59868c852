package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"savingsadmin/internal/domain"
	"savingsadmin/internal/logger"
	"savingsadmin/internal/port"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sourcegraph/conc/pool"
)

type Repositories struct {
	Withdrawals  port.WithdrawalRepository
	Savings      port.SavingsRepository
	Transactions port.TransactionRepository
	Fees         port.FeeSettingsRepository
}

type Options struct {
	// DefaultFees apply when no fee settings record exists.
	DefaultFees     domain.FeeSettings
	SyncConcurrency int
	Now             func() time.Time
}

type withdrawalService struct {
	withdrawalRepo  port.WithdrawalRepository
	savingsRepo     port.SavingsRepository
	transactionRepo port.TransactionRepository
	feeRepo         port.FeeSettingsRepository
	locker          port.Locker
	gateway         port.DisbursementGateway
	defaultFees     domain.FeeSettings
	syncConcurrency int
	now             func() time.Time
}

func NewWithdrawalService(
	repos Repositories,
	locker port.Locker,
	gateway port.DisbursementGateway,
	opts Options,
) port.WithdrawalService {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.SyncConcurrency <= 0 {
		opts.SyncConcurrency = 4
	}
	return &withdrawalService{
		withdrawalRepo:  repos.Withdrawals,
		savingsRepo:     repos.Savings,
		transactionRepo: repos.Transactions,
		feeRepo:         repos.Fees,
		locker:          locker,
		gateway:         gateway,
		defaultFees:     opts.DefaultFees,
		syncConcurrency: opts.SyncConcurrency,
		now:             opts.Now,
	}
}

// feeRates reads the fee settings on every call; rates may change between
// requests.
func (s *withdrawalService) feeRates(ctx context.Context) (domain.FeeRates, error) {
	settings, err := loadFeeSettings(ctx, s.feeRepo, s.defaultFees)
	if err != nil {
		return domain.FeeRates{}, err
	}
	return settings.Rates(), nil
}

func (s *withdrawalService) quote(ctx context.Context, plan *domain.SavingsPlan, amount decimal.Decimal) (domain.WithdrawalDetails, error) {
	rates, err := s.feeRates(ctx)
	if err != nil {
		return domain.WithdrawalDetails{}, err
	}
	details, err := domain.Quote(plan, amount, rates, s.now())
	if err != nil {
		return details, err
	}
	if details.InvalidDuration {
		logger.Warn().
			Str("savings_id", plan.ID.String()).
			Str("duration", plan.Duration).
			Msg("unparseable plan duration, treating plan as completed")
	}
	return details, nil
}

func (s *withdrawalService) QuoteWithdrawal(ctx context.Context, savingsID uuid.UUID, amount decimal.Decimal) (*domain.WithdrawalDetails, error) {
	if err := domain.ValidateAmount(amount); err != nil {
		return nil, err
	}
	plan, err := s.savingsRepo.GetByID(ctx, savingsID)
	if err != nil {
		return nil, storeErr("load savings plan", err)
	}
	details, err := s.quote(ctx, plan, amount)
	if err != nil {
		return nil, err
	}
	return &details, nil
}

func validateWithdrawalReq(req *domain.WithdrawalReq) error {
	if strings.TrimSpace(req.IdempotencyKey) == "" {
		return domain.NewError(domain.ErrInvalidInput, "idempotency key is required", nil)
	}
	if req.UserID == "" || req.SavingsID == uuid.Nil {
		return domain.NewError(domain.ErrInvalidInput, "user and savings plan are required", nil)
	}
	if req.Destination.AccountNumber == "" || req.Destination.BankCode == "" || req.Destination.BankName == "" {
		return domain.NewError(domain.ErrInvalidInput, "destination bank details are required", nil)
	}
	return domain.ValidateAmount(req.Amount)
}

func (s *withdrawalService) CreateWithdrawal(ctx context.Context, req *domain.WithdrawalReq, by domain.Principal) (*domain.WithdrawalRequest, error) {
	if err := validateWithdrawalReq(req); err != nil {
		return nil, err
	}

	var withdrawal *domain.WithdrawalRequest

	err := s.locker.WithLock(ctx, idempotencyLockKey(req.IdempotencyKey), func(ctx context.Context) error {
		existing, err := s.withdrawalRepo.GetByIdempotencyKey(ctx, req.IdempotencyKey)
		if err != nil {
			return storeErr("look up idempotency key", err)
		}
		if existing != nil {
			if !existing.Matches(req) {
				return domain.NewError(domain.ErrIdempotencyKeyMismatch,
					"idempotency key was already used for a different withdrawal", nil)
			}
			withdrawal = existing
			return nil
		}

		// an earlier attempt deducted the balance but never stored the request
		deducted, err := s.savingsRepo.AdjustmentApplied(ctx, deductKey(req.IdempotencyKey))
		if err != nil {
			return storeErr("look up balance deduction", err)
		}
		if deducted {
			seq := newSequence("withdrawal create", uuid.Nil)
			seq.done("balance_deducted")
			return seq.inconsistent("create_withdrawal",
				errors.New("balance was already deducted by an earlier attempt with this idempotency key"))
		}

		plan, err := s.savingsRepo.GetByID(ctx, req.SavingsID)
		if err != nil {
			return storeErr("load savings plan", err)
		}
		if plan.UserID != req.UserID {
			return domain.NewError(domain.ErrInvalidInput, "savings plan does not belong to the user", nil)
		}

		details, err := s.quote(ctx, plan, req.Amount)
		if err != nil {
			return err
		}
		if !details.HasSufficientFunds {
			return domain.InsufficientFundsError(plan, req.Amount)
		}

		now := s.now()
		narration := strings.TrimSpace(req.Narration)
		if narration == "" {
			narration = "Withdrawal Request"
		}

		w := &domain.WithdrawalRequest{
			ID:                      uuid.New(),
			IdempotencyKey:          req.IdempotencyKey,
			UserID:                  req.UserID,
			SavingsID:               plan.ID,
			RequestedAmount:         req.Amount,
			TotalDeductedAmount:     details.TotalDeducted,
			TotalTransferableAmount: details.ActualAmountReceived,
			Fee:                     details.Fee,
			FeePercentage:           details.FeePercentage,
			Destination:             req.Destination,
			Narration:               narration,
			IsPlanCompleted:         details.IsPlanCompleted,
			IsPartialWithdrawal:     details.IsPartialWithdrawal,
			Status:                  domain.StatusPending,
			TransferReference:       domain.NewReference(domain.TransferRefPrefix),
			BulkReference:           domain.NewReference(domain.BulkRefPrefix),
			FeeReference:            domain.NewReference(domain.FeeRefPrefix),
			TransactionID:           uuid.New(),
			CreatedAt:               now,
			UpdatedAt:               now,
		}

		txn := &domain.Transaction{
			ID:          w.TransactionID,
			UserID:      w.UserID,
			Type:        domain.TransactionDebit,
			Amount:      details.ActualAmountReceived,
			Status:      domain.TransactionPending,
			Description: "Withdrawal: " + narration,
			Reference:   w.TransferReference,
			SavingsID:   plan.ID,
			SavingsName: plan.Name,
			Method:      "bank",
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		seq := newSequence("withdrawal create", w.ID)

		applied, err := s.savingsRepo.AdjustBalance(ctx, domain.BalanceAdjustment{
			Key:       deductKey(req.IdempotencyKey),
			SavingsID: plan.ID,
			Delta:     details.TotalDeducted.Neg(),
		})
		if err != nil {
			if errors.Is(err, domain.ErrInsufficientFunds) {
				return domain.NewError(domain.ErrInsufficientFunds,
					"savings balance changed and no longer covers the withdrawal", err)
			}
			return seq.fail("deduct_balance", err)
		}
		if !applied {
			return seq.inconsistent("deduct_balance",
				errors.New("balance was already deducted by an earlier attempt with this idempotency key"))
		}
		seq.done("balance_deducted")

		if err := s.transactionRepo.Create(ctx, txn); err != nil {
			return seq.fail("create_transaction", err)
		}
		seq.done("transaction_created")

		if err := s.withdrawalRepo.Create(ctx, w); err != nil {
			return seq.fail("create_withdrawal", err)
		}

		logger.Info().
			Str("request_id", w.ID.String()).
			Str("savings_id", plan.ID.String()).
			Str("deducted", w.TotalDeductedAmount.String()).
			Str("by", by.String()).
			Msg("withdrawal request created")

		withdrawal = w
		return nil
	})
	if err != nil {
		return nil, err
	}

	return withdrawal, nil
}

func (s *withdrawalService) GetWithdrawal(ctx context.Context, id uuid.UUID) (*domain.WithdrawalRequest, error) {
	w, err := s.withdrawalRepo.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr("load withdrawal", err)
	}
	return w, nil
}

func (s *withdrawalService) ListWithdrawals(ctx context.Context, status domain.WithdrawalStatus) ([]domain.WithdrawalRequest, error) {
	list, err := s.withdrawalRepo.ListByStatus(ctx, status)
	if err != nil {
		return nil, storeErr("list withdrawals", err)
	}
	return list, nil
}

func describe(w *domain.WithdrawalRequest) string {
	switch {
	case w.Status == domain.StatusPending && w.IsInitialized:
		return "pending authorization"
	case w.TransferInFlight():
		return "awaiting transfer settlement"
	case w.Status == domain.StatusPending && w.GatewayStatus != "":
		return fmt.Sprintf("pending after a %s transfer", w.GatewayStatus)
	}
	return string(w.Status)
}

func transitionErr(action string, w *domain.WithdrawalRequest) error {
	return domain.NewError(domain.ErrInvalidTransition,
		fmt.Sprintf("cannot %s a withdrawal that is %s", action, describe(w)), nil)
}

// checkWalletBalance never blocks an approval; a shortfall or a failed check
// only produces a warning.
func (s *withdrawalService) checkWalletBalance(ctx context.Context, w *domain.WithdrawalRequest) []string {
	required := w.TotalTransferableAmount.Add(domain.EstimatedGatewayCharge(w.TotalTransferableAmount))

	balance, err := s.gateway.GetWalletBalance(ctx)
	if err != nil {
		msg := fmt.Sprintf("could not verify wallet balance (%s), proceeding with transfer", domain.Reason(err))
		logger.Warn().Err(err).Str("request_id", w.ID.String()).Msg("wallet balance check failed")
		return []string{msg}
	}

	if balance.Available.LessThan(required) {
		msg := fmt.Sprintf("insufficient wallet balance: required ₦%s, available ₦%s; transfer will be attempted anyway",
			required.StringFixed(2), balance.Available.StringFixed(2))
		logger.Warn().
			Str("request_id", w.ID.String()).
			Str("required", required.String()).
			Str("available", balance.Available.String()).
			Msg("wallet balance below transfer amount")
		return []string{msg}
	}

	return nil
}

func (s *withdrawalService) ApproveWithdrawal(ctx context.Context, id uuid.UUID, by domain.Principal) (*port.ApprovalResult, error) {
	var result *port.ApprovalResult

	err := s.locker.WithLock(ctx, lockKey(id), func(ctx context.Context) error {
		w, err := s.withdrawalRepo.GetByID(ctx, id)
		if err != nil {
			return storeErr("load withdrawal", err)
		}
		if w.Status != domain.StatusPending || w.TransferStarted() {
			return transitionErr("approve", w)
		}

		warnings := s.checkWalletBalance(ctx, w)

		res, err := s.gateway.InitiateTransfer(ctx, domain.TransferRequest{
			Amount:                   w.TotalTransferableAmount,
			Reference:                w.TransferReference,
			Narration:                w.Narration,
			DestinationBankCode:      w.Destination.BankCode,
			DestinationAccountNumber: w.Destination.AccountNumber,
		})
		if err != nil {
			return gatewayErr(domain.ErrTransferFailed, "transfer could not be initiated", err)
		}
		if res.Status.IsRejected() {
			return domain.NewError(domain.ErrTransferFailed,
				fmt.Sprintf("gateway reported the transfer as %s", res.Status), errors.New(res.Message))
		}

		seq := newSequence("withdrawal approve", w.ID)
		seq.done("transfer_initiated")

		now := s.now()
		w.ApprovedBy = by.String()
		w.GatewayReference = res.Reference
		w.GatewayStatus = string(res.Status)
		w.UpdatedAt = now

		switch {
		case res.Status.IsSuccessful():
			if err := s.complete(ctx, w, res, seq); err != nil {
				return err
			}
		case res.Status.IsPendingAuthorization():
			w.IsInitialized = true
			if err := s.withdrawalRepo.Update(ctx, w, domain.StatusPending); err != nil {
				return seq.fail("mark_initialized", err)
			}
			logger.Info().
				Str("request_id", w.ID.String()).
				Str("reference", w.TransferReference).
				Msg("transfer initialized, awaiting authorization")
		default:
			if err := s.awaitSettlement(ctx, w, res, seq); err != nil {
				return err
			}
		}

		result = &port.ApprovalResult{Withdrawal: w, Warnings: warnings}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// complete marks the linked transaction completed and then the request
// approved.
func (s *withdrawalService) complete(ctx context.Context, w *domain.WithdrawalRequest, res *domain.TransferResult, seq *sequence) error {
	if err := s.transactionRepo.UpdateStatus(ctx, w.TransactionID, domain.TransactionCompleted, res.TransactionReference); err != nil {
		return seq.fail("complete_transaction", err)
	}
	seq.done("transaction_completed")

	now := s.now()
	w.Status = domain.StatusApproved
	w.GatewayStatus = string(res.Status)
	if res.Reference != "" {
		w.GatewayReference = res.Reference
	}
	w.TransferCompletedAt = &now
	w.UpdatedAt = now

	if err := s.withdrawalRepo.Update(ctx, w, domain.StatusPending); err != nil {
		return seq.fail("mark_approved", err)
	}

	logger.Info().
		Str("request_id", w.ID.String()).
		Str("reference", w.TransferReference).
		Str("amount", w.TotalTransferableAmount.String()).
		Msg("withdrawal approved")
	return nil
}

// awaitSettlement records a transfer the gateway accepted without settling
// it. The request stays pending and RefreshTransfer approves it once the
// gateway reports success.
func (s *withdrawalService) awaitSettlement(ctx context.Context, w *domain.WithdrawalRequest, res *domain.TransferResult, seq *sequence) error {
	status := res.Status
	if status == "" {
		status = domain.TransferPending
	}

	w.IsInitialized = false
	w.GatewayStatus = string(status)
	if res.Reference != "" {
		w.GatewayReference = res.Reference
	}
	w.UpdatedAt = s.now()

	if err := s.withdrawalRepo.Update(ctx, w, domain.StatusPending); err != nil {
		return seq.fail("record_transfer_status", err)
	}

	logger.Info().
		Str("request_id", w.ID.String()).
		Str("reference", w.TransferReference).
		Str("gateway_status", w.GatewayStatus).
		Msg("transfer accepted, awaiting settlement")
	return nil
}

func (s *withdrawalService) AuthorizeWithdrawal(ctx context.Context, id uuid.UUID, code string, by domain.Principal) (*domain.WithdrawalRequest, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, domain.NewError(domain.ErrInvalidInput, "authorization code is required", nil)
	}

	var withdrawal *domain.WithdrawalRequest

	err := s.locker.WithLock(ctx, lockKey(id), func(ctx context.Context) error {
		w, err := s.withdrawalRepo.GetByID(ctx, id)
		if err != nil {
			return storeErr("load withdrawal", err)
		}
		if w.Status != domain.StatusPending || !w.IsInitialized {
			return transitionErr("authorize", w)
		}

		res, err := s.gateway.AuthorizeTransfer(ctx, w.TransferReference, code)
		if err != nil {
			return gatewayErr(domain.ErrAuthorizationFailed, "gateway rejected the authorization code", err)
		}
		if res.Status.IsRejected() {
			return domain.NewError(domain.ErrAuthorizationFailed,
				fmt.Sprintf("gateway reported the transfer as %s", res.Status), errors.New(res.Message))
		}

		if res.Status.IsPendingAuthorization() {
			return domain.NewError(domain.ErrAuthorizationFailed,
				"gateway still reports the transfer as awaiting authorization", errors.New(res.Message))
		}

		seq := newSequence("withdrawal authorize", w.ID)
		seq.done("transfer_authorized")

		w.ApprovedBy = by.String()
		if res.Status.IsSuccessful() {
			if err := s.complete(ctx, w, res, seq); err != nil {
				return err
			}
		} else if err := s.awaitSettlement(ctx, w, res, seq); err != nil {
			return err
		}

		withdrawal = w
		return nil
	})
	if err != nil {
		return nil, err
	}

	return withdrawal, nil
}

func (s *withdrawalService) ResendOTP(ctx context.Context, id uuid.UUID, by domain.Principal) (string, error) {
	var message string

	err := s.locker.WithLock(ctx, lockKey(id), func(ctx context.Context) error {
		w, err := s.withdrawalRepo.GetByID(ctx, id)
		if err != nil {
			return storeErr("load withdrawal", err)
		}
		if w.Status != domain.StatusPending || !w.IsInitialized {
			return transitionErr("resend the authorization code for", w)
		}

		res, err := s.gateway.ResendAuthorizationCode(ctx, w.TransferReference)
		if err != nil {
			return gatewayErr(domain.ErrAuthorizationFailed, "authorization code could not be resent", err)
		}
		if !res.Success {
			return domain.NewError(domain.ErrAuthorizationFailed,
				"gateway refused to resend the authorization code", errors.New(res.Message))
		}

		logger.Info().
			Str("request_id", w.ID.String()).
			Str("by", by.String()).
			Msg("authorization code resent")

		message = res.Message
		return nil
	})
	if err != nil {
		return "", err
	}

	return message, nil
}

// restoreBalance returns the deducted amount to the plan. The adjustment is
// keyed per request, so decline and reverse can never both restore.
func (s *withdrawalService) restoreBalance(ctx context.Context, w *domain.WithdrawalRequest, seq *sequence) error {
	applied, err := s.savingsRepo.AdjustBalance(ctx, domain.BalanceAdjustment{
		Key:       restoreKey(w.ID),
		SavingsID: w.SavingsID,
		Delta:     w.TotalDeductedAmount,
	})
	if err != nil {
		return seq.fail("restore_balance", err)
	}
	if !applied {
		logger.Warn().
			Str("request_id", w.ID.String()).
			Msg("balance already restored by an earlier attempt, completing remaining steps")
	}
	seq.done("balance_restored")
	return nil
}

func (s *withdrawalService) DeclineWithdrawal(ctx context.Context, id uuid.UUID, reason string, by domain.Principal) (*domain.WithdrawalRequest, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, domain.NewError(domain.ErrInvalidInput, "a decline reason is required", nil)
	}

	var withdrawal *domain.WithdrawalRequest

	err := s.locker.WithLock(ctx, lockKey(id), func(ctx context.Context) error {
		w, err := s.withdrawalRepo.GetByID(ctx, id)
		if err != nil {
			return storeErr("load withdrawal", err)
		}
		if w.Status != domain.StatusPending || w.TransferInFlight() {
			return transitionErr("decline", w)
		}

		seq := newSequence("withdrawal decline", w.ID)

		if err := s.restoreBalance(ctx, w, seq); err != nil {
			return err
		}

		if err := s.transactionRepo.UpdateStatus(ctx, w.TransactionID, domain.TransactionFailed, ""); err != nil {
			return seq.fail("fail_transaction", err)
		}
		seq.done("transaction_failed")

		w.Status = domain.StatusDeclined
		w.DeclinedBy = by.String()
		w.DeclineReason = reason
		w.UpdatedAt = s.now()

		if err := s.withdrawalRepo.Update(ctx, w, domain.StatusPending); err != nil {
			return seq.fail("mark_declined", err)
		}

		logger.Info().
			Str("request_id", w.ID.String()).
			Str("restored", w.TotalDeductedAmount.String()).
			Str("by", by.String()).
			Msg("withdrawal declined, funds restored")

		withdrawal = w
		return nil
	})
	if err != nil {
		return nil, err
	}

	return withdrawal, nil
}

// ReverseWithdrawal restores the deducted funds of a pending or approved
// request and books a compensating credit. Declined and reversed requests
// have nothing left to restore.
func (s *withdrawalService) ReverseWithdrawal(ctx context.Context, id uuid.UUID, by domain.Principal) (*domain.WithdrawalRequest, error) {
	var withdrawal *domain.WithdrawalRequest

	err := s.locker.WithLock(ctx, lockKey(id), func(ctx context.Context) error {
		w, err := s.withdrawalRepo.GetByID(ctx, id)
		if err != nil {
			return storeErr("load withdrawal", err)
		}
		expected := w.Status
		if expected != domain.StatusPending && expected != domain.StatusApproved {
			return transitionErr("reverse", w)
		}

		plan, err := s.savingsRepo.GetByID(ctx, w.SavingsID)
		if err != nil {
			return storeErr("load savings plan", err)
		}

		seq := newSequence("withdrawal reverse", w.ID)

		if err := s.restoreBalance(ctx, w, seq); err != nil {
			return err
		}

		if err := s.transactionRepo.UpdateStatus(ctx, w.TransactionID, domain.TransactionFailed, ""); err != nil {
			return seq.fail("fail_transaction", err)
		}
		seq.done("transaction_failed")

		now := s.now()
		credit := &domain.Transaction{
			ID:          reversalTransactionID(w.ID),
			UserID:      w.UserID,
			Type:        domain.TransactionCredit,
			Amount:      w.TotalTransferableAmount,
			Status:      domain.TransactionCompleted,
			Description: "Reversed: Manual reversal by admin",
			Reference:   domain.ReversalReference(w.TransferReference),
			SavingsID:   w.SavingsID,
			SavingsName: plan.Name,
			Method:      "bank",
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := s.transactionRepo.Create(ctx, credit); err != nil && !errors.Is(err, domain.ErrDuplicateRequest) {
			return seq.fail("create_reversal_credit", err)
		}
		seq.done("reversal_credit_created")

		w.Status = domain.StatusReversed
		w.ReversedBy = by.String()
		w.UpdatedAt = now

		if err := s.withdrawalRepo.Update(ctx, w, expected); err != nil {
			return seq.fail("mark_reversed", err)
		}

		logger.Info().
			Str("request_id", w.ID.String()).
			Str("from_status", string(expected)).
			Str("restored", w.TotalDeductedAmount.String()).
			Str("by", by.String()).
			Msg("withdrawal reversed")

		withdrawal = w
		return nil
	})
	if err != nil {
		return nil, err
	}

	return withdrawal, nil
}

func (s *withdrawalService) RefreshTransfer(ctx context.Context, id uuid.UUID, by domain.Principal) (*port.SyncResult, error) {
	var result *port.SyncResult

	err := s.locker.WithLock(ctx, lockKey(id), func(ctx context.Context) error {
		w, err := s.withdrawalRepo.GetByID(ctx, id)
		if err != nil {
			return storeErr("load withdrawal", err)
		}
		if !w.TransferStarted() && w.GatewayReference == "" {
			return domain.NewError(domain.ErrInvalidTransition, "no transfer has been initiated for this withdrawal", nil)
		}

		res, err := s.gateway.GetTransferStatus(ctx, w.TransferReference)
		if err != nil {
			return gatewayErr(domain.ErrTransferFailed, "transfer status could not be fetched", err)
		}

		pending := w.Status == domain.StatusPending
		switch {
		case pending && res.Status.IsSuccessful():
			seq := newSequence("withdrawal refresh", w.ID)
			if w.ApprovedBy == "" {
				w.ApprovedBy = by.String()
			}
			if err := s.complete(ctx, w, res, seq); err != nil {
				return err
			}
		case string(res.Status) != w.GatewayStatus || (pending && w.IsInitialized != res.Status.IsPendingAuthorization()):
			w.GatewayStatus = string(res.Status)
			if pending {
				// A rejected transfer leaves the request open for decline.
				w.IsInitialized = res.Status.IsPendingAuthorization()
			}
			if res.Reference != "" && w.GatewayReference == "" {
				w.GatewayReference = res.Reference
			}
			w.UpdatedAt = s.now()
			if err := s.withdrawalRepo.Update(ctx, w, w.Status); err != nil {
				return storeErr("record transfer status", err)
			}
		}

		result = &port.SyncResult{WithdrawalID: w.ID, Status: w.Status, Gateway: res.Status}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// SyncInitializedTransfers refreshes every request whose transfer awaits
// authorization or settlement.
// Per-request failures are reported in the results, not as the call's error.
func (s *withdrawalService) SyncInitializedTransfers(ctx context.Context, by domain.Principal) ([]port.SyncResult, error) {
	list, err := s.withdrawalRepo.ListAwaitingTransfer(ctx)
	if err != nil {
		return nil, storeErr("list withdrawals awaiting transfer", err)
	}

	p := pool.NewWithResults[port.SyncResult]().WithMaxGoroutines(s.syncConcurrency)
	for _, w := range list {
		w := w
		p.Go(func() port.SyncResult {
			res, err := s.RefreshTransfer(ctx, w.ID, by)
			if err != nil {
				logger.Warn().Err(err).Str("request_id", w.ID.String()).Msg("transfer status refresh failed")
				return port.SyncResult{WithdrawalID: w.ID, Status: w.Status, Err: err}
			}
			return *res
		})
	}

	return p.Wait(), nil
}

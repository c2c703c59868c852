package service

import (
	"context"
	"strings"
	"time"

	"savingsadmin/internal/domain"
	"savingsadmin/internal/logger"
	"savingsadmin/internal/port"

	"github.com/google/uuid"
)

type contributionService struct {
	savingsRepo     port.SavingsRepository
	transactionRepo port.TransactionRepository
	locker          port.Locker
	now             func() time.Time
}

func NewContributionService(repos Repositories, locker port.Locker, opts Options) port.ContributionService {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &contributionService{
		savingsRepo:     repos.Savings,
		transactionRepo: repos.Transactions,
		locker:          locker,
		now:             opts.Now,
	}
}

func contributionKey(reference string) string {
	return "contribution:" + reference
}

// RecordContribution credits a plan with a payment received outside the app.
// A reference can be recorded only once.
func (s *contributionService) RecordContribution(ctx context.Context, req *domain.ContributionReq, by domain.Principal) (*domain.Transaction, error) {
	if err := domain.ValidateAmount(req.Amount); err != nil {
		return nil, err
	}
	if req.UserID == "" || req.SavingsID == uuid.Nil {
		return nil, domain.NewError(domain.ErrInvalidInput, "user and savings plan are required", nil)
	}

	reference := strings.TrimSpace(req.Reference)
	if reference == "" {
		reference = domain.NewReference(domain.ContributionRefPrefix)
	}
	method := strings.TrimSpace(req.Method)
	if method == "" {
		method = "cash"
	}

	var txn *domain.Transaction

	err := s.locker.WithLock(ctx, contributionKey(reference), func(ctx context.Context) error {
		plan, err := s.savingsRepo.GetByID(ctx, req.SavingsID)
		if err != nil {
			return storeErr("load savings plan", err)
		}
		if plan.UserID != req.UserID {
			return domain.NewError(domain.ErrInvalidInput, "savings plan does not belong to the user", nil)
		}

		now := s.now()
		t := &domain.Transaction{
			ID:          uuid.New(),
			UserID:      req.UserID,
			Type:        domain.TransactionCredit,
			Amount:      req.Amount,
			Status:      domain.TransactionCompleted,
			Description: "Manual contribution: " + plan.Name,
			Reference:   reference,
			SavingsID:   plan.ID,
			SavingsName: plan.Name,
			Method:      method,
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		seq := newSequence("contribution record", t.ID)

		applied, err := s.savingsRepo.AdjustBalance(ctx, domain.BalanceAdjustment{
			Key:       contributionKey(reference),
			SavingsID: plan.ID,
			Delta:     req.Amount,
		})
		if err != nil {
			return seq.fail("credit_balance", err)
		}
		if !applied {
			return domain.NewError(domain.ErrDuplicateRequest, "contribution reference "+reference+" was already recorded", nil)
		}
		seq.done("balance_credited")

		if err := s.transactionRepo.Create(ctx, t); err != nil {
			return seq.fail("create_transaction", err)
		}

		logger.Info().
			Str("savings_id", plan.ID.String()).
			Str("reference", reference).
			Str("amount", req.Amount.String()).
			Str("by", by.String()).
			Msg("contribution recorded")

		txn = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	return txn, nil
}

package service

import (
	"context"
	"strings"

	"savingsadmin/internal/domain"
	"savingsadmin/internal/port"

	"github.com/google/uuid"
)

type savingsService struct {
	savingsRepo     port.SavingsRepository
	transactionRepo port.TransactionRepository
}

func NewSavingsService(repos Repositories) port.SavingsService {
	return &savingsService{savingsRepo: repos.Savings, transactionRepo: repos.Transactions}
}

func (s *savingsService) ListActivePlans(ctx context.Context, userID string) ([]domain.SavingsPlan, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, domain.NewError(domain.ErrInvalidInput, "userId is required", nil)
	}

	plans, err := s.savingsRepo.ListActiveByUser(ctx, userID)
	if err != nil {
		return nil, storeErr("list savings plans", err)
	}
	return plans, nil
}

// ListTransactions returns the ledger of one plan. An unknown plan is
// ErrSavingsNotFound rather than an empty list.
func (s *savingsService) ListTransactions(ctx context.Context, savingsID uuid.UUID) ([]domain.Transaction, error) {
	if _, err := s.savingsRepo.GetByID(ctx, savingsID); err != nil {
		return nil, storeErr("load savings plan", err)
	}

	txs, err := s.transactionRepo.ListBySavings(ctx, savingsID)
	if err != nil {
		return nil, storeErr("list transactions", err)
	}
	return txs, nil
}

func (s *savingsService) GetTransaction(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	tx, err := s.transactionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr("load transaction", err)
	}
	return tx, nil
}

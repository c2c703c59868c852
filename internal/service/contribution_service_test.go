package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"savingsadmin/internal/domain"
	"savingsadmin/internal/repository/memory"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRecordContribution_CreditsPlanOnce(t *testing.T) {
	store := memory.NewStore()
	plan := domain.SavingsPlan{ID: uuid.New(), UserID: "user-1", Name: "Car", ActualAmount: decimal.NewFromInt(500), Status: domain.PlanActive}
	store.PutSavings(plan)

	svc := NewContributionService(
		Repositories{Savings: store.Savings(), Transactions: store.Transactions()},
		memory.NewLocker(),
		Options{Now: func() time.Time { return testNow }},
	)

	req := &domain.ContributionReq{UserID: "user-1", SavingsID: plan.ID, Amount: decimal.RequireFromString("250.50"), Reference: "REF-CASH-1"}

	tx, err := svc.RecordContribution(context.Background(), req, admin)
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionCredit, tx.Type)
	assert.Equal(t, domain.TransactionCompleted, tx.Status)
	assert.Equal(t, "Manual contribution: Car", tx.Description)
	assert.Equal(t, "cash", tx.Method)

	_, err = svc.RecordContribution(context.Background(), req, admin)
	assert.ErrorIs(t, err, domain.ErrDuplicateRequest)

	got, _ := store.Savings().GetByID(context.Background(), plan.ID)
	assert.True(t, decimal.RequireFromString("750.50").Equal(got.ActualAmount))

	txs, _ := store.Transactions().ListBySavings(context.Background(), plan.ID)
	assert.Len(t, txs, 1)
}

func TestRecordContribution_GeneratesReference(t *testing.T) {
	store := memory.NewStore()
	plan := domain.SavingsPlan{ID: uuid.New(), UserID: "user-1", Name: "Car", Status: domain.PlanActive}
	store.PutSavings(plan)

	svc := NewContributionService(Repositories{Savings: store.Savings(), Transactions: store.Transactions()}, memory.NewLocker(), Options{})

	tx, err := svc.RecordContribution(context.Background(), &domain.ContributionReq{
		UserID: "user-1", SavingsID: plan.ID, Amount: decimal.NewFromInt(100), Method: "transfer",
	}, admin)
	require.NoError(t, err)
	assert.Contains(t, tx.Reference, "REF-")
	assert.Equal(t, "transfer", tx.Method)
}

func TestRecordContribution_Validation(t *testing.T) {
	store := memory.NewStore()
	plan := domain.SavingsPlan{ID: uuid.New(), UserID: "user-1", Status: domain.PlanActive}
	store.PutSavings(plan)
	svc := NewContributionService(Repositories{Savings: store.Savings(), Transactions: store.Transactions()}, memory.NewLocker(), Options{})

	_, err := svc.RecordContribution(context.Background(), &domain.ContributionReq{UserID: "user-1", SavingsID: plan.ID, Amount: decimal.Zero}, admin)
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = svc.RecordContribution(context.Background(), &domain.ContributionReq{UserID: "someone-else", SavingsID: plan.ID, Amount: decimal.NewFromInt(1)}, admin)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.RecordContribution(context.Background(), &domain.ContributionReq{UserID: "user-1", SavingsID: uuid.New(), Amount: decimal.NewFromInt(1)}, admin)
	assert.ErrorIs(t, err, domain.ErrSavingsNotFound)
}

func TestRecordContribution_LedgerWriteFailsAfterCredit(t *testing.T) {
	savings := new(MockSavingsRepository)
	transactions := new(MockTransactionRepository)
	locker := new(MockLocker)
	locker.On("WithLock", mock.Anything, mock.Anything).Return()

	plan := &domain.SavingsPlan{ID: uuid.New(), UserID: "user-1", Name: "Car"}
	savings.On("GetByID", mock.Anything, plan.ID).Return(plan, nil)
	savings.On("AdjustBalance", mock.Anything, mock.Anything).Return(true, nil)
	transactions.On("Create", mock.Anything, mock.Anything).Return(errors.New("disk full"))

	svc := NewContributionService(Repositories{Savings: savings, Transactions: transactions}, locker, Options{})

	_, err := svc.RecordContribution(context.Background(), &domain.ContributionReq{
		UserID: "user-1", SavingsID: plan.ID, Amount: decimal.NewFromInt(10), Reference: "REF-1",
	}, admin)
	assert.ErrorIs(t, err, domain.ErrInconsistentState)
}

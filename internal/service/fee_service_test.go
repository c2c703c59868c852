package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"savingsadmin/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestGetFeeSettings_DefaultsWhenMissing(t *testing.T) {
	repo := new(MockFeeSettingsRepository)
	repo.On("GetWithdrawalFees", mock.Anything).Return(nil, nil)

	svc := NewFeeService(repo, Options{DefaultFees: defaultFees()})
	got, err := svc.GetFeeSettings(context.Background())

	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(10).Equal(got.CompletedPlanFeePercentage))
	assert.True(t, decimal.NewFromInt(20).Equal(got.BrokenPlanFeePercentage))
}

func TestGetFeeSettings_StoreFailure(t *testing.T) {
	repo := new(MockFeeSettingsRepository)
	repo.On("GetWithdrawalFees", mock.Anything).Return(nil, errors.New("no route to host"))

	_, err := NewFeeService(repo, Options{}).GetFeeSettings(context.Background())
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
}

func TestUpdateFeeSettings(t *testing.T) {
	repo := new(MockFeeSettingsRepository)
	repo.On("SaveWithdrawalFees", mock.Anything, mock.MatchedBy(func(s *domain.FeeSettings) bool {
		return s.UpdatedBy == admin.Email && s.UpdatedAt.Equal(testNow)
	})).Return(nil)

	svc := NewFeeService(repo, Options{Now: func() time.Time { return testNow }})
	got, err := svc.UpdateFeeSettings(context.Background(), &domain.FeeSettings{
		CompletedPlanFeePercentage: decimal.NewFromInt(5),
		BrokenPlanFeePercentage:    decimal.RequireFromString("17.5"),
	}, admin)

	require.NoError(t, err)
	assert.Equal(t, admin.Email, got.UpdatedBy)
	repo.AssertExpectations(t)
}

func TestUpdateFeeSettings_RejectsOutOfRange(t *testing.T) {
	repo := new(MockFeeSettingsRepository)
	svc := NewFeeService(repo, Options{})

	_, err := svc.UpdateFeeSettings(context.Background(), &domain.FeeSettings{
		CompletedPlanFeePercentage: decimal.NewFromInt(150),
		BrokenPlanFeePercentage:    decimal.NewFromInt(20),
	}, admin)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	repo.AssertNotCalled(t, "SaveWithdrawalFees", mock.Anything, mock.Anything)
}

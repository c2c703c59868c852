package service

import (
	"context"
	"time"

	"savingsadmin/internal/domain"
	"savingsadmin/internal/logger"
	"savingsadmin/internal/port"
)

type feeService struct {
	feeRepo     port.FeeSettingsRepository
	defaultFees domain.FeeSettings
	now         func() time.Time
}

func NewFeeService(feeRepo port.FeeSettingsRepository, opts Options) port.FeeService {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &feeService{feeRepo: feeRepo, defaultFees: opts.DefaultFees, now: opts.Now}
}

// loadFeeSettings falls back to defaults when no settings have been saved yet.
func loadFeeSettings(ctx context.Context, repo port.FeeSettingsRepository, defaults domain.FeeSettings) (*domain.FeeSettings, error) {
	settings, err := repo.GetWithdrawalFees(ctx)
	if err != nil {
		return nil, storeErr("load fee settings", err)
	}
	if settings == nil {
		d := defaults
		return &d, nil
	}
	return settings, nil
}

func (s *feeService) GetFeeSettings(ctx context.Context) (*domain.FeeSettings, error) {
	return loadFeeSettings(ctx, s.feeRepo, s.defaultFees)
}

func (s *feeService) UpdateFeeSettings(ctx context.Context, settings *domain.FeeSettings, by domain.Principal) (*domain.FeeSettings, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	updated := *settings
	updated.UpdatedBy = by.String()
	updated.UpdatedAt = s.now()

	if err := s.feeRepo.SaveWithdrawalFees(ctx, &updated); err != nil {
		return nil, storeErr("save fee settings", err)
	}

	logger.Info().
		Str("completed_plan_pct", updated.CompletedPlanFeePercentage.String()).
		Str("broken_plan_pct", updated.BrokenPlanFeePercentage.String()).
		Str("by", updated.UpdatedBy).
		Msg("withdrawal fee settings updated")

	return &updated, nil
}

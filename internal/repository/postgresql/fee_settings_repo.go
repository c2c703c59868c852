package postgresql

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"savingsadmin/internal/domain"
	"savingsadmin/internal/port"
)

const withdrawalFeesID = "withdrawalFees"

type feeSettingsRepository struct {
	db *sql.DB
}

func NewFeeSettingsRepository(db *sql.DB) port.FeeSettingsRepository {
	return &feeSettingsRepository{db: db}
}

func (r *feeSettingsRepository) GetWithdrawalFees(ctx context.Context) (*domain.FeeSettings, error) {
	const query = `SELECT completed_plan_fee_percentage, broken_plan_fee_percentage, updated_by, updated_at
	FROM fee_settings WHERE id = $1`

	var s domain.FeeSettings
	err := r.db.QueryRowContext(ctx, query, withdrawalFeesID).Scan(
		&s.CompletedPlanFeePercentage, &s.BrokenPlanFeePercentage, &s.UpdatedBy, &s.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *feeSettingsRepository) SaveWithdrawalFees(ctx context.Context, s *domain.FeeSettings) error {
	const query = `INSERT INTO fee_settings (id, completed_plan_fee_percentage, broken_plan_fee_percentage, updated_by, updated_at)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (id) DO UPDATE SET
		completed_plan_fee_percentage = EXCLUDED.completed_plan_fee_percentage,
		broken_plan_fee_percentage = EXCLUDED.broken_plan_fee_percentage,
		updated_by = EXCLUDED.updated_by,
		updated_at = EXCLUDED.updated_at`

	_, err := r.db.ExecContext(ctx, query, withdrawalFeesID,
		s.CompletedPlanFeePercentage, s.BrokenPlanFeePercentage, s.UpdatedBy, s.UpdatedAt)
	return err
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

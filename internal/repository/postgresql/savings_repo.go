package postgresql

import (
	"context"
	"database/sql"
	"errors"

	"savingsadmin/internal/domain"
	"savingsadmin/internal/port"

	"github.com/google/uuid"
)

type savingsRepository struct {
	db *sql.DB
}

func NewSavingsRepository(db *sql.DB) port.SavingsRepository {
	return &savingsRepository{db: db}
}

const savingsColumns = `id, user_id, name, target_amount, actual_amount, frequency, frequency_amount,
	duration, start_date, status, created_at, updated_at`

func scanSavings(row rowScanner) (*domain.SavingsPlan, error) {
	var p domain.SavingsPlan
	err := row.Scan(&p.ID, &p.UserID, &p.Name, &p.TargetAmount, &p.ActualAmount, &p.Frequency, &p.FrequencyAmount,
		&p.Duration, &p.StartDate, &p.Status, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *savingsRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.SavingsPlan, error) {
	const query = `SELECT ` + savingsColumns + ` FROM savings WHERE id = $1`

	p, err := scanSavings(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrSavingsNotFound
	}
	return p, err
}

func (r *savingsRepository) ListActiveByUser(ctx context.Context, userID string) ([]domain.SavingsPlan, error) {
	const query = `SELECT ` + savingsColumns + ` FROM savings WHERE user_id = $1 AND status = $2 ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query, userID, domain.PlanActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.SavingsPlan, 0)
	for rows.Next() {
		p, err := scanSavings(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// AdjustBalance moves the balance and records the key in one statement, so
// the change and its idempotency record can never diverge.
func (r *savingsRepository) AdjustBalance(ctx context.Context, adj domain.BalanceAdjustment) (bool, error) {
	const query = `WITH upd AS (
		UPDATE savings SET actual_amount = actual_amount + $3, updated_at = now()
		WHERE id = $2 AND actual_amount + $3 >= 0
			AND NOT EXISTS (SELECT 1 FROM balance_adjustments WHERE key = $1)
		RETURNING id
	)
	INSERT INTO balance_adjustments (key, savings_id, delta, created_at)
	SELECT $1, id, $3, now() FROM upd
	RETURNING key`

	var key string
	err := r.db.QueryRowContext(ctx, query, adj.Key, adj.SavingsID, adj.Delta).Scan(&key)
	switch {
	case err == nil:
		return true, nil
	case isUniqueViolation(err, "balance_adjustments_pkey"):
		// lost a race with the same key
		return false, nil
	case !errors.Is(err, sql.ErrNoRows):
		return false, err
	}

	const lookup = `SELECT
		EXISTS (SELECT 1 FROM balance_adjustments WHERE key = $1),
		EXISTS (SELECT 1 FROM savings WHERE id = $2)`

	var keyUsed, planExists bool
	if err := r.db.QueryRowContext(ctx, lookup, adj.Key, adj.SavingsID).Scan(&keyUsed, &planExists); err != nil {
		return false, err
	}
	switch {
	case keyUsed:
		return false, nil
	case !planExists:
		return false, domain.ErrSavingsNotFound
	default:
		return false, domain.ErrInsufficientFunds
	}
}

func (r *savingsRepository) AdjustmentApplied(ctx context.Context, key string) (bool, error) {
	var applied bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM balance_adjustments WHERE key = $1)`, key).Scan(&applied)
	return applied, err
}

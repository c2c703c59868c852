package postgresql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"savingsadmin/internal/domain"
	"savingsadmin/internal/port"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

var (
	uniqueConstraint pq.ErrorCode = "23505"
)

type rowScanner interface {
	Scan(dest ...any) error
}

func isUniqueViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueConstraint {
		return constraint == "" || pqErr.Constraint == constraint
	}
	return false
}

type withdrawalRepository struct {
	db *sql.DB
}

func NewWithdrawalRepository(db *sql.DB) port.WithdrawalRepository {
	return &withdrawalRepository{db: db}
}

const withdrawalColumns = `id, idempotency_key, user_id, savings_id, requested_amount, total_deducted_amount,
	total_transferable_amount, fee, fee_percentage, bank_name, account_number, bank_code, narration,
	is_plan_completed, is_partial_withdrawal, is_initialized, status, transfer_reference, bulk_reference,
	fee_reference, gateway_reference, gateway_status, transaction_id, approved_by, declined_by,
	decline_reason, reversed_by, transfer_completed_at, created_at, updated_at`

func scanWithdrawal(row rowScanner) (*domain.WithdrawalRequest, error) {
	var (
		w           domain.WithdrawalRequest
		completedAt sql.NullTime
	)
	err := row.Scan(
		&w.ID, &w.IdempotencyKey, &w.UserID, &w.SavingsID, &w.RequestedAmount, &w.TotalDeductedAmount,
		&w.TotalTransferableAmount, &w.Fee, &w.FeePercentage, &w.Destination.BankName, &w.Destination.AccountNumber,
		&w.Destination.BankCode, &w.Narration, &w.IsPlanCompleted, &w.IsPartialWithdrawal, &w.IsInitialized,
		&w.Status, &w.TransferReference, &w.BulkReference, &w.FeeReference, &w.GatewayReference, &w.GatewayStatus,
		&w.TransactionID, &w.ApprovedBy, &w.DeclinedBy, &w.DeclineReason, &w.ReversedBy, &completedAt,
		&w.CreatedAt, &w.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if completedAt.Valid {
		t := completedAt.Time
		w.TransferCompletedAt = &t
	}
	return &w, nil
}

func (r *withdrawalRepository) Create(ctx context.Context, w *domain.WithdrawalRequest) error {
	const query = `INSERT INTO withdrawal_requests (` + withdrawalColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20,
		$21, $22, $23, $24, $25, $26, $27, $28, $29, $30)`

	_, err := r.db.ExecContext(ctx, query,
		w.ID, w.IdempotencyKey, w.UserID, w.SavingsID, w.RequestedAmount, w.TotalDeductedAmount,
		w.TotalTransferableAmount, w.Fee, w.FeePercentage, w.Destination.BankName, w.Destination.AccountNumber,
		w.Destination.BankCode, w.Narration, w.IsPlanCompleted, w.IsPartialWithdrawal, w.IsInitialized,
		w.Status, w.TransferReference, w.BulkReference, w.FeeReference, w.GatewayReference, w.GatewayStatus,
		w.TransactionID, w.ApprovedBy, w.DeclinedBy, w.DeclineReason, w.ReversedBy, nullTime(w.TransferCompletedAt),
		w.CreatedAt, w.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "") {
			return domain.ErrDuplicateRequest
		}
		return err
	}

	return nil
}

func (r *withdrawalRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.WithdrawalRequest, error) {
	const query = `SELECT ` + withdrawalColumns + ` FROM withdrawal_requests WHERE id = $1`

	w, err := scanWithdrawal(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrWithdrawalNotFound
	}
	return w, err
}

func (r *withdrawalRepository) GetByIdempotencyKey(ctx context.Context, key string) (*domain.WithdrawalRequest, error) {
	const query = `SELECT ` + withdrawalColumns + ` FROM withdrawal_requests WHERE idempotency_key = $1`

	w, err := scanWithdrawal(r.db.QueryRowContext(ctx, query, key))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return w, err
}

func (r *withdrawalRepository) query(ctx context.Context, query string, args ...any) ([]domain.WithdrawalRequest, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.WithdrawalRequest, 0)
	for rows.Next() {
		w, err := scanWithdrawal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *w)
	}
	return out, rows.Err()
}

func (r *withdrawalRepository) ListByStatus(ctx context.Context, status domain.WithdrawalStatus) ([]domain.WithdrawalRequest, error) {
	if status == "" {
		return r.query(ctx, `SELECT `+withdrawalColumns+` FROM withdrawal_requests ORDER BY created_at DESC`)
	}
	return r.query(ctx, `SELECT `+withdrawalColumns+` FROM withdrawal_requests WHERE status = $1 ORDER BY created_at DESC`, status)
}

func (r *withdrawalRepository) ListAwaitingTransfer(ctx context.Context) ([]domain.WithdrawalRequest, error) {
	return r.query(ctx, `SELECT `+withdrawalColumns+` FROM withdrawal_requests
		WHERE status = $1 AND (is_initialized
			OR (gateway_status <> '' AND NOT upper(gateway_status) = ANY($2)))
		ORDER BY created_at`, domain.StatusPending, pq.Array(domain.FinalTransferStatuses()))
}

func (r *withdrawalRepository) Update(ctx context.Context, w *domain.WithdrawalRequest, expected domain.WithdrawalStatus) error {
	const query = `UPDATE withdrawal_requests SET
		is_initialized = $1, status = $2, gateway_reference = $3, gateway_status = $4, approved_by = $5,
		declined_by = $6, decline_reason = $7, reversed_by = $8, transfer_completed_at = $9, updated_at = $10
	WHERE id = $11 AND status = $12`

	result, err := r.db.ExecContext(ctx, query,
		w.IsInitialized, w.Status, w.GatewayReference, w.GatewayStatus, w.ApprovedBy,
		w.DeclinedBy, w.DeclineReason, w.ReversedBy, nullTime(w.TransferCompletedAt), w.UpdatedAt,
		w.ID, expected,
	)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		var current domain.WithdrawalStatus
		err := r.db.QueryRowContext(ctx, `SELECT status FROM withdrawal_requests WHERE id = $1`, w.ID).Scan(&current)
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrWithdrawalNotFound
		}
		if err != nil {
			return err
		}
		return domain.NewError(domain.ErrInvalidTransition,
			fmt.Sprintf("withdrawal is %s, expected %s", current, expected), nil)
	}
	return nil
}

package postgresql

import (
	"context"
	"database/sql"
	"errors"

	"savingsadmin/internal/domain"
	"savingsadmin/internal/port"

	"github.com/google/uuid"
)

type transactionRepository struct {
	db *sql.DB
}

func NewTransactionRepository(db *sql.DB) port.TransactionRepository {
	return &transactionRepository{db: db}
}

const transactionColumns = `id, user_id, type, amount, status, description, reference, savings_id,
	savings_name, method, gateway_reference, created_at, updated_at`

func scanTransaction(row rowScanner) (*domain.Transaction, error) {
	var t domain.Transaction
	err := row.Scan(&t.ID, &t.UserID, &t.Type, &t.Amount, &t.Status, &t.Description, &t.Reference, &t.SavingsID,
		&t.SavingsName, &t.Method, &t.GatewayReference, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *transactionRepository) Create(ctx context.Context, t *domain.Transaction) error {
	const query = `INSERT INTO transactions (` + transactionColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err := r.db.ExecContext(ctx, query, t.ID, t.UserID, t.Type, t.Amount, t.Status, t.Description, t.Reference,
		t.SavingsID, t.SavingsName, t.Method, t.GatewayReference, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err, "") {
			return domain.ErrDuplicateRequest
		}
		return err
	}
	return nil
}

func (r *transactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	const query = `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`

	t, err := scanTransaction(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrTransactionNotFound
	}
	return t, err
}

func (r *transactionRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.TransactionStatus, gatewayRef string) error {
	const query = `UPDATE transactions
	SET status = $1, gateway_reference = COALESCE(NULLIF($2, ''), gateway_reference), updated_at = now()
	WHERE id = $3`

	result, err := r.db.ExecContext(ctx, query, status, gatewayRef, id)
	if err != nil {
		return err
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrTransactionNotFound
	}
	return nil
}

func (r *transactionRepository) ListBySavings(ctx context.Context, savingsID uuid.UUID) ([]domain.Transaction, error) {
	const query = `SELECT ` + transactionColumns + ` FROM transactions WHERE savings_id = $1 ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query, savingsID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Transaction, 0)
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

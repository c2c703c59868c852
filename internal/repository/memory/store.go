package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"savingsadmin/internal/domain"
	"savingsadmin/internal/port"

	"github.com/google/uuid"
)

// Store is a thread-safe in-memory backend for every repository port. Values
// are copied in and out so callers never share state with the store.
type Store struct {
	mu           sync.RWMutex
	withdrawals  map[uuid.UUID]domain.WithdrawalRequest
	keyIndex     map[string]uuid.UUID // idempotency key -> withdrawal id
	savings      map[uuid.UUID]domain.SavingsPlan
	transactions map[uuid.UUID]domain.Transaction
	adjustments  map[string]domain.BalanceAdjustment
	fees         *domain.FeeSettings
}

func NewStore() *Store {
	return &Store{
		withdrawals:  make(map[uuid.UUID]domain.WithdrawalRequest),
		keyIndex:     make(map[string]uuid.UUID),
		savings:      make(map[uuid.UUID]domain.SavingsPlan),
		transactions: make(map[uuid.UUID]domain.Transaction),
		adjustments:  make(map[string]domain.BalanceAdjustment),
	}
}

func (s *Store) Withdrawals() port.WithdrawalRepository { return withdrawalRepository{s} }
func (s *Store) Savings() port.SavingsRepository { return savingsRepository{s} }
func (s *Store) Transactions() port.TransactionRepository { return transactionRepository{s} }
func (s *Store) FeeSettings() port.FeeSettingsRepository { return feeSettingsRepository{s} }

// PutSavings inserts or replaces a plan. Plans are owned by the consumer app,
// so this is how they get into a memory-backed deployment.
func (s *Store) PutSavings(plan domain.SavingsPlan) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.savings[plan.ID] = plan
}

//--------------------Withdrawals

type withdrawalRepository struct{ s *Store }

func (r withdrawalRepository) Create(ctx context.Context, w *domain.WithdrawalRequest) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.keyIndex[w.IdempotencyKey]; ok {
		return domain.ErrDuplicateRequest
	}
	if _, ok := r.s.withdrawals[w.ID]; ok {
		return domain.ErrDuplicateRequest
	}
	r.s.withdrawals[w.ID] = *w
	r.s.keyIndex[w.IdempotencyKey] = w.ID
	return nil
}

func (r withdrawalRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.WithdrawalRequest, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	w, ok := r.s.withdrawals[id]
	if !ok {
		return nil, domain.ErrWithdrawalNotFound
	}
	return &w, nil
}

func (r withdrawalRepository) GetByIdempotencyKey(ctx context.Context, key string) (*domain.WithdrawalRequest, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	id, ok := r.s.keyIndex[key]
	if !ok {
		return nil, nil
	}
	w := r.s.withdrawals[id]
	return &w, nil
}

func (r withdrawalRepository) list(match func(w *domain.WithdrawalRequest) bool) []domain.WithdrawalRequest {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]domain.WithdrawalRequest, 0)
	for _, w := range r.s.withdrawals {
		if match(&w) {
			out = append(out, w)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r withdrawalRepository) ListByStatus(ctx context.Context, status domain.WithdrawalStatus) ([]domain.WithdrawalRequest, error) {
	return r.list(func(w *domain.WithdrawalRequest) bool {
		return status == "" || w.Status == status
	}), nil
}

func (r withdrawalRepository) ListAwaitingTransfer(ctx context.Context) ([]domain.WithdrawalRequest, error) {
	return r.list(func(w *domain.WithdrawalRequest) bool {
		return (w.Status == domain.StatusPending && w.IsInitialized) || w.TransferInFlight()
	}), nil
}

func (r withdrawalRepository) Update(ctx context.Context, w *domain.WithdrawalRequest, expected domain.WithdrawalStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, ok := r.s.withdrawals[w.ID]
	if !ok {
		return domain.ErrWithdrawalNotFound
	}
	if current.Status != expected {
		return domain.NewError(domain.ErrInvalidTransition,
			"withdrawal is "+string(current.Status)+", expected "+string(expected), nil)
	}
	// identity and amounts are immutable once created
	updated := *w
	updated.IdempotencyKey = current.IdempotencyKey
	updated.CreatedAt = current.CreatedAt
	r.s.withdrawals[w.ID] = updated
	return nil
}

//--------------------Savings

type savingsRepository struct{ s *Store }

func (r savingsRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.SavingsPlan, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.savings[id]
	if !ok {
		return nil, domain.ErrSavingsNotFound
	}
	return &p, nil
}

func (r savingsRepository) ListActiveByUser(ctx context.Context, userID string) ([]domain.SavingsPlan, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]domain.SavingsPlan, 0)
	for _, p := range r.s.savings {
		if p.UserID == userID && p.Status == domain.PlanActive {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r savingsRepository) AdjustBalance(ctx context.Context, adj domain.BalanceAdjustment) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.adjustments[adj.Key]; ok {
		return false, nil
	}
	p, ok := r.s.savings[adj.SavingsID]
	if !ok {
		return false, domain.ErrSavingsNotFound
	}
	next := p.ActualAmount.Add(adj.Delta)
	if next.IsNegative() {
		return false, domain.ErrInsufficientFunds
	}
	p.ActualAmount = next
	p.UpdatedAt = time.Now()
	r.s.savings[p.ID] = p
	r.s.adjustments[adj.Key] = adj
	return true, nil
}

func (r savingsRepository) AdjustmentApplied(ctx context.Context, key string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	_, ok := r.s.adjustments[key]
	return ok, nil
}

//--------------------Transactions

type transactionRepository struct{ s *Store }

func (r transactionRepository) Create(ctx context.Context, tx *domain.Transaction) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.transactions[tx.ID]; ok {
		return domain.ErrDuplicateRequest
	}
	r.s.transactions[tx.ID] = *tx
	return nil
}

func (r transactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	tx, ok := r.s.transactions[id]
	if !ok {
		return nil, domain.ErrTransactionNotFound
	}
	return &tx, nil
}

func (r transactionRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.TransactionStatus, gatewayRef string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	tx, ok := r.s.transactions[id]
	if !ok {
		return domain.ErrTransactionNotFound
	}
	tx.Status = status
	if gatewayRef != "" {
		tx.GatewayReference = gatewayRef
	}
	tx.UpdatedAt = time.Now()
	r.s.transactions[id] = tx
	return nil
}

func (r transactionRepository) ListBySavings(ctx context.Context, savingsID uuid.UUID) ([]domain.Transaction, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]domain.Transaction, 0)
	for _, tx := range r.s.transactions {
		if tx.SavingsID == savingsID {
			out = append(out, tx)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

//--------------------Fee settings

type feeSettingsRepository struct{ s *Store }

func (r feeSettingsRepository) GetWithdrawalFees(ctx context.Context) (*domain.FeeSettings, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if r.s.fees == nil {
		return nil, nil
	}
	f := *r.s.fees
	return &f, nil
}

func (r feeSettingsRepository) SaveWithdrawalFees(ctx context.Context, settings *domain.FeeSettings) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	f := *settings
	r.s.fees = &f
	return nil
}

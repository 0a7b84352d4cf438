package integration

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"finledger/internal/core/domain"
	"finledger/internal/core/ports"

	"github.com/google/uuid"
)

// In-memory repository fakes backing the integration suite. They keep the
// same contracts as the postgres adapters: (nil, nil) on not-found lookups,
// and WalletRepo.ApplyDelta applies the delta atomically under the write
// lock, so the balance guard holds exactly even under concurrent load.

// --- In-Memory User Repo ---

type inMemoryUserRepo struct {
	mu    sync.RWMutex
	users map[uuid.UUID]domain.User
}

func newInMemoryUserRepo() *inMemoryUserRepo {
	return &inMemoryUserRepo{users: make(map[uuid.UUID]domain.User)}
}

func (r *inMemoryUserRepo) Create(ctx context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Username == u.Username {
			return fmt.Errorf("username already exists")
		}
	}
	r.users[u.ID] = *u
	return nil
}

func (r *inMemoryUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *inMemoryUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.Username == username {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

// --- In-Memory Wallet Repo ---

type inMemoryWalletRepo struct {
	mu      sync.RWMutex
	wallets map[uuid.UUID]domain.Wallet
	byOwner map[uuid.UUID]uuid.UUID
}

func newInMemoryWalletRepo() *inMemoryWalletRepo {
	return &inMemoryWalletRepo{
		wallets: make(map[uuid.UUID]domain.Wallet),
		byOwner: make(map[uuid.UUID]uuid.UUID),
	}
}

func (r *inMemoryWalletRepo) CreateIfAbsent(ctx context.Context, w *domain.Wallet) (*domain.Wallet, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existingID, ok := r.byOwner[w.OwnerID]; ok {
		existing := r.wallets[existingID]
		return &existing, false, nil
	}
	r.wallets[w.ID] = *w
	r.byOwner[w.OwnerID] = w.ID
	created := *w
	return &created, true, nil
}

func (r *inMemoryWalletRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Wallet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	w, ok := r.wallets[id]
	if !ok {
		return nil, nil
	}
	return &w, nil
}

func (r *inMemoryWalletRepo) GetByOwner(ctx context.Context, ownerID uuid.UUID) (*domain.Wallet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byOwner[ownerID]
	if !ok {
		return nil, nil
	}
	w := r.wallets[id]
	return &w, nil
}

func (r *inMemoryWalletRepo) ApplyDelta(ctx context.Context, walletID, ownerID uuid.UUID, delta int64) (*domain.Wallet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.wallets[walletID]
	if !ok || w.OwnerID != ownerID {
		return nil, nil
	}
	if w.Status != domain.WalletStatusActive || w.Balance+delta < 0 {
		return nil, nil
	}
	w.Balance += delta
	w.UpdatedAt = time.Now().UTC()
	r.wallets[walletID] = w
	return &w, nil
}

func (r *inMemoryWalletRepo) UpdateProfile(ctx context.Context, walletID, ownerID uuid.UUID, patch ports.WalletPatch) (*domain.Wallet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.wallets[walletID]
	if !ok || w.OwnerID != ownerID {
		return nil, nil
	}
	if patch.Name != nil {
		w.Name = *patch.Name
	}
	if patch.Currency != nil {
		w.Currency = *patch.Currency
	}
	if patch.Status != nil {
		w.Status = *patch.Status
	}
	w.UpdatedAt = time.Now().UTC()
	r.wallets[walletID] = w
	return &w, nil
}

func (r *inMemoryWalletRepo) Delete(ctx context.Context, walletID, ownerID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.wallets[walletID]
	if !ok || w.OwnerID != ownerID {
		return fmt.Errorf("wallet not found: %s", walletID)
	}
	delete(r.wallets, walletID)
	delete(r.byOwner, ownerID)
	return nil
}

// --- In-Memory Transaction Repo ---

type inMemoryTransactionRepo struct {
	mu           sync.RWMutex
	txns         map[uuid.UUID]domain.Transaction
	fingerprints map[string]uuid.UUID
}

func newInMemoryTransactionRepo() *inMemoryTransactionRepo {
	return &inMemoryTransactionRepo{
		txns:         make(map[uuid.UUID]domain.Transaction),
		fingerprints: make(map[string]uuid.UUID),
	}
}

func (r *inMemoryTransactionRepo) Create(ctx context.Context, t *domain.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.fingerprints[t.Fingerprint]; dup {
		return fmt.Errorf("insert transaction: %w", ports.ErrDuplicateFingerprint)
	}
	r.txns[t.ID] = *t
	r.fingerprints[t.Fingerprint] = t.ID
	return nil
}

func (r *inMemoryTransactionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.txns[id]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (r *inMemoryTransactionRepo) ListRecent(ctx context.Context, ownerID uuid.UUID, since time.Time, limit int) ([]domain.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.Transaction
	for _, t := range r.txns {
		if t.OwnerID == ownerID && !t.OccurredAt.Before(since) {
			result = append(result, t)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].OccurredAt.After(result[j].OccurredAt)
	})
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (r *inMemoryTransactionRepo) List(ctx context.Context, params ports.TransactionListParams) ([]domain.Transaction, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var matched []domain.Transaction
	for _, t := range r.txns {
		if t.OwnerID != params.OwnerID {
			continue
		}
		if params.Status != nil && t.Status != *params.Status {
			continue
		}
		if params.Direction != nil && t.Direction != *params.Direction {
			continue
		}
		if params.Category != nil && t.Category != *params.Category {
			continue
		}
		if params.From != nil && t.OccurredAt.Unix() < *params.From {
			continue
		}
		if params.To != nil && t.OccurredAt.Unix() > *params.To {
			continue
		}
		matched = append(matched, t)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].OccurredAt.After(matched[j].OccurredAt)
	})

	total := int64(len(matched))
	offset := (params.Page - 1) * params.PageSize
	if offset >= len(matched) {
		return nil, total, nil
	}
	end := offset + params.PageSize
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

func (r *inMemoryTransactionRepo) UpdateEditable(ctx context.Context, id uuid.UUID, patch ports.TransactionPatch) (*domain.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.txns[id]
	if !ok {
		return nil, nil
	}
	if patch.Description != nil {
		t.Description = *patch.Description
	}
	if patch.Category != nil {
		t.Category = *patch.Category
	}
	if patch.Status != nil {
		t.Status = *patch.Status
	}
	if patch.Metadata != nil {
		t.Metadata = patch.Metadata
	}
	t.UpdatedAt = time.Now().UTC()
	r.txns[id] = t
	return &t, nil
}

func (r *inMemoryTransactionRepo) SetMetadata(ctx context.Context, id uuid.UUID, metadata map[string]any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.txns[id]
	if !ok {
		return fmt.Errorf("transaction not found: %s", id)
	}
	t.Metadata = metadata
	t.UpdatedAt = time.Now().UTC()
	r.txns[id] = t
	return nil
}

func (r *inMemoryTransactionRepo) MarkReversed(ctx context.Context, id uuid.UUID, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.txns[id]
	if !ok || t.Reversed {
		return fmt.Errorf("transaction not found or already reversed: %s", id)
	}
	t.Reversed = true
	t.ReversedAt = &at
	t.UpdatedAt = at
	r.txns[id] = t
	return nil
}

func (r *inMemoryTransactionRepo) MarkVerified(ctx context.Context, id uuid.UUID, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.txns[id]
	if !ok {
		return fmt.Errorf("transaction not found: %s", id)
	}
	t.Verified = true
	t.VerifiedAt = &at
	t.UpdatedAt = at
	r.txns[id] = t
	return nil
}

func (r *inMemoryTransactionRepo) CountByWallet(ctx context.Context, walletID uuid.UUID) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var count int64
	for _, t := range r.txns {
		if t.WalletID == walletID {
			count++
		}
	}
	return count, nil
}

func (r *inMemoryTransactionRepo) GetStats(ctx context.Context, ownerID uuid.UUID, periodStart *int64) (*ports.TransactionStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stats := &ports.TransactionStats{}
	for _, t := range r.txns {
		if t.OwnerID != ownerID {
			continue
		}
		if periodStart != nil && t.OccurredAt.Unix() < *periodStart {
			continue
		}
		stats.TotalTransactions++
		if t.Status == domain.TransactionStatusCompleted {
			stats.Completed++
		}
		if t.Status == domain.TransactionStatusFailed {
			stats.Failed++
		}
		if t.Reversed {
			stats.Reversed++
		}
		if t.Status == domain.TransactionStatusCompleted && !t.Reversed {
			switch t.Direction {
			case domain.DirectionCredit:
				stats.TotalCredited += t.Amount
			case domain.DirectionDebit:
				stats.TotalDebited += t.Amount
			}
		}
	}
	return stats, nil
}

func (r *inMemoryTransactionRepo) SumDebitsByCategory(ctx context.Context, ownerID uuid.UUID, category string, since time.Time) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var sum int64
	for _, t := range r.txns {
		if t.OwnerID == ownerID && t.Category == category &&
			t.Direction == domain.DirectionDebit &&
			t.Status == domain.TransactionStatusCompleted &&
			!t.Reversed && !t.OccurredAt.Before(since) {
			sum += t.Amount
		}
	}
	return sum, nil
}

// --- In-Memory Alert Repo ---

type inMemoryAlertRepo struct {
	mu     sync.RWMutex
	alerts map[uuid.UUID]domain.FraudAlert
}

func newInMemoryAlertRepo() *inMemoryAlertRepo {
	return &inMemoryAlertRepo{alerts: make(map[uuid.UUID]domain.FraudAlert)}
}

func (r *inMemoryAlertRepo) Create(ctx context.Context, a *domain.FraudAlert) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.alerts[a.ID] = *a
	return nil
}

func (r *inMemoryAlertRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID, status *domain.AlertStatus) ([]domain.FraudAlert, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.FraudAlert
	for _, a := range r.alerts {
		if a.OwnerID != ownerID {
			continue
		}
		if status != nil && a.Status != *status {
			continue
		}
		result = append(result, a)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (r *inMemoryAlertRepo) UpdateStatus(ctx context.Context, id, ownerID uuid.UUID, status domain.AlertStatus) (*domain.FraudAlert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.alerts[id]
	if !ok || a.OwnerID != ownerID {
		return nil, nil
	}
	a.Status = status
	a.UpdatedAt = time.Now().UTC()
	r.alerts[id] = a
	return &a, nil
}

// --- In-Memory Budget Repo ---

type inMemoryBudgetRepo struct {
	mu      sync.RWMutex
	budgets map[uuid.UUID]domain.Budget
}

func newInMemoryBudgetRepo() *inMemoryBudgetRepo {
	return &inMemoryBudgetRepo{budgets: make(map[uuid.UUID]domain.Budget)}
}

func (r *inMemoryBudgetRepo) Create(ctx context.Context, b *domain.Budget) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.budgets[b.ID] = *b
	return nil
}

func (r *inMemoryBudgetRepo) GetByID(ctx context.Context, id, ownerID uuid.UUID) (*domain.Budget, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.budgets[id]
	if !ok || b.OwnerID != ownerID {
		return nil, nil
	}
	return &b, nil
}

func (r *inMemoryBudgetRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Budget, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.Budget
	for _, b := range r.budgets {
		if b.OwnerID == ownerID {
			result = append(result, b)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Category < result[j].Category
	})
	return result, nil
}

func (r *inMemoryBudgetRepo) Update(ctx context.Context, b *domain.Budget) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.budgets[b.ID]
	if !ok || existing.OwnerID != b.OwnerID {
		return fmt.Errorf("budget not found: %s", b.ID)
	}
	r.budgets[b.ID] = *b
	return nil
}

func (r *inMemoryBudgetRepo) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.budgets[id]
	if !ok || b.OwnerID != ownerID {
		return fmt.Errorf("budget not found: %s", id)
	}
	delete(r.budgets, id)
	return nil
}

// --- In-Memory Goal Repo ---

type inMemoryGoalRepo struct {
	mu    sync.RWMutex
	goals map[uuid.UUID]domain.Goal
}

func newInMemoryGoalRepo() *inMemoryGoalRepo {
	return &inMemoryGoalRepo{goals: make(map[uuid.UUID]domain.Goal)}
}

func (r *inMemoryGoalRepo) Create(ctx context.Context, g *domain.Goal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.goals[g.ID] = *g
	return nil
}

func (r *inMemoryGoalRepo) GetByID(ctx context.Context, id, ownerID uuid.UUID) (*domain.Goal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.goals[id]
	if !ok || g.OwnerID != ownerID {
		return nil, nil
	}
	return &g, nil
}

func (r *inMemoryGoalRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Goal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.Goal
	for _, g := range r.goals {
		if g.OwnerID == ownerID {
			result = append(result, g)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

func (r *inMemoryGoalRepo) AddContribution(ctx context.Context, id, ownerID uuid.UUID, amount int64) (*domain.Goal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.goals[id]
	if !ok || g.OwnerID != ownerID {
		return nil, nil
	}
	g.SavedAmount += amount
	g.UpdatedAt = time.Now().UTC()
	r.goals[id] = g
	return &g, nil
}

func (r *inMemoryGoalRepo) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.goals[id]
	if !ok || g.OwnerID != ownerID {
		return fmt.Errorf("goal not found: %s", id)
	}
	delete(r.goals, id)
	return nil
}

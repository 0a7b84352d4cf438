package ports

import (
	"context"
	"errors"
	"time"

	"finledger/internal/core/domain"

	"github.com/google/uuid"
)

// ErrDuplicateFingerprint is returned by TransactionRepository.Create when
// the store's unique constraint on the fingerprint column rejects the row.
// The constraint lives in the store, not application logic, so the
// check-then-insert race cannot produce duplicates.
var ErrDuplicateFingerprint = errors.New("duplicate transaction fingerprint")

// UserRepository defines persistence operations for user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
}

// WalletPatch holds the administratively editable wallet fields.
type WalletPatch struct {
	Name     *string
	Currency *string
	Status   *domain.WalletStatus
}

// WalletRepository defines persistence operations for wallets.
//
// ApplyDelta is the single write path for balances: a guarded atomic update
// that adds delta only while the wallet is ACTIVE and the resulting balance
// stays non-negative. It returns (nil, nil) when the guard rejects the
// update; callers must treat that as not-applied, never as success.
type WalletRepository interface {
	CreateIfAbsent(ctx context.Context, wallet *domain.Wallet) (*domain.Wallet, bool, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Wallet, error)
	GetByOwner(ctx context.Context, ownerID uuid.UUID) (*domain.Wallet, error)
	ApplyDelta(ctx context.Context, walletID, ownerID uuid.UUID, delta int64) (*domain.Wallet, error)
	UpdateProfile(ctx context.Context, walletID, ownerID uuid.UUID, patch WalletPatch) (*domain.Wallet, error)
	Delete(ctx context.Context, walletID, ownerID uuid.UUID) error
}

// TransactionPatch holds the non-financial, editable transaction fields.
// Amount, direction, wallet reference and fingerprint are immutable.
type TransactionPatch struct {
	Description *string
	Category    *string
	Status      *domain.TransactionStatus
	Metadata    map[string]any
}

// TransactionListParams holds filter + pagination for listing transactions.
type TransactionListParams struct {
	OwnerID   uuid.UUID
	Status    *domain.TransactionStatus
	Direction *domain.Direction
	Category  *string
	From      *int64 // Unix timestamp
	To        *int64 // Unix timestamp
	Page      int
	PageSize  int
}

// TransactionStats holds aggregated statistics for the dashboard.
type TransactionStats struct {
	TotalTransactions int64
	Completed         int64
	Failed            int64
	Reversed          int64
	TotalCredited     int64 // Sum of completed, non-reversed credit amounts
	TotalDebited      int64 // Sum of completed, non-reversed debit amounts
}

// TransactionRepository defines persistence operations for ledger records.
type TransactionRepository interface {
	// Create persists a new transaction. Returns ErrDuplicateFingerprint
	// (wrapped) on a fingerprint uniqueness violation.
	Create(ctx context.Context, transaction *domain.Transaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error)
	// ListRecent returns the owner's transactions with OccurredAt >= since,
	// newest first, capped at limit. Feeds the fraud heuristic window.
	ListRecent(ctx context.Context, ownerID uuid.UUID, since time.Time, limit int) ([]domain.Transaction, error)
	List(ctx context.Context, params TransactionListParams) ([]domain.Transaction, int64, error)
	UpdateEditable(ctx context.Context, id uuid.UUID, patch TransactionPatch) (*domain.Transaction, error)
	SetMetadata(ctx context.Context, id uuid.UUID, metadata map[string]any) error
	MarkReversed(ctx context.Context, id uuid.UUID, at time.Time) error
	MarkVerified(ctx context.Context, id uuid.UUID, at time.Time) error
	CountByWallet(ctx context.Context, walletID uuid.UUID) (int64, error)
	GetStats(ctx context.Context, ownerID uuid.UUID, periodStart *int64) (*TransactionStats, error)
	// SumDebitsByCategory aggregates completed, non-reversed debit amounts
	// for a category since the given time. Feeds budget usage.
	SumDebitsByCategory(ctx context.Context, ownerID uuid.UUID, category string, since time.Time) (int64, error)
}

// AlertRepository defines persistence for fraud alerts.
type AlertRepository interface {
	Create(ctx context.Context, alert *domain.FraudAlert) error
	ListByOwner(ctx context.Context, ownerID uuid.UUID, status *domain.AlertStatus) ([]domain.FraudAlert, error)
	UpdateStatus(ctx context.Context, id, ownerID uuid.UUID, status domain.AlertStatus) (*domain.FraudAlert, error)
}

// BudgetRepository defines persistence for budgets.
type BudgetRepository interface {
	Create(ctx context.Context, budget *domain.Budget) error
	GetByID(ctx context.Context, id, ownerID uuid.UUID) (*domain.Budget, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Budget, error)
	Update(ctx context.Context, budget *domain.Budget) error
	Delete(ctx context.Context, id, ownerID uuid.UUID) error
}

// GoalRepository defines persistence for savings goals.
type GoalRepository interface {
	Create(ctx context.Context, goal *domain.Goal) error
	GetByID(ctx context.Context, id, ownerID uuid.UUID) (*domain.Goal, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Goal, error)
	// AddContribution atomically increases SavedAmount and returns the
	// updated goal, or (nil, nil) if the goal does not exist.
	AddContribution(ctx context.Context, id, ownerID uuid.UUID, amount int64) (*domain.Goal, error)
	Delete(ctx context.Context, id, ownerID uuid.UUID) error
}

package ports

import (
	"context"
	"time"

	"finledger/internal/core/domain"

	"github.com/google/uuid"
)

// FingerprintService computes and checks tamper-evident transaction digests.
type FingerprintService interface {
	// Compute returns a fixed-length hex digest over the transaction's
	// financial identity plus a creation-time nonce. Two otherwise
	// identical transactions never share a fingerprint.
	Compute(ownerID, walletID uuid.UUID, direction domain.Direction, amount int64, occurredAt time.Time) (string, error)
	// Verify asserts fingerprint presence and well-formedness. The nonce
	// is not persisted, so recompute-and-compare is not possible.
	Verify(transaction *domain.Transaction) bool
}

// FraudService scores a candidate transaction against recent history.
// Assess is pure: no I/O, deterministic given its inputs.
type FraudService interface {
	Assess(candidate *domain.Transaction, recentHistory []domain.Transaction) domain.FraudAssessment
}

// --- Service Ports (Business Logic) ---

// CreateTransactionRequest holds validated input for ledger creation.
type CreateTransactionRequest struct {
	OwnerID     uuid.UUID
	WalletID    *uuid.UUID // nil = resolve the owner's sole wallet
	Direction   domain.Direction
	Amount      int64
	Currency    string
	Description string
	Category    string                   // empty = domain.DefaultCategory
	Status      domain.TransactionStatus // empty = COMPLETED
	OccurredAt  time.Time                // zero = now; must not be in the future
	Metadata    map[string]any
}

// LedgerService owns all balance-mutating transaction operations.
type LedgerService interface {
	CreateTransaction(ctx context.Context, req CreateTransactionRequest) (*domain.Transaction, error)
	ReverseTransaction(ctx context.Context, ownerID, transactionID uuid.UUID) (*domain.Transaction, error)
	UpdateTransaction(ctx context.Context, ownerID, transactionID uuid.UUID, patch TransactionPatch) (*domain.Transaction, error)
	VerifyTransaction(ctx context.Context, ownerID, transactionID uuid.UUID) (*domain.Transaction, error)
}

// CreateWalletRequest holds input for idempotent wallet creation.
type CreateWalletRequest struct {
	OwnerID        uuid.UUID
	Name           string
	Currency       string
	InitialBalance int64
}

// WalletService defines wallet lifecycle operations.
type WalletService interface {
	// CreateIfAbsent is an upsert: a second call for the same owner
	// returns the existing wallet with created=false.
	CreateIfAbsent(ctx context.Context, req CreateWalletRequest) (*domain.Wallet, bool, error)
	Get(ctx context.Context, ownerID uuid.UUID) (*domain.Wallet, error)
	Update(ctx context.Context, ownerID uuid.UUID, patch WalletPatch) (*domain.Wallet, error)
	// Delete removes the wallet only when its balance is zero and no
	// transaction references it.
	Delete(ctx context.Context, ownerID uuid.UUID) error
}

// AuthService defines account registration and login.
type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (*domain.User, error)
	Login(ctx context.Context, username, password string) (string, time.Time, error) // token, expiry, error
}

// RegisterRequest holds input for account registration.
type RegisterRequest struct {
	Username string
	Email    string
	Password string
}

// PasswordHasher handles password hashing (Argon2id).
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password string, hash string) (bool, error)
}

// TokenService handles JWT token operations.
type TokenService interface {
	Generate(userID uuid.UUID, username string) (string, time.Time, error)
	Validate(tokenString string) (*TokenClaims, error)
}

// TokenClaims holds the parsed JWT claims.
type TokenClaims struct {
	UserID   uuid.UUID
	Username string
}

// AlertService defines the fraud alert review lifecycle.
type AlertService interface {
	List(ctx context.Context, ownerID uuid.UUID, status *domain.AlertStatus) ([]domain.FraudAlert, error)
	Acknowledge(ctx context.Context, ownerID, alertID uuid.UUID) (*domain.FraudAlert, error)
	Resolve(ctx context.Context, ownerID, alertID uuid.UUID) (*domain.FraudAlert, error)
}

// BudgetService defines budget CRUD plus usage aggregation.
type BudgetService interface {
	Create(ctx context.Context, budget *domain.Budget) (*domain.Budget, error)
	List(ctx context.Context, ownerID uuid.UUID) ([]domain.BudgetUsage, error)
	Update(ctx context.Context, budget *domain.Budget) (*domain.Budget, error)
	Delete(ctx context.Context, id, ownerID uuid.UUID) error
}

// GoalService defines savings goal operations.
type GoalService interface {
	Create(ctx context.Context, goal *domain.Goal) (*domain.Goal, error)
	List(ctx context.Context, ownerID uuid.UUID) ([]domain.Goal, error)
	Contribute(ctx context.Context, id, ownerID uuid.UUID, amount int64) (*domain.Goal, error)
	Delete(ctx context.Context, id, ownerID uuid.UUID) error
}

// ReportingService defines read-only dashboard queries.
type ReportingService interface {
	GetWalletBalance(ctx context.Context, ownerID uuid.UUID) (int64, string, error) // balance, currency, error
	GetTransaction(ctx context.Context, ownerID, transactionID uuid.UUID) (*domain.Transaction, error)
	ListTransactions(ctx context.Context, params TransactionListParams) ([]domain.Transaction, int64, error)
	GetStats(ctx context.Context, ownerID uuid.UUID, period string) (*TransactionStats, error)
}

// ReportKind selects an advisor report type.
type ReportKind string

const (
	ReportKindCareer     ReportKind = "career"
	ReportKindInvestment ReportKind = "investment"
	ReportKindStocks     ReportKind = "stocks"
)

// AdvisorReport is the advisor endpoint payload.
type AdvisorReport struct {
	Kind        ReportKind `json:"kind"`
	Headline    string     `json:"headline"`
	Suggestions []string   `json:"suggestions"`
	RiskProfile string     `json:"risk_profile"`
	Narrative   string     `json:"narrative,omitempty"` // LLM-enriched when available
	GeneratedAt time.Time  `json:"generated_at"`
	Cached      bool       `json:"cached"`
}

// AdvisorService produces heuristic finance reports, optionally enriched
// by an LLM collaborator.
type AdvisorService interface {
	Report(ctx context.Context, ownerID uuid.UUID, kind ReportKind) (*AdvisorReport, error)
}

// NarrativeGenerator produces a short free-text narrative for an advisor
// report. Implementations may call an external LLM; a nil or failing
// generator degrades the report to its heuristic content.
type NarrativeGenerator interface {
	Narrative(ctx context.Context, prompt string) (string, error)
}

// ReportCache caches serialized advisor reports (Redis fast path).
type ReportCache interface {
	Get(ctx context.Context, key string) ([]byte, error) // nil, nil on miss
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

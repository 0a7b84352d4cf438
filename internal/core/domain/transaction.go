package domain

import (
	"time"

	"github.com/google/uuid"
)

// Direction is the sign of a transaction's effect on the wallet balance.
type Direction string

const (
	DirectionCredit Direction = "CREDIT"
	DirectionDebit  Direction = "DEBIT"
)

// TransactionStatus represents the lifecycle state of a transaction.
// Reversal is orthogonal to status and tracked by the Reversed flag.
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "PENDING"
	TransactionStatusCompleted TransactionStatus = "COMPLETED"
	TransactionStatusFailed    TransactionStatus = "FAILED"
	TransactionStatusCancelled TransactionStatus = "CANCELLED"
)

// DefaultCategory is assigned when the caller supplies no category.
const DefaultCategory = "general"

// MetadataKeyFraud is the metadata key under which the fraud assessment
// is attached to a transaction.
const MetadataKeyFraud = "fraud_assessment"

// Transaction is an immutable ledger entry. Financial fields (amount,
// direction, wallet, fingerprint) are fixed at creation; description,
// category, status and metadata may be edited afterwards. Reversal sets a
// flag and applies the inverse balance delta, it never deletes the record.
type Transaction struct {
	ID          uuid.UUID         `json:"id"`
	OwnerID     uuid.UUID         `json:"owner_id"`
	WalletID    uuid.UUID         `json:"wallet_id"`
	Direction   Direction         `json:"direction"`
	Amount      int64             `json:"amount"`
	Currency    string            `json:"currency"`
	Description string            `json:"description,omitempty"`
	Category    string            `json:"category"`
	Status      TransactionStatus `json:"status"`
	Fingerprint string            `json:"fingerprint"`
	OccurredAt  time.Time         `json:"occurred_at"`
	Metadata    map[string]any    `json:"metadata,omitempty"`
	Reversed    bool              `json:"reversed"`
	ReversedAt  *time.Time        `json:"reversed_at,omitempty"`
	Verified    bool              `json:"verified"`
	VerifiedAt  *time.Time        `json:"verified_at,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// SignedDelta returns the transaction's effect on the wallet balance:
// +Amount for credits, -Amount for debits.
func (t *Transaction) SignedDelta() int64 {
	if t.Direction == DirectionDebit {
		return -t.Amount
	}
	return t.Amount
}

// InverseDelta returns the delta that undoes this transaction.
func (t *Transaction) InverseDelta() int64 {
	return -t.SignedDelta()
}

// ValidDirection reports whether d is CREDIT or DEBIT.
func ValidDirection(d Direction) bool {
	return d == DirectionCredit || d == DirectionDebit
}

// ValidTransactionStatus reports whether s is one of the known states.
func ValidTransactionStatus(s TransactionStatus) bool {
	switch s {
	case TransactionStatusPending, TransactionStatusCompleted,
		TransactionStatusFailed, TransactionStatusCancelled:
		return true
	}
	return false
}

// ValidStatusTransition reports whether a status edit is legal. PENDING
// settles to COMPLETED or FAILED; COMPLETED may be cancelled; FAILED and
// CANCELLED are terminal. A same-status edit is a no-op and always legal.
func ValidStatusTransition(from, to TransactionStatus) bool {
	if from == to {
		return true
	}
	switch from {
	case TransactionStatusPending:
		return to == TransactionStatusCompleted || to == TransactionStatusFailed
	case TransactionStatusCompleted:
		return to == TransactionStatusCancelled
	}
	return false
}

package domain

import (
	"time"

	"github.com/google/uuid"
)

// WalletStatus represents the state of a wallet. Only ACTIVE wallets may
// have their balance changed.
type WalletStatus string

const (
	WalletStatusActive WalletStatus = "ACTIVE"
	WalletStatusFrozen WalletStatus = "FROZEN"
	WalletStatusClosed WalletStatus = "CLOSED"
)

// Wallet is a user's balance record. Exactly one wallet exists per owner;
// the balance is in minor currency units and never negative.
type Wallet struct {
	ID        uuid.UUID    `json:"id"`
	OwnerID   uuid.UUID    `json:"owner_id"`
	Name      string       `json:"name"`
	Currency  string       `json:"currency"`
	Balance   int64        `json:"balance"`
	Status    WalletStatus `json:"status"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// IsActive returns true if the wallet accepts balance changes.
func (w *Wallet) IsActive() bool {
	return w.Status == WalletStatusActive
}

// ValidWalletStatus reports whether s is one of the known wallet states.
func ValidWalletStatus(s WalletStatus) bool {
	switch s {
	case WalletStatusActive, WalletStatusFrozen, WalletStatusClosed:
		return true
	}
	return false
}

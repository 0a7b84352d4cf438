package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is a registered account holder. The user's UUID is the owner
// reference used by wallets, transactions and alerts.
type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never expose
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

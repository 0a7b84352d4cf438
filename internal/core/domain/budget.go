package domain

import (
	"time"

	"github.com/google/uuid"
)

// Budget is a per-category monthly spending limit. Spent amounts are
// aggregated from the ledger at read time, not stored here.
type Budget struct {
	ID           uuid.UUID `json:"id"`
	OwnerID      uuid.UUID `json:"owner_id"`
	Category     string    `json:"category"`
	MonthlyLimit int64     `json:"monthly_limit"`
	Currency     string    `json:"currency"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// BudgetUsage pairs a budget with the amount debited against its category
// in the current month.
type BudgetUsage struct {
	Budget Budget `json:"budget"`
	Spent  int64  `json:"spent"`
}

// Exceeded returns true if the month's spend is over the limit.
func (u *BudgetUsage) Exceeded() bool {
	return u.Spent > u.Budget.MonthlyLimit
}

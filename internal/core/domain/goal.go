package domain

import (
	"time"

	"github.com/google/uuid"
)

// Goal is a savings target. Contributions only ever increase SavedAmount.
type Goal struct {
	ID           uuid.UUID  `json:"id"`
	OwnerID      uuid.UUID  `json:"owner_id"`
	Name         string     `json:"name"`
	TargetAmount int64      `json:"target_amount"`
	SavedAmount  int64      `json:"saved_amount"`
	Currency     string     `json:"currency"`
	Deadline     *time.Time `json:"deadline,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// IsReached returns true once the saved amount meets the target.
func (g *Goal) IsReached() bool {
	return g.SavedAmount >= g.TargetAmount
}

// Progress returns completion in percent, capped at 100.
func (g *Goal) Progress() int {
	if g.TargetAmount <= 0 {
		return 0
	}
	p := int(g.SavedAmount * 100 / g.TargetAmount)
	if p > 100 {
		p = 100
	}
	return p
}

package domain

import (
	"time"

	"github.com/google/uuid"
)

// FraudSeverity is the derived tier of a fraud assessment.
type FraudSeverity string

const (
	FraudSeverityLow    FraudSeverity = "LOW"
	FraudSeverityMedium FraudSeverity = "MEDIUM"
	FraudSeverityHigh   FraudSeverity = "HIGH"
)

// FraudAssessment is the result of scoring a candidate transaction against
// the owner's recent history. It is attached to the transaction as metadata
// and, when flagged, persisted as a FraudAlert. It is never a reason to
// roll back an already-committed transaction.
type FraudAssessment struct {
	Score      int           `json:"score"` // 0..100
	Reasons    []string      `json:"reasons,omitempty"`
	Flagged    bool          `json:"flagged"`
	Severity   FraudSeverity `json:"severity"`
	AssessedAt time.Time     `json:"assessed_at"`
}

// AlertStatus is the lifecycle state of a fraud alert.
type AlertStatus string

const (
	AlertStatusOpen         AlertStatus = "OPEN"
	AlertStatusAcknowledged AlertStatus = "ACKNOWLEDGED"
	AlertStatusResolved     AlertStatus = "RESOLVED"
)

// FraudAlert records a flagged assessment for operator review.
type FraudAlert struct {
	ID            uuid.UUID     `json:"id"`
	OwnerID       uuid.UUID     `json:"owner_id"`
	TransactionID uuid.UUID     `json:"transaction_id"`
	Score         int           `json:"score"`
	Reasons       []string      `json:"reasons,omitempty"`
	Severity      FraudSeverity `json:"severity"`
	Status        AlertStatus   `json:"status"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// IsOpen returns true if the alert has not been acknowledged or resolved.
func (a *FraudAlert) IsOpen() bool {
	return a.Status == AlertStatusOpen
}

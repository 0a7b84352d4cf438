package handler

import (
	"time"

	"finledger/internal/adapter/http/dto"
	"finledger/internal/adapter/http/middleware"
	"finledger/internal/core/domain"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ownerID extracts the authenticated user's ID set by the JWT middleware.
func ownerID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(middleware.CtxUserID)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

func fmtTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func fmtTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := fmtTime(*t)
	return &s
}

func toTransactionResponse(t *domain.Transaction) dto.TransactionResponse {
	return dto.TransactionResponse{
		ID:          t.ID.String(),
		WalletID:    t.WalletID.String(),
		Direction:   string(t.Direction),
		Amount:      t.Amount,
		Currency:    t.Currency,
		Description: t.Description,
		Category:    t.Category,
		Status:      string(t.Status),
		Fingerprint: t.Fingerprint,
		OccurredAt:  fmtTime(t.OccurredAt),
		Metadata:    t.Metadata,
		Reversed:    t.Reversed,
		ReversedAt:  fmtTimePtr(t.ReversedAt),
		Verified:    t.Verified,
		VerifiedAt:  fmtTimePtr(t.VerifiedAt),
		CreatedAt:   fmtTime(t.CreatedAt),
	}
}

func toWalletResponse(w *domain.Wallet) dto.WalletResponse {
	return dto.WalletResponse{
		ID:        w.ID.String(),
		Name:      w.Name,
		Currency:  w.Currency,
		Balance:   w.Balance,
		Status:    string(w.Status),
		CreatedAt: fmtTime(w.CreatedAt),
		UpdatedAt: fmtTime(w.UpdatedAt),
	}
}

func toAlertResponse(a *domain.FraudAlert) dto.AlertResponse {
	return dto.AlertResponse{
		ID:            a.ID.String(),
		TransactionID: a.TransactionID.String(),
		Score:         a.Score,
		Reasons:       a.Reasons,
		Severity:      string(a.Severity),
		Status:        string(a.Status),
		CreatedAt:     fmtTime(a.CreatedAt),
		UpdatedAt:     fmtTime(a.UpdatedAt),
	}
}

func toBudgetResponse(b *domain.Budget) dto.BudgetResponse {
	return dto.BudgetResponse{
		ID:           b.ID.String(),
		Category:     b.Category,
		MonthlyLimit: b.MonthlyLimit,
		Currency:     b.Currency,
		CreatedAt:    fmtTime(b.CreatedAt),
		UpdatedAt:    fmtTime(b.UpdatedAt),
	}
}

func toGoalResponse(g *domain.Goal) dto.GoalResponse {
	return dto.GoalResponse{
		ID:           g.ID.String(),
		Name:         g.Name,
		TargetAmount: g.TargetAmount,
		SavedAmount:  g.SavedAmount,
		Currency:     g.Currency,
		Deadline:     fmtTimePtr(g.Deadline),
		Progress:     g.Progress(),
		Reached:      g.IsReached(),
		CreatedAt:    fmtTime(g.CreatedAt),
	}
}

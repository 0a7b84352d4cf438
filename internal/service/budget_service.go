package service

import (
	"context"
	"fmt"
	"time"

	"finledger/internal/core/domain"
	"finledger/internal/core/ports"
	"finledger/pkg/apperror"

	"github.com/google/uuid"
)

// BudgetServiceImpl implements ports.BudgetService.
type BudgetServiceImpl struct {
	budgetRepo ports.BudgetRepository
	txRepo     ports.TransactionRepository
	now        func() time.Time
}

// NewBudgetService creates a new BudgetServiceImpl.
func NewBudgetService(budgetRepo ports.BudgetRepository, txRepo ports.TransactionRepository) *BudgetServiceImpl {
	return &BudgetServiceImpl{
		budgetRepo: budgetRepo,
		txRepo:     txRepo,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Create adds a monthly budget for a spending category.
func (s *BudgetServiceImpl) Create(ctx context.Context, budget *domain.Budget) (*domain.Budget, error) {
	if budget.Category == "" {
		return nil, apperror.Validation("budget category must not be empty")
	}
	if budget.MonthlyLimit <= 0 {
		return nil, apperror.ErrInvalidAmount()
	}
	if budget.Currency != "" && len(budget.Currency) != 3 {
		return nil, apperror.ErrInvalidCurrency()
	}

	now := s.now()
	budget.ID = uuid.New()
	budget.CreatedAt = now
	budget.UpdatedAt = now

	if err := s.budgetRepo.Create(ctx, budget); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create budget: %w", err))
	}
	return budget, nil
}

// List returns each budget together with the current calendar month's
// completed debit spend in its category.
func (s *BudgetServiceImpl) List(ctx context.Context, ownerID uuid.UUID) ([]domain.BudgetUsage, error) {
	budgets, err := s.budgetRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list budgets: %w", err))
	}

	now := s.now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	usages := make([]domain.BudgetUsage, 0, len(budgets))
	for _, b := range budgets {
		spent, err := s.txRepo.SumDebitsByCategory(ctx, ownerID, b.Category, monthStart)
		if err != nil {
			return nil, apperror.InternalError(fmt.Errorf("sum spend for %q: %w", b.Category, err))
		}
		usages = append(usages, domain.BudgetUsage{Budget: b, Spent: spent})
	}
	return usages, nil
}

// Update edits a budget's category, limit or currency.
func (s *BudgetServiceImpl) Update(ctx context.Context, budget *domain.Budget) (*domain.Budget, error) {
	if budget.MonthlyLimit <= 0 {
		return nil, apperror.ErrInvalidAmount()
	}

	existing, err := s.budgetRepo.GetByID(ctx, budget.ID, budget.OwnerID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get budget: %w", err))
	}
	if existing == nil {
		return nil, apperror.ErrNotFound("Budget")
	}

	budget.CreatedAt = existing.CreatedAt
	budget.UpdatedAt = s.now()
	if err := s.budgetRepo.Update(ctx, budget); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("update budget: %w", err))
	}
	return budget, nil
}

// Delete removes a budget.
func (s *BudgetServiceImpl) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	existing, err := s.budgetRepo.GetByID(ctx, id, ownerID)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("get budget: %w", err))
	}
	if existing == nil {
		return apperror.ErrNotFound("Budget")
	}
	if err := s.budgetRepo.Delete(ctx, id, ownerID); err != nil {
		return apperror.InternalError(fmt.Errorf("delete budget: %w", err))
	}
	return nil
}

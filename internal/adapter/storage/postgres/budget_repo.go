package postgres

import (
	"context"
	"errors"
	"fmt"

	"finledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// BudgetRepo implements ports.BudgetRepository.
type BudgetRepo struct {
	pool Pool
}

// NewBudgetRepo creates a new BudgetRepo.
func NewBudgetRepo(pool Pool) *BudgetRepo {
	return &BudgetRepo{pool: pool}
}

const budgetColumns = `id, owner_id, category, monthly_limit, currency, created_at, updated_at`

// Create inserts a new budget.
func (r *BudgetRepo) Create(ctx context.Context, b *domain.Budget) error {
	query := `INSERT INTO budgets (id, owner_id, category, monthly_limit, currency, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.pool.Exec(ctx, query,
		b.ID, b.OwnerID, b.Category, b.MonthlyLimit, b.Currency, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert budget: %w", err)
	}
	return nil
}

// GetByID fetches an owner-scoped budget.
func (r *BudgetRepo) GetByID(ctx context.Context, id, ownerID uuid.UUID) (*domain.Budget, error) {
	query := `SELECT ` + budgetColumns + ` FROM budgets WHERE id = $1 AND owner_id = $2`

	b := &domain.Budget{}
	err := r.pool.QueryRow(ctx, query, id, ownerID).Scan(
		&b.ID, &b.OwnerID, &b.Category, &b.MonthlyLimit, &b.Currency, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get budget by id: %w", err)
	}
	return b, nil
}

// ListByOwner returns the owner's budgets ordered by category.
func (r *BudgetRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Budget, error) {
	query := `SELECT ` + budgetColumns + ` FROM budgets WHERE owner_id = $1 ORDER BY category`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	var budgets []domain.Budget
	for rows.Next() {
		b := domain.Budget{}
		err := rows.Scan(&b.ID, &b.OwnerID, &b.Category, &b.MonthlyLimit, &b.Currency, &b.CreatedAt, &b.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan budget row: %w", err)
		}
		budgets = append(budgets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate budget rows: %w", err)
	}
	return budgets, nil
}

// Update rewrites a budget's editable fields.
func (r *BudgetRepo) Update(ctx context.Context, b *domain.Budget) error {
	query := `UPDATE budgets SET category = $1, monthly_limit = $2, currency = $3, updated_at = $4
		WHERE id = $5 AND owner_id = $6`

	tag, err := r.pool.Exec(ctx, query, b.Category, b.MonthlyLimit, b.Currency, b.UpdatedAt, b.ID, b.OwnerID)
	if err != nil {
		return fmt.Errorf("update budget: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("budget not found: %s", b.ID)
	}
	return nil
}

// Delete removes a budget.
func (r *BudgetRepo) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	query := `DELETE FROM budgets WHERE id = $1 AND owner_id = $2`

	tag, err := r.pool.Exec(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("budget not found: %s", id)
	}
	return nil
}

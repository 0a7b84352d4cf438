package postgres

import (
	"context"
	"errors"
	"fmt"

	"finledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// GoalRepo implements ports.GoalRepository.
type GoalRepo struct {
	pool Pool
}

// NewGoalRepo creates a new GoalRepo.
func NewGoalRepo(pool Pool) *GoalRepo {
	return &GoalRepo{pool: pool}
}

const goalColumns = `id, owner_id, name, target_amount, saved_amount, currency, deadline, created_at, updated_at`

// Create inserts a new savings goal.
func (r *GoalRepo) Create(ctx context.Context, g *domain.Goal) error {
	query := `INSERT INTO goals (id, owner_id, name, target_amount, saved_amount, currency, deadline, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.pool.Exec(ctx, query,
		g.ID, g.OwnerID, g.Name, g.TargetAmount, g.SavedAmount, g.Currency, g.Deadline, g.CreatedAt, g.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert goal: %w", err)
	}
	return nil
}

// GetByID fetches an owner-scoped goal.
func (r *GoalRepo) GetByID(ctx context.Context, id, ownerID uuid.UUID) (*domain.Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM goals WHERE id = $1 AND owner_id = $2`

	g, err := r.scanGoal(r.pool.QueryRow(ctx, query, id, ownerID))
	if err != nil {
		return nil, fmt.Errorf("get goal by id: %w", err)
	}
	return g, nil
}

// ListByOwner returns the owner's goals, earliest deadline first.
func (r *GoalRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM goals WHERE owner_id = $1 ORDER BY deadline NULLS LAST, created_at`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()

	var goals []domain.Goal
	for rows.Next() {
		g := domain.Goal{}
		err := rows.Scan(&g.ID, &g.OwnerID, &g.Name, &g.TargetAmount, &g.SavedAmount, &g.Currency, &g.Deadline, &g.CreatedAt, &g.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan goal row: %w", err)
		}
		goals = append(goals, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate goal rows: %w", err)
	}
	return goals, nil
}

// AddContribution atomically increases the saved amount.
func (r *GoalRepo) AddContribution(ctx context.Context, id, ownerID uuid.UUID, amount int64) (*domain.Goal, error) {
	query := `UPDATE goals SET saved_amount = saved_amount + $1, updated_at = NOW()
		WHERE id = $2 AND owner_id = $3
		RETURNING ` + goalColumns

	g, err := r.scanGoal(r.pool.QueryRow(ctx, query, amount, id, ownerID))
	if err != nil {
		return nil, fmt.Errorf("add goal contribution: %w", err)
	}
	return g, nil
}

// Delete removes a goal.
func (r *GoalRepo) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	query := `DELETE FROM goals WHERE id = $1 AND owner_id = $2`

	tag, err := r.pool.Exec(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("goal not found: %s", id)
	}
	return nil
}

func (r *GoalRepo) scanGoal(row pgx.Row) (*domain.Goal, error) {
	g := &domain.Goal{}
	err := row.Scan(&g.ID, &g.OwnerID, &g.Name, &g.TargetAmount, &g.SavedAmount, &g.Currency, &g.Deadline, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return g, nil
}

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

// GoalServiceImpl implements ports.GoalService.
type GoalServiceImpl struct {
	goalRepo ports.GoalRepository
}

// NewGoalService creates a new GoalServiceImpl.
func NewGoalService(goalRepo ports.GoalRepository) *GoalServiceImpl {
	return &GoalServiceImpl{goalRepo: goalRepo}
}

// Create adds a savings goal.
func (s *GoalServiceImpl) Create(ctx context.Context, goal *domain.Goal) (*domain.Goal, error) {
	if goal.Name == "" {
		return nil, apperror.Validation("goal name must not be empty")
	}
	if goal.TargetAmount <= 0 {
		return nil, apperror.ErrInvalidAmount()
	}
	if goal.Currency != "" && len(goal.Currency) != 3 {
		return nil, apperror.ErrInvalidCurrency()
	}
	if goal.Deadline != nil && goal.Deadline.Before(time.Now().UTC()) {
		return nil, apperror.Validation("goal deadline must be in the future")
	}

	now := time.Now().UTC()
	goal.ID = uuid.New()
	goal.SavedAmount = 0
	goal.CreatedAt = now
	goal.UpdatedAt = now

	if err := s.goalRepo.Create(ctx, goal); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create goal: %w", err))
	}
	return goal, nil
}

// List returns the owner's goals.
func (s *GoalServiceImpl) List(ctx context.Context, ownerID uuid.UUID) ([]domain.Goal, error) {
	goals, err := s.goalRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list goals: %w", err))
	}
	return goals, nil
}

// Contribute atomically adds to the goal's saved amount.
func (s *GoalServiceImpl) Contribute(ctx context.Context, id, ownerID uuid.UUID, amount int64) (*domain.Goal, error) {
	if amount <= 0 {
		return nil, apperror.ErrInvalidAmount()
	}

	goal, err := s.goalRepo.AddContribution(ctx, id, ownerID, amount)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("add contribution: %w", err))
	}
	if goal == nil {
		return nil, apperror.ErrNotFound("Goal")
	}
	return goal, nil
}

// Delete removes a goal.
func (s *GoalServiceImpl) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	existing, err := s.goalRepo.GetByID(ctx, id, ownerID)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("get goal: %w", err))
	}
	if existing == nil {
		return apperror.ErrNotFound("Goal")
	}
	if err := s.goalRepo.Delete(ctx, id, ownerID); err != nil {
		return apperror.InternalError(fmt.Errorf("delete goal: %w", err))
	}
	return nil
}

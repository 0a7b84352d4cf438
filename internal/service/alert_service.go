package service

import (
	"context"
	"fmt"

	"finledger/internal/core/domain"
	"finledger/internal/core/ports"
	"finledger/pkg/apperror"

	"github.com/google/uuid"
)

// AlertServiceImpl implements ports.AlertService.
type AlertServiceImpl struct {
	alertRepo ports.AlertRepository
}

// NewAlertService creates a new AlertServiceImpl.
func NewAlertService(alertRepo ports.AlertRepository) *AlertServiceImpl {
	return &AlertServiceImpl{alertRepo: alertRepo}
}

// List returns the owner's fraud alerts, optionally filtered by status.
func (s *AlertServiceImpl) List(ctx context.Context, ownerID uuid.UUID, status *domain.AlertStatus) ([]domain.FraudAlert, error) {
	alerts, err := s.alertRepo.ListByOwner(ctx, ownerID, status)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list alerts: %w", err))
	}
	return alerts, nil
}

// Acknowledge moves an open alert to ACKNOWLEDGED.
func (s *AlertServiceImpl) Acknowledge(ctx context.Context, ownerID, alertID uuid.UUID) (*domain.FraudAlert, error) {
	return s.transition(ctx, ownerID, alertID, domain.AlertStatusAcknowledged)
}

// Resolve closes an alert.
func (s *AlertServiceImpl) Resolve(ctx context.Context, ownerID, alertID uuid.UUID) (*domain.FraudAlert, error) {
	return s.transition(ctx, ownerID, alertID, domain.AlertStatusResolved)
}

func (s *AlertServiceImpl) transition(ctx context.Context, ownerID, alertID uuid.UUID, status domain.AlertStatus) (*domain.FraudAlert, error) {
	alert, err := s.alertRepo.UpdateStatus(ctx, alertID, ownerID, status)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("update alert status: %w", err))
	}
	if alert == nil {
		return nil, apperror.ErrNotFound("Alert")
	}
	return alert, nil
}

package postgres

import (
	"context"
	"errors"
	"fmt"

	"finledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// AlertRepo implements ports.AlertRepository.
type AlertRepo struct {
	pool Pool
}

// NewAlertRepo creates a new AlertRepo.
func NewAlertRepo(pool Pool) *AlertRepo {
	return &AlertRepo{pool: pool}
}

const alertColumns = `id, owner_id, transaction_id, score, reasons, severity, status, created_at, updated_at`

// Create inserts a new fraud alert.
func (r *AlertRepo) Create(ctx context.Context, a *domain.FraudAlert) error {
	query := `INSERT INTO fraud_alerts (id, owner_id, transaction_id, score, reasons, severity, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.pool.Exec(ctx, query,
		a.ID, a.OwnerID, a.TransactionID, a.Score, a.Reasons, a.Severity, a.Status, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert fraud alert: %w", err)
	}
	return nil
}

// ListByOwner returns the owner's alerts, newest first, optionally
// filtered by status.
func (r *AlertRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID, status *domain.AlertStatus) ([]domain.FraudAlert, error) {
	query := `SELECT ` + alertColumns + ` FROM fraud_alerts WHERE owner_id = $1`
	args := []any{ownerID}
	if status != nil {
		query += ` AND status = $2`
		args = append(args, *status)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list fraud alerts: %w", err)
	}
	defer rows.Close()

	var alerts []domain.FraudAlert
	for rows.Next() {
		a := domain.FraudAlert{}
		err := rows.Scan(&a.ID, &a.OwnerID, &a.TransactionID, &a.Score, &a.Reasons, &a.Severity, &a.Status, &a.CreatedAt, &a.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan fraud alert row: %w", err)
		}
		alerts = append(alerts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate fraud alert rows: %w", err)
	}
	return alerts, nil
}

// UpdateStatus moves an alert through its review lifecycle.
func (r *AlertRepo) UpdateStatus(ctx context.Context, id, ownerID uuid.UUID, status domain.AlertStatus) (*domain.FraudAlert, error) {
	query := `UPDATE fraud_alerts SET status = $1, updated_at = NOW()
		WHERE id = $2 AND owner_id = $3
		RETURNING ` + alertColumns

	a := &domain.FraudAlert{}
	err := r.pool.QueryRow(ctx, query, status, id, ownerID).Scan(
		&a.ID, &a.OwnerID, &a.TransactionID, &a.Score, &a.Reasons, &a.Severity, &a.Status, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("update fraud alert status: %w", err)
	}
	return a, nil
}

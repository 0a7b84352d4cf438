package postgres

import (
	"context"
	"errors"
	"fmt"

	"finledger/internal/core/domain"
	"finledger/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// WalletRepo implements ports.WalletRepository.
type WalletRepo struct {
	pool Pool
}

// NewWalletRepo creates a new WalletRepo.
func NewWalletRepo(pool Pool) *WalletRepo {
	return &WalletRepo{pool: pool}
}

const walletColumns = `id, owner_id, name, currency, balance, status, created_at, updated_at`

// CreateIfAbsent inserts the wallet unless the owner already has one. The
// unique constraint on owner_id makes concurrent creates converge on a
// single row; the loser gets the winner's wallet with created=false.
func (r *WalletRepo) CreateIfAbsent(ctx context.Context, w *domain.Wallet) (*domain.Wallet, bool, error) {
	query := `INSERT INTO wallets (id, owner_id, name, currency, balance, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (owner_id) DO NOTHING
		RETURNING ` + walletColumns

	created, err := r.scanWallet(r.pool.QueryRow(ctx, query,
		w.ID, w.OwnerID, w.Name, w.Currency, w.Balance, w.Status, w.CreatedAt, w.UpdatedAt,
	))
	if err != nil {
		return nil, false, fmt.Errorf("insert wallet: %w", err)
	}
	if created != nil {
		return created, true, nil
	}

	existing, err := r.GetByOwner(ctx, w.OwnerID)
	if err != nil {
		return nil, false, err
	}
	if existing == nil {
		return nil, false, fmt.Errorf("wallet insert conflicted but no row exists for owner %s", w.OwnerID)
	}
	return existing, false, nil
}

// GetByID fetches a wallet by its UUID.
func (r *WalletRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE id = $1`

	w, err := r.scanWallet(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("get wallet by id: %w", err)
	}
	return w, nil
}

// GetByOwner fetches the owner's wallet.
func (r *WalletRepo) GetByOwner(ctx context.Context, ownerID uuid.UUID) (*domain.Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE owner_id = $1`

	w, err := r.scanWallet(r.pool.QueryRow(ctx, query, ownerID))
	if err != nil {
		return nil, fmt.Errorf("get wallet by owner: %w", err)
	}
	return w, nil
}

// ApplyDelta is the single balance write path: one guarded UPDATE that
// applies the delta only while the wallet is ACTIVE and the resulting
// balance stays non-negative. The guard runs inside the statement, so two
// concurrent debits can never drive the balance negative. No matching row
// means not-applied: (nil, nil).
func (r *WalletRepo) ApplyDelta(ctx context.Context, walletID, ownerID uuid.UUID, delta int64) (*domain.Wallet, error) {
	query := `UPDATE wallets
		SET balance = balance + $1, updated_at = NOW()
		WHERE id = $2 AND owner_id = $3 AND status = 'ACTIVE' AND balance + $1 >= 0
		RETURNING ` + walletColumns

	w, err := r.scanWallet(r.pool.QueryRow(ctx, query, delta, walletID, ownerID))
	if err != nil {
		return nil, fmt.Errorf("apply wallet delta: %w", err)
	}
	return w, nil
}

// UpdateProfile edits the wallet's non-balance fields.
func (r *WalletRepo) UpdateProfile(ctx context.Context, walletID, ownerID uuid.UUID, patch ports.WalletPatch) (*domain.Wallet, error) {
	query := `UPDATE wallets
		SET name = COALESCE($1, name),
			currency = COALESCE($2, currency),
			status = COALESCE($3, status),
			updated_at = NOW()
		WHERE id = $4 AND owner_id = $5
		RETURNING ` + walletColumns

	w, err := r.scanWallet(r.pool.QueryRow(ctx, query, patch.Name, patch.Currency, patch.Status, walletID, ownerID))
	if err != nil {
		return nil, fmt.Errorf("update wallet profile: %w", err)
	}
	return w, nil
}

// Delete removes a wallet row. Emptiness checks belong to the service.
func (r *WalletRepo) Delete(ctx context.Context, walletID, ownerID uuid.UUID) error {
	query := `DELETE FROM wallets WHERE id = $1 AND owner_id = $2`

	tag, err := r.pool.Exec(ctx, query, walletID, ownerID)
	if err != nil {
		return fmt.Errorf("delete wallet: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("wallet not found: %s", walletID)
	}
	return nil
}

func (r *WalletRepo) scanWallet(row pgx.Row) (*domain.Wallet, error) {
	w := &domain.Wallet{}
	err := row.Scan(&w.ID, &w.OwnerID, &w.Name, &w.Currency, &w.Balance, &w.Status, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return w, nil
}

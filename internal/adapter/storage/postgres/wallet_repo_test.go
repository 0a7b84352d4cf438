package postgres

import (
	"context"
	"testing"
	"time"

	"finledger/internal/core/domain"
	"finledger/internal/core/ports"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWallet(ownerID uuid.UUID, balance int64) *domain.Wallet {
	return &domain.Wallet{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Name:      "main",
		Currency:  "USD",
		Balance:   balance,
		Status:    domain.WalletStatusActive,
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
		UpdatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
}

func walletTestColumns() []string {
	return []string{"id", "owner_id", "name", "currency", "balance", "status", "created_at", "updated_at"}
}

func walletRow(w *domain.Wallet) *pgxmock.Rows {
	return pgxmock.NewRows(walletTestColumns()).AddRow(
		w.ID, w.OwnerID, w.Name, w.Currency, w.Balance, w.Status, w.CreatedAt, w.UpdatedAt,
	)
}

func TestWalletRepo_CreateIfAbsent_Inserts(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewWalletRepo(mock)
	w := newTestWallet(uuid.New(), 0)

	mock.ExpectQuery("INSERT INTO wallets").
		WithArgs(w.ID, w.OwnerID, w.Name, w.Currency, w.Balance, w.Status, w.CreatedAt, w.UpdatedAt).
		WillReturnRows(walletRow(w))

	result, created, err := repo.CreateIfAbsent(context.Background(), w)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, w.ID, result.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWalletRepo_CreateIfAbsent_ReturnsExistingOnConflict(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewWalletRepo(mock)
	existing := newTestWallet(uuid.New(), 777)
	attempt := newTestWallet(existing.OwnerID, 0)

	// ON CONFLICT DO NOTHING yields no row, then the existing wallet is read.
	mock.ExpectQuery("INSERT INTO wallets").
		WithArgs(attempt.ID, attempt.OwnerID, attempt.Name, attempt.Currency, attempt.Balance, attempt.Status, attempt.CreatedAt, attempt.UpdatedAt).
		WillReturnRows(pgxmock.NewRows(walletTestColumns()))
	mock.ExpectQuery("SELECT .+ FROM wallets WHERE owner_id").
		WithArgs(attempt.OwnerID).
		WillReturnRows(walletRow(existing))

	result, created, err := repo.CreateIfAbsent(context.Background(), attempt)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, existing.ID, result.ID)
	assert.Equal(t, int64(777), result.Balance)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWalletRepo_GetByID_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewWalletRepo(mock)
	id := uuid.New()

	mock.ExpectQuery("SELECT .+ FROM wallets WHERE id").
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows(walletTestColumns()))

	result, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Nil(t, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWalletRepo_ApplyDelta_Applied(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewWalletRepo(mock)
	w := newTestWallet(uuid.New(), 900)

	mock.ExpectQuery("UPDATE wallets").
		WithArgs(int64(-100), w.ID, w.OwnerID).
		WillReturnRows(walletRow(w))

	result, err := repo.ApplyDelta(context.Background(), w.ID, w.OwnerID, -100)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, int64(900), result.Balance)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWalletRepo_ApplyDelta_GuardRejects(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewWalletRepo(mock)
	walletID, ownerID := uuid.New(), uuid.New()

	// Balance guard or status guard filtered the row out: zero rows back.
	mock.ExpectQuery("UPDATE wallets").
		WithArgs(int64(-5000), walletID, ownerID).
		WillReturnRows(pgxmock.NewRows(walletTestColumns()))

	result, err := repo.ApplyDelta(context.Background(), walletID, ownerID, -5000)
	require.NoError(t, err)
	assert.Nil(t, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWalletRepo_UpdateProfile(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewWalletRepo(mock)
	w := newTestWallet(uuid.New(), 100)
	frozen := domain.WalletStatusFrozen
	patch := ports.WalletPatch{Status: &frozen}
	w.Status = frozen

	mock.ExpectQuery("UPDATE wallets").
		WithArgs(patch.Name, patch.Currency, patch.Status, w.ID, w.OwnerID).
		WillReturnRows(walletRow(w))

	result, err := repo.UpdateProfile(context.Background(), w.ID, w.OwnerID, patch)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, frozen, result.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWalletRepo_Delete_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewWalletRepo(mock)
	walletID, ownerID := uuid.New(), uuid.New()

	mock.ExpectExec("DELETE FROM wallets").
		WithArgs(walletID, ownerID).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err = repo.Delete(context.Background(), walletID, ownerID)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "wallet not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

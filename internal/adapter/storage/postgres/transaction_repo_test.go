package postgres

import (
	"context"
	"testing"
	"time"

	"finledger/internal/core/domain"
	"finledger/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTransaction(ownerID uuid.UUID) *domain.Transaction {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &domain.Transaction{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		WalletID:    uuid.New(),
		Direction:   domain.DirectionDebit,
		Amount:      2500,
		Currency:    "USD",
		Description: "coffee beans",
		Category:    "groceries",
		Status:      domain.TransactionStatusCompleted,
		Fingerprint: "a3f1c2d4e5b6978012345678901234567890abcdefabcdefabcdefabcdef0123",
		OccurredAt:  now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func transactionTestColumns() []string {
	return []string{
		"id", "owner_id", "wallet_id", "direction", "amount", "currency", "description", "category",
		"status", "fingerprint", "occurred_at", "metadata", "reversed", "reversed_at", "verified", "verified_at",
		"created_at", "updated_at",
	}
}

func transactionRow(t *domain.Transaction) *pgxmock.Rows {
	return pgxmock.NewRows(transactionTestColumns()).AddRow(
		t.ID, t.OwnerID, t.WalletID, t.Direction, t.Amount, t.Currency, t.Description, t.Category,
		t.Status, t.Fingerprint, t.OccurredAt, t.Metadata, t.Reversed, t.ReversedAt, t.Verified, t.VerifiedAt,
		t.CreatedAt, t.UpdatedAt,
	)
}

func expectInsertArgs(txn *domain.Transaction) []any {
	return []any{
		txn.ID, txn.OwnerID, txn.WalletID, txn.Direction, txn.Amount, txn.Currency, txn.Description, txn.Category,
		txn.Status, txn.Fingerprint, txn.OccurredAt, txn.Metadata, txn.Reversed, txn.ReversedAt, txn.Verified, txn.VerifiedAt,
		txn.CreatedAt, txn.UpdatedAt,
	}
}

func TestTransactionRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)
	txn := newTestTransaction(uuid.New())

	mock.ExpectExec("INSERT INTO transactions").
		WithArgs(expectInsertArgs(txn)...).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err = repo.Create(context.Background(), txn)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepo_Create_DuplicateFingerprint(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)
	txn := newTestTransaction(uuid.New())

	mock.ExpectExec("INSERT INTO transactions").
		WithArgs(expectInsertArgs(txn)...).
		WillReturnError(&pgconn.PgError{Code: pgUniqueViolation, ConstraintName: "transactions_fingerprint_key"})

	err = repo.Create(context.Background(), txn)
	assert.ErrorIs(t, err, ports.ErrDuplicateFingerprint)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepo_GetByID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)
	txn := newTestTransaction(uuid.New())

	mock.ExpectQuery("SELECT .+ FROM transactions WHERE id").
		WithArgs(txn.ID).
		WillReturnRows(transactionRow(txn))

	result, err := repo.GetByID(context.Background(), txn.ID)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, txn.Fingerprint, result.Fingerprint)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepo_GetByID_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)
	id := uuid.New()

	mock.ExpectQuery("SELECT .+ FROM transactions WHERE id").
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows(transactionTestColumns()))

	result, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Nil(t, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepo_ListRecent(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)
	ownerID := uuid.New()
	t1 := newTestTransaction(ownerID)
	t2 := newTestTransaction(ownerID)
	since := time.Now().UTC().Add(-24 * time.Hour)

	rows := transactionRow(t1).AddRow(
		t2.ID, t2.OwnerID, t2.WalletID, t2.Direction, t2.Amount, t2.Currency, t2.Description, t2.Category,
		t2.Status, t2.Fingerprint, t2.OccurredAt, t2.Metadata, t2.Reversed, t2.ReversedAt, t2.Verified, t2.VerifiedAt,
		t2.CreatedAt, t2.UpdatedAt,
	)

	mock.ExpectQuery("SELECT .+ FROM transactions\\s+WHERE owner_id .+ occurred_at").
		WithArgs(ownerID, since, 50).
		WillReturnRows(rows)

	result, err := repo.ListRecent(context.Background(), ownerID, since, 50)
	require.NoError(t, err)
	assert.Len(t, result, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepo_List_WithFilters(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)
	ownerID := uuid.New()
	txn := newTestTransaction(ownerID)
	status := domain.TransactionStatusCompleted
	category := "groceries"

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM transactions").
		WithArgs(ownerID, status, category).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(1)))
	mock.ExpectQuery("SELECT .+ FROM transactions WHERE .+ ORDER BY occurred_at DESC").
		WithArgs(ownerID, status, category, 20, 0).
		WillReturnRows(transactionRow(txn))

	result, total, err := repo.List(context.Background(), ports.TransactionListParams{
		OwnerID:  ownerID,
		Status:   &status,
		Category: &category,
		Page:     1,
		PageSize: 20,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, result, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepo_MarkReversed_AlreadyReversed(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)
	id := uuid.New()
	at := time.Now().UTC()

	mock.ExpectExec("UPDATE transactions SET reversed").
		WithArgs(at, id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err = repo.MarkReversed(context.Background(), id, at)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepo_GetStats(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)
	ownerID := uuid.New()

	mock.ExpectQuery("SELECT\\s+COUNT\\(\\*\\) AS total").
		WithArgs(ownerID).
		WillReturnRows(pgxmock.NewRows([]string{"total", "completed", "failed", "reversed", "credited", "debited"}).
			AddRow(int64(10), int64(8), int64(1), int64(1), int64(50000), int64(30000)))

	stats, err := repo.GetStats(context.Background(), ownerID, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(10), stats.TotalTransactions)
	assert.Equal(t, int64(50000), stats.TotalCredited)
	assert.Equal(t, int64(30000), stats.TotalDebited)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepo_SumDebitsByCategory(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)
	ownerID := uuid.New()
	since := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT COALESCE\\(SUM\\(amount\\), 0\\) FROM transactions").
		WithArgs(ownerID, "groceries", since).
		WillReturnRows(pgxmock.NewRows([]string{"sum"}).AddRow(int64(42000)))

	sum, err := repo.SumDebitsByCategory(context.Background(), ownerID, "groceries", since)
	require.NoError(t, err)
	assert.Equal(t, int64(42000), sum)
	assert.NoError(t, mock.ExpectationsWereMet())
}

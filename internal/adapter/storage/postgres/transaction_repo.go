package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"finledger/internal/core/domain"
	"finledger/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const pgUniqueViolation = "23505"

// TransactionRepo implements ports.TransactionRepository.
type TransactionRepo struct {
	pool Pool
}

// NewTransactionRepo creates a new TransactionRepo.
func NewTransactionRepo(pool Pool) *TransactionRepo {
	return &TransactionRepo{pool: pool}
}

const transactionColumns = `id, owner_id, wallet_id, direction, amount, currency, description, category,
		status, fingerprint, occurred_at, metadata, reversed, reversed_at, verified, verified_at, created_at, updated_at`

// Create inserts a new transaction. The unique index on fingerprint is the
// authoritative duplicate check; a violation surfaces as
// ports.ErrDuplicateFingerprint.
func (r *TransactionRepo) Create(ctx context.Context, t *domain.Transaction) error {
	query := `INSERT INTO transactions (id, owner_id, wallet_id, direction, amount, currency, description, category,
		status, fingerprint, occurred_at, metadata, reversed, reversed_at, verified, verified_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`

	_, err := r.pool.Exec(ctx, query,
		t.ID, t.OwnerID, t.WalletID, t.Direction, t.Amount, t.Currency, t.Description, t.Category,
		t.Status, t.Fingerprint, t.OccurredAt, t.Metadata, t.Reversed, t.ReversedAt, t.Verified, t.VerifiedAt,
		t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return fmt.Errorf("insert transaction %s: %w", t.ID, ports.ErrDuplicateFingerprint)
		}
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// GetByID fetches a transaction by UUID.
func (r *TransactionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`

	return r.scanTransaction(r.pool.QueryRow(ctx, query, id))
}

// ListRecent returns the owner's transactions occurring at or after since,
// newest first.
func (r *TransactionRepo) ListRecent(ctx context.Context, ownerID uuid.UUID, since time.Time, limit int) ([]domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions
		WHERE owner_id = $1 AND occurred_at >= $2
		ORDER BY occurred_at DESC LIMIT $3`

	rows, err := r.pool.Query(ctx, query, ownerID, since, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent transactions: %w", err)
	}
	defer rows.Close()

	return r.collect(rows)
}

// List fetches transactions with filtering and pagination.
func (r *TransactionRepo) List(ctx context.Context, params ports.TransactionListParams) ([]domain.Transaction, int64, error) {
	var conditions []string
	var args []any
	argIdx := 1

	conditions = append(conditions, fmt.Sprintf("owner_id = $%d", argIdx))
	args = append(args, params.OwnerID)
	argIdx++

	if params.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, *params.Status)
		argIdx++
	}
	if params.Direction != nil {
		conditions = append(conditions, fmt.Sprintf("direction = $%d", argIdx))
		args = append(args, *params.Direction)
		argIdx++
	}
	if params.Category != nil {
		conditions = append(conditions, fmt.Sprintf("category = $%d", argIdx))
		args = append(args, *params.Category)
		argIdx++
	}
	if params.From != nil {
		conditions = append(conditions, fmt.Sprintf("occurred_at >= to_timestamp($%d)", argIdx))
		args = append(args, *params.From)
		argIdx++
	}
	if params.To != nil {
		conditions = append(conditions, fmt.Sprintf("occurred_at <= to_timestamp($%d)", argIdx))
		args = append(args, *params.To)
		argIdx++
	}

	where := "WHERE " + strings.Join(conditions, " AND ")

	// Count total
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM transactions %s", where)
	var total int64
	err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count transactions: %w", err)
	}

	// Fetch page
	offset := (params.Page - 1) * params.PageSize
	dataQuery := fmt.Sprintf(`SELECT %s FROM transactions %s ORDER BY occurred_at DESC LIMIT $%d OFFSET $%d`,
		transactionColumns, where, argIdx, argIdx+1)
	args = append(args, params.PageSize, offset)

	rows, err := r.pool.Query(ctx, dataQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	txns, err := r.collect(rows)
	if err != nil {
		return nil, 0, err
	}
	return txns, total, nil
}

// UpdateEditable patches description, category, status and metadata.
// Financial fields never change here.
func (r *TransactionRepo) UpdateEditable(ctx context.Context, id uuid.UUID, patch ports.TransactionPatch) (*domain.Transaction, error) {
	query := `UPDATE transactions SET
			description = COALESCE($1, description),
			category = COALESCE($2, category),
			status = COALESCE($3, status),
			metadata = COALESCE($4, metadata),
			updated_at = NOW()
		WHERE id = $5
		RETURNING ` + transactionColumns

	var metadata any
	if patch.Metadata != nil {
		metadata = patch.Metadata
	}
	return r.scanTransaction(r.pool.QueryRow(ctx, query, patch.Description, patch.Category, patch.Status, metadata, id))
}

// SetMetadata replaces the transaction's metadata document.
func (r *TransactionRepo) SetMetadata(ctx context.Context, id uuid.UUID, metadata map[string]any) error {
	query := `UPDATE transactions SET metadata = $1, updated_at = NOW() WHERE id = $2`

	tag, err := r.pool.Exec(ctx, query, metadata, id)
	if err != nil {
		return fmt.Errorf("set transaction metadata: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("transaction not found: %s", id)
	}
	return nil
}

// MarkReversed flags the transaction reversed. The row itself is kept.
func (r *TransactionRepo) MarkReversed(ctx context.Context, id uuid.UUID, at time.Time) error {
	query := `UPDATE transactions SET reversed = TRUE, reversed_at = $1, updated_at = $1
		WHERE id = $2 AND reversed = FALSE`

	tag, err := r.pool.Exec(ctx, query, at, id)
	if err != nil {
		return fmt.Errorf("mark transaction reversed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("transaction not found or already reversed: %s", id)
	}
	return nil
}

// MarkVerified stamps the verification flag.
func (r *TransactionRepo) MarkVerified(ctx context.Context, id uuid.UUID, at time.Time) error {
	query := `UPDATE transactions SET verified = TRUE, verified_at = $1, updated_at = $1 WHERE id = $2`

	tag, err := r.pool.Exec(ctx, query, at, id)
	if err != nil {
		return fmt.Errorf("mark transaction verified: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("transaction not found: %s", id)
	}
	return nil
}

// CountByWallet counts all transactions referencing a wallet.
func (r *TransactionRepo) CountByWallet(ctx context.Context, walletID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM transactions WHERE wallet_id = $1`

	var count int64
	if err := r.pool.QueryRow(ctx, query, walletID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count transactions by wallet: %w", err)
	}
	return count, nil
}

// GetStats retrieves aggregated transaction statistics for an owner.
func (r *TransactionRepo) GetStats(ctx context.Context, ownerID uuid.UUID, periodStart *int64) (*ports.TransactionStats, error) {
	var args []any
	argIdx := 1

	condition := fmt.Sprintf("owner_id = $%d", argIdx)
	args = append(args, ownerID)
	argIdx++

	if periodStart != nil {
		condition += fmt.Sprintf(" AND occurred_at >= to_timestamp($%d)", argIdx)
		args = append(args, *periodStart)
	}

	query := fmt.Sprintf(`SELECT
		COUNT(*) AS total,
		COUNT(*) FILTER (WHERE status = 'COMPLETED') AS completed,
		COUNT(*) FILTER (WHERE status = 'FAILED') AS failed,
		COUNT(*) FILTER (WHERE reversed) AS reversed,
		COALESCE(SUM(amount) FILTER (WHERE direction = 'CREDIT' AND status = 'COMPLETED' AND NOT reversed), 0) AS credited,
		COALESCE(SUM(amount) FILTER (WHERE direction = 'DEBIT' AND status = 'COMPLETED' AND NOT reversed), 0) AS debited
		FROM transactions WHERE %s`, condition)

	stats := &ports.TransactionStats{}
	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&stats.TotalTransactions, &stats.Completed, &stats.Failed, &stats.Reversed,
		&stats.TotalCredited, &stats.TotalDebited,
	)
	if err != nil {
		return nil, fmt.Errorf("get transaction stats: %w", err)
	}
	return stats, nil
}

// SumDebitsByCategory aggregates completed, non-reversed debit spend for a
// category since the given time.
func (r *TransactionRepo) SumDebitsByCategory(ctx context.Context, ownerID uuid.UUID, category string, since time.Time) (int64, error) {
	query := `SELECT COALESCE(SUM(amount), 0) FROM transactions
		WHERE owner_id = $1 AND category = $2 AND direction = 'DEBIT'
		AND status = 'COMPLETED' AND NOT reversed AND occurred_at >= $3`

	var sum int64
	if err := r.pool.QueryRow(ctx, query, ownerID, category, since).Scan(&sum); err != nil {
		return 0, fmt.Errorf("sum debits by category: %w", err)
	}
	return sum, nil
}

func (r *TransactionRepo) collect(rows pgx.Rows) ([]domain.Transaction, error) {
	var txns []domain.Transaction
	for rows.Next() {
		t := domain.Transaction{}
		err := rows.Scan(
			&t.ID, &t.OwnerID, &t.WalletID, &t.Direction, &t.Amount, &t.Currency, &t.Description, &t.Category,
			&t.Status, &t.Fingerprint, &t.OccurredAt, &t.Metadata, &t.Reversed, &t.ReversedAt, &t.Verified, &t.VerifiedAt,
			&t.CreatedAt, &t.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan transaction row: %w", err)
		}
		txns = append(txns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transaction rows: %w", err)
	}
	return txns, nil
}

// scanTransaction is a helper to scan a single row into a Transaction.
func (r *TransactionRepo) scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	t := &domain.Transaction{}
	err := row.Scan(
		&t.ID, &t.OwnerID, &t.WalletID, &t.Direction, &t.Amount, &t.Currency, &t.Description, &t.Category,
		&t.Status, &t.Fingerprint, &t.OccurredAt, &t.Metadata, &t.Reversed, &t.ReversedAt, &t.Verified, &t.VerifiedAt,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan transaction: %w", err)
	}
	return t, nil
}

package service

import (
	"context"
	"time"

	"finledger/internal/core/domain"
	"finledger/internal/core/ports"
	"finledger/pkg/apperror"

	"github.com/google/uuid"
)

// reportingService implements ports.ReportingService.
type reportingService struct {
	txRepo     ports.TransactionRepository
	walletRepo ports.WalletRepository
}

// NewReportingService creates a new reporting service.
func NewReportingService(txRepo ports.TransactionRepository, walletRepo ports.WalletRepository) ports.ReportingService {
	return &reportingService{
		txRepo:     txRepo,
		walletRepo: walletRepo,
	}
}

// GetWalletBalance returns the current balance and currency of the owner's wallet.
func (s *reportingService) GetWalletBalance(ctx context.Context, ownerID uuid.UUID) (int64, string, error) {
	wallet, err := s.walletRepo.GetByOwner(ctx, ownerID)
	if err != nil {
		return 0, "", apperror.InternalError(err)
	}
	if wallet == nil {
		return 0, "", apperror.ErrNotFound("Wallet")
	}
	return wallet.Balance, wallet.Currency, nil
}

// GetTransaction returns a single owner-scoped transaction.
func (s *reportingService) GetTransaction(ctx context.Context, ownerID, transactionID uuid.UUID) (*domain.Transaction, error) {
	txn, err := s.txRepo.GetByID(ctx, transactionID)
	if err != nil {
		return nil, apperror.InternalError(err)
	}
	if txn == nil || txn.OwnerID != ownerID {
		return nil, apperror.ErrNotFound("Transaction")
	}
	return txn, nil
}

// ListTransactions returns a paginated, filtered list of transactions.
func (s *reportingService) ListTransactions(ctx context.Context, params ports.TransactionListParams) ([]domain.Transaction, int64, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PageSize < 1 || params.PageSize > 100 {
		params.PageSize = 20
	}

	txns, total, err := s.txRepo.List(ctx, params)
	if err != nil {
		return nil, 0, apperror.InternalError(err)
	}
	return txns, total, nil
}

// GetStats returns aggregated transaction stats for the dashboard.
func (s *reportingService) GetStats(ctx context.Context, ownerID uuid.UUID, period string) (*ports.TransactionStats, error) {
	var periodStart *int64

	switch period {
	case "day":
		t := time.Now().AddDate(0, 0, -1).Unix()
		periodStart = &t
	case "week":
		t := time.Now().AddDate(0, 0, -7).Unix()
		periodStart = &t
	case "month":
		t := time.Now().AddDate(0, -1, 0).Unix()
		periodStart = &t
	case "all", "":
		// No time filter
	default:
		return nil, apperror.Validation("invalid period: must be day, week, month, or all")
	}

	stats, err := s.txRepo.GetStats(ctx, ownerID, periodStart)
	if err != nil {
		return nil, apperror.InternalError(err)
	}

	return stats, nil
}

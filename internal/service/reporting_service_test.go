package service

import (
	"context"
	"testing"

	"finledger/internal/core/domain"
	"finledger/internal/core/ports"
	"finledger/internal/core/ports/mocks"
	"finledger/pkg/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newReportingService(t *testing.T) (*mocks.MockTransactionRepository, *mocks.MockWalletRepository, ports.ReportingService) {
	ctrl := gomock.NewController(t)
	txRepo := mocks.NewMockTransactionRepository(ctrl)
	walletRepo := mocks.NewMockWalletRepository(ctrl)
	return txRepo, walletRepo, NewReportingService(txRepo, walletRepo)
}

func TestReportingService_GetWalletBalance(t *testing.T) {
	_, walletRepo, svc := newReportingService(t)
	ownerID := uuid.New()

	walletRepo.EXPECT().
		GetByOwner(gomock.Any(), ownerID).
		Return(&domain.Wallet{OwnerID: ownerID, Balance: 12345, Currency: "EUR"}, nil)

	balance, currency, err := svc.GetWalletBalance(context.Background(), ownerID)

	require.NoError(t, err)
	assert.Equal(t, int64(12345), balance)
	assert.Equal(t, "EUR", currency)
}

func TestReportingService_GetTransaction_ScopedToOwner(t *testing.T) {
	txRepo, _, svc := newReportingService(t)
	txn := &domain.Transaction{ID: uuid.New(), OwnerID: uuid.New()}

	txRepo.EXPECT().GetByID(gomock.Any(), txn.ID).Return(txn, nil)

	_, err := svc.GetTransaction(context.Background(), uuid.New(), txn.ID)

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "RES_001", appErr.Code)
}

func TestReportingService_ListTransactions_NormalizesPaging(t *testing.T) {
	txRepo, _, svc := newReportingService(t)
	ownerID := uuid.New()

	txRepo.EXPECT().
		List(gomock.Any(), ports.TransactionListParams{OwnerID: ownerID, Page: 1, PageSize: 20}).
		Return([]domain.Transaction{}, int64(0), nil)

	_, _, err := svc.ListTransactions(context.Background(), ports.TransactionListParams{OwnerID: ownerID, Page: 0, PageSize: 500})

	require.NoError(t, err)
}

func TestReportingService_GetStats(t *testing.T) {
	txRepo, _, svc := newReportingService(t)
	ownerID := uuid.New()
	want := &ports.TransactionStats{TotalTransactions: 9, Completed: 7, Failed: 1, Reversed: 1}

	txRepo.EXPECT().
		GetStats(gomock.Any(), ownerID, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ uuid.UUID, periodStart *int64) (*ports.TransactionStats, error) {
			require.NotNil(t, periodStart)
			return want, nil
		})

	stats, err := svc.GetStats(context.Background(), ownerID, "week")

	require.NoError(t, err)
	assert.Equal(t, want, stats)
}

func TestReportingService_GetStats_InvalidPeriod(t *testing.T) {
	_, _, svc := newReportingService(t)

	_, err := svc.GetStats(context.Background(), uuid.New(), "decade")

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "VAL_001", appErr.Code)
}
